package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"adminnotes/internal/types"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"

	listMessageWidth = 60
	listTimeLayout   = "2006-01-02 15:04"
)

type listOptions struct {
	Player string
	Output string
}

func addList(topLevel *cobra.Command, w commandWiring) {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, optionally for one player.",
		Example: `
adminnotes list --player alice
adminnotes list -o yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, _, err := w.clientWithConfig()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext()
			defer cancel()
			notes, err := api.ListNotes(ctx, strings.TrimSpace(opts.Player))
			if err != nil {
				return describeClientError(err)
			}
			return printNotes(cmd.OutOrStdout(), notes, opts.Output)
		},
	}
	cmd.Flags().StringVarP(&opts.Player, "player", "p", "", "Only show notes for this player.")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", outputTable, "Output format. One of 'table', 'json' or 'yaml'.")
	topLevel.AddCommand(cmd)
}

func printNotes(out io.Writer, notes []*types.Note, format string) error {
	if notes == nil {
		notes = []*types.Note{}
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", outputTable:
		printNotesTable(out, notes)
		return nil
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(notes)
	case outputYAML:
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(notes)
	default:
		return errors.New("unknown output format: " + format)
	}
}

func printNotesTable(out io.Writer, notes []*types.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(out, "No notes.")
		return
	}
	header := color.New(color.Bold, color.Underline).SprintFunc()
	idColor := color.New(color.FgCyan).SprintFunc()
	editedColor := color.New(color.FgYellow).SprintFunc()

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(header("ID"), header("PLAYER"), header("MESSAGE"), header("BY"), header("CREATED"))
	for _, note := range notes {
		by := note.CreatedBy
		if note.Edited() {
			by = editedColor(note.LastEditedBy + "*")
		}
		tbl.AddRow(
			idColor(note.ID),
			note.Player,
			runewidth.Truncate(firstLine(note.Message), listMessageWidth, "…"),
			by,
			note.CreatedAt.Local().Format(listTimeLayout),
		)
	}
	fmt.Fprintln(out, tbl)
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i] + " …"
	}
	return text
}
