package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"adminnotes/internal/client"
)

type addOptions struct {
	Player string
	Author string
}

func addAdd(topLevel *cobra.Command, w commandWiring) {
	opts := addOptions{}
	cmd := &cobra.Command{
		Use:   "add MESSAGE...",
		Short: "Add a note for a player.",
		Example: `
adminnotes add --player alice warned for spawn camping
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(opts.Player) == "" {
				return fmt.Errorf("--player is required")
			}
			message, err := joinMessage(args)
			if err != nil {
				return err
			}
			api, cfg, err := w.clientWithConfig()
			if err != nil {
				return err
			}
			author := strings.TrimSpace(opts.Author)
			if author == "" {
				author = cfg.ModeratorName()
			}
			ctx, cancel := requestContext()
			defer cancel()
			note, err := api.CreateNote(ctx, client.CreateNoteRequest{
				Player:  opts.Player,
				Message: message,
				Author:  author,
			})
			if err != nil {
				return describeClientError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "note %d added for %s\n", note.ID, note.Player)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Player, "player", "p", "", "Player the note is about.")
	cmd.Flags().StringVar(&opts.Author, "author", "", "Recorded author, defaults to [moderator] name.")
	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command, w commandWiring) {
	author := ""
	cmd := &cobra.Command{
		Use:   "edit ID MESSAGE...",
		Short: "Replace the text of a note.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			message, err := joinMessage(args[1:])
			if err != nil {
				return err
			}
			api, cfg, err := w.clientWithConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(author) == "" {
				author = cfg.ModeratorName()
			}
			ctx, cancel := requestContext()
			defer cancel()
			if _, err := api.UpdateNote(ctx, id, client.UpdateNoteRequest{Message: message, Author: author}); err != nil {
				return describeClientError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "note %d saved\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "Recorded editor, defaults to [moderator] name.")
	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command, w commandWiring) {
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a note.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			api, _, err := w.clientWithConfig()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext()
			defer cancel()
			if err := api.DeleteNote(ctx, id); err != nil {
				return describeClientError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "note %d deleted\n", id)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
