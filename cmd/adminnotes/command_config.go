package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adminnotes/internal/config"
)

func addConfig(topLevel *cobra.Command, w commandWiring) {
	defaults := false
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if !defaults {
				loaded, err := w.loadConfig()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			}
			data, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print built-in defaults instead of the loaded file.")
	topLevel.AddCommand(cmd)
}
