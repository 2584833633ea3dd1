package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"grammar_enhancer/server"
	"grammar_enhancer/settings"
)

func (a *app) keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the stored OpenAI API key",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <api-key>",
		Short: "Save the API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := settings.Open(a.cfg.Settings)
			if err != nil {
				return err
			}
			defer settings.Close(store)
			if err := store.Set(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), server.SavedMessage)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show whether an API key is saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := settings.Open(a.cfg.Settings)
			if err != nil {
				return err
			}
			defer settings.Close(store)
			key, ok, err := store.Get(cmd.Context())
			if err != nil {
				return err
			}
			if !ok || key == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No API key saved.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key saved (ending in %s).\n", settings.Hint(key))
			return nil
		},
	})
	return cmd
}
