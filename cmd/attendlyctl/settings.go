package main

import (
	"encoding/json"
	"fmt"

	"github.com/attendly/attendly-backend/internal/attendance/settings"
	"github.com/spf13/cobra"
)

func newSettingsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect the report settings document",
	}

	cmd.AddCommand(newSettingsShowCmd(root))

	return cmd
}

func newSettingsShowCmd(root *rootOptions) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := settings.Defaults()
			if !defaults {
				a, err := loadApp(cmd, root)
				if err != nil {
					return err
				}
				defer a.Close()

				store, err := a.settingsStore()
				if err != nil {
					return err
				}
				doc = store.Get()
			}

			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print the built-in defaults instead of the settings file")

	return cmd
}
