package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDBCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create any missing attendance tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.db.EnsureSchema(commandContext(cmd, root)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", a.db.Dialect.Name())
			return nil
		},
	})

	return cmd
}
