package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"launchthat.app/portal/core/db"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(migrateStep("up", "Apply every pending migration", rootOpts, (*db.DB).Migrate))
	cmd.AddCommand(migrateStep("down", "Roll back the most recent migration", rootOpts, (*db.DB).MigrateDown))
	cmd.AddCommand(migrateStep("status", "Print the applied migration version", rootOpts, nil))

	return cmd
}

// migrateStep runs step, if any, then prints the applied version.
func migrateStep(use, short string, rootOpts *RootOptions, step func(*db.DB, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			_, database, err := connect(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			if step != nil {
				if err := step(database, ctx); err != nil {
					return err
				}
			}

			version, err := database.MigrationVersion(ctx)
			if err != nil {
				return fmt.Errorf("reading migration version: %w", err)
			}
			if rootOpts.Verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "migrate %s done\n", use)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d\n", version)
			return nil
		},
	}
}
