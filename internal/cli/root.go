// Package cli implements portalctl, the operator command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"launchthat.app/portal/common/logger"
	"launchthat.app/portal/core/config"
	"launchthat.app/portal/core/db"
)

type RootOptions struct {
	Verbose bool
}

// NewRootCommand builds portalctl with every subcommand attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "portalctl",
		Short:         "Operate a portal deployment",
		Long:          "Run database migrations, load seed fixtures and sign webhook payloads.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewSignCommand())

	return cmd
}

// connect loads the CLI config and opens the database.
func connect(ctx context.Context) (config.Config, *db.DB, error) {
	cfg, err := config.Load(config.ServiceTypeCLI)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Setup(cfg)

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return cfg, database, nil
}
