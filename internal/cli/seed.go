package cli

import (
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/common/secretbox"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/seed"
	"launchthat.app/portal/internal/service"
	"launchthat.app/portal/internal/store"
	"launchthat.app/portal/internal/webhook"
)

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create organizations, tags and scenarios from a seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.LoadFile(args[0])
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d organization(s)\n", args[0], len(f.Organizations))
				return nil
			}

			ctx := cmd.Context()
			if err := id.Init(id.NodeCLI); err != nil {
				return fmt.Errorf("initializing id generator: %w", err)
			}

			cfg, database, err := connect(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			box, err := secretbox.New(cfg.Secrets.MasterKey)
			if err != nil {
				return fmt.Errorf("invalid secrets master key: %w", err)
			}

			// Seeding never sends webhooks; the sender only backs node validation.
			sender := webhook.NewSender(webhook.Config{UserAgent: cfg.Webhooks.UserAgent})
			services := service.NewServices(
				store.NewStores(database.Queries()),
				service.NewTxRunner(database),
				service.Dependencies{
					Secrets:  box,
					Sender:   sender,
					Registry: scenario.NewRegistry(sender, resty.New()),
				},
				cfg.WorkOS,
				cfg.DashboardURL,
			)

			summary, err := seed.NewSeeder(seed.Services{
				Users:         services.Users(),
				Organizations: services.Organizations(),
				Memberships:   services.Memberships(),
				Tags:          services.Tags(),
				Scenarios:     services.Scenarios(),
				Nodes:         services.Nodes(),
				Edges:         services.Edges(),
			}).Apply(ctx, f)
			if err != nil {
				return err
			}

			if rootOpts.Verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "seeded %s\n", args[0])
			}
			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			return out.Encode(summary)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without touching the database")
	return cmd
}
