package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cc103/storefront/internal/app"
	"github.com/cc103/storefront/pkg/logger"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "migrate",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Short:   "Database migration commands",
		Long: `Manage the schema of the configured store.
Postgres runs the embedded goose migrations; mongo creates its indexes on "up".`,
	}

	for _, direction := range []string{"up", "down", "status"} {
		cmd.AddCommand(newMigrateDirectionCommand(direction))
	}
	return cmd
}

func newMigrateDirectionCommand(direction string) *cobra.Command {
	short := map[string]string{
		"up":     "Apply all pending migrations",
		"down":   "Roll back the last migration",
		"status": "Print migration status",
	}[direction]

	return &cobra.Command{
		Use:   direction,
		Args:  cobra.NoArgs,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, _, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			store, err := app.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			if err := store.Migrate(ctx, direction); err != nil {
				return fmt.Errorf("migrate %s: %w", direction, err)
			}
			log := logger.Component("migrate")
			log.Info().Str("store", store.Backend).Str("direction", direction).Msg("migration finished")
			return nil
		},
	}
}
