package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cc103/storefront/internal/app"
	"github.com/cc103/storefront/internal/pkg/config"
	"github.com/cc103/storefront/pkg/logger"
)

// Version is set at build time with -ldflags "-X github.com/cc103/storefront/internal/cli.Version=...".
var Version = "dev"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront auth and product catalog API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newSeedCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

// bootstrap loads config and initialises the process logger.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront",
	})
	return cfg, log, nil
}

// withApp builds the application, runs fn and always releases its resources.
func withApp(ctx context.Context, fn func(*app.App, zerolog.Logger) error) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("close failed")
		}
	}()

	return fn(a, log)
}
