package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cc103/storefront/internal/app"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App, log zerolog.Logger) error {
				return a.Run(cmd.Context())
			})
		},
	}
}
