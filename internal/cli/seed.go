package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cc103/storefront/internal/app"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Args:  cobra.NoArgs,
		Short: "Insert demo users and products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App, log zerolog.Logger) error {
				report, err := a.Seed(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users and %d products\n", report.Users, report.Products)
				return nil
			})
		},
	}
}
