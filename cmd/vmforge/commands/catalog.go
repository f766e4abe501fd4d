package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmforge/vmforge/pkg/engine"
)

func newCatalogCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog [provider]",
		Short: "List the catalog offering of a provider",
		Long:  "Shows the vm classes, size tiers with their sizing, and supported regions of a provider. Lists all providers when none is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, version)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			ctx = a.telemetry.WithContext(ctx)

			if len(args) == 0 {
				listings := make([]engine.CatalogListing, 0, len(engine.KnownProviders()))
				for _, p := range engine.KnownProviders() {
					listing, err := a.coordinator.ListCatalog(ctx, p)
					if err != nil {
						return err
					}
					listings = append(listings, listing)
				}
				return printResult(listings)
			}

			provider := engine.ProviderID(args[0])
			listing, err := a.coordinator.ListCatalog(ctx, provider)
			if err != nil {
				return fmt.Errorf("failed to list catalog: %w", err)
			}
			return printResult(listing)
		},
	}

	return cmd
}
