package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmforge/vmforge/pkg/engine"
)

func newValidateCommand(version string) *cobra.Command {
	var (
		provider string
		vmClass  string
		region   string
		sizeTier string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Dry-run a configuration",
		Long:  "Resolves and validates a catalog triple, reporting the specification, estimated cost, and warnings without creating resources.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, version)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			report := a.coordinator.ValidateConfiguration(
				a.telemetry.WithContext(ctx),
				engine.ProviderID(provider),
				engine.VMClass(vmClass),
				region,
				engine.SizeTier(sizeTier),
			)

			if err := printResult(report); err != nil {
				return err
			}
			if !report.Valid {
				return fmt.Errorf("configuration is invalid: %s", report.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "provider (aws, azure, gcp, onpremise)")
	cmd.Flags().StringVar(&vmClass, "class", "standard", "vm class")
	cmd.Flags().StringVarP(&region, "region", "r", "", "target region")
	cmd.Flags().StringVar(&sizeTier, "tier", "", "size tier; catalog default when empty")

	return cmd
}
