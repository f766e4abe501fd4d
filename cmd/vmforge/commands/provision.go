package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vmforge/vmforge/pkg/engine"
)

func newProvisionCommand(version string) *cobra.Command {
	var (
		provider string
		vmClass  string
		region   string
		sizeTier string
		template string
		vcpus    int
		memoryGB int
		sizeGB   int
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Construct a VM resource family",
		Long: `Constructs a network + storage + vm family from the catalog, or from a
named template when --template is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, version)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			ctx = a.telemetry.WithContext(ctx)

			ov := engine.Overrides{}
			if vcpus > 0 || memoryGB > 0 {
				ov.VM = &engine.VMOverrides{}
				if vcpus > 0 {
					ov.VM.VCPUs = &vcpus
				}
				if memoryGB > 0 {
					ov.VM.MemoryGB = &memoryGB
				}
			}
			if sizeGB > 0 {
				ov.Storage = &engine.StorageOverrides{SizeGB: &sizeGB}
			}

			var result *engine.FamilyResult
			if template != "" {
				result, err = a.coordinator.CreateFromTemplate(
					ctx, template, engine.ProviderID(provider), region, ov)
			} else {
				result, err = a.coordinator.ConstructFamily(ctx, engine.FamilyRequest{
					VMClass:   engine.VMClass(vmClass),
					Provider:  engine.ProviderID(provider),
					Region:    region,
					SizeTier:  engine.SizeTier(sizeTier),
					Overrides: ov,
				})
			}
			if err != nil {
				return err
			}

			return printResult(result)
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "provider (aws, azure, gcp, onpremise)")
	cmd.Flags().StringVar(&vmClass, "class", "standard", "vm class (standard, memory_optimized, compute_optimized)")
	cmd.Flags().StringVarP(&region, "region", "r", "", "target region")
	cmd.Flags().StringVar(&sizeTier, "tier", "", "size tier (small, medium, large); catalog default when empty")
	cmd.Flags().StringVarP(&template, "template", "t", "", "construct from a named template instead of the catalog")
	cmd.Flags().IntVar(&vcpus, "vcpus", 0, "override vcpu count")
	cmd.Flags().IntVar(&memoryGB, "memory", 0, "override memory in GB")
	cmd.Flags().IntVar(&sizeGB, "storage", 0, "override storage size in GB")

	return cmd
}
