package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vmforge",
		Short: "VMForge - declarative VM resource family engine",
		Long: `VMForge assembles and provisions simulated VM resource families
(compute + network + storage) across aws, azure, gcp, and onpremise
providers from a declarative catalog of classes and size tiers.

Features:
  - Catalog of per-provider sizing tables with class defaults
  - Partial overrides merged into validated specifications
  - Sequential network -> storage -> vm pipeline with classified errors
  - Prototype templates cloned and adapted across providers
  - Deterministic cost estimation`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newServeCommand(version))
	rootCmd.AddCommand(newProvisionCommand(version))
	rootCmd.AddCommand(newValidateCommand(version))
	rootCmd.AddCommand(newCatalogCommand(version))
	rootCmd.AddCommand(newTemplatesCommand(version))

	return rootCmd
}
