package engine_test

import (
	"context"
	"fmt"
	"log"

	"github.com/vmforge/vmforge/pkg/builder"
	"github.com/vmforge/vmforge/pkg/catalog"
	"github.com/vmforge/vmforge/pkg/engine"
	"github.com/vmforge/vmforge/pkg/pricing"
	"github.com/vmforge/vmforge/pkg/providers"
	"github.com/vmforge/vmforge/pkg/templates"
)

// ExampleCoordinator_ConstructFamily demonstrates provisioning a full
// network + storage + vm family from the builtin catalog.
func ExampleCoordinator_ConstructFamily() {
	b := builder.New()
	registry := templates.NewRegistry(b)
	coordinator := engine.NewCoordinator(
		catalog.Builtin(), b, providers.NewDefaultRegistry(), registry,
		pricing.NewCalculator())

	result, err := coordinator.ConstructFamily(context.Background(), engine.FamilyRequest{
		VMClass:  engine.VMClassStandard,
		Provider: engine.ProviderAWS,
		Region:   "us-east-1",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("state:", result.State)
	for _, rec := range result.Resources {
		fmt.Printf("%s: %s\n", rec.ResourceType, rec.Status)
	}
	// Output:
	// state: done
	// network: available
	// storage: available
	// vm: provisioned
}

// ExampleCoordinator_ValidateConfiguration demonstrates the dry-run path:
// resolve, validate, and price a catalog triple without creating resources.
func ExampleCoordinator_ValidateConfiguration() {
	b := builder.New()
	coordinator := engine.NewCoordinator(
		catalog.Builtin(), b, providers.NewDefaultRegistry(),
		templates.NewRegistry(b), pricing.NewCalculator())

	report := coordinator.ValidateConfiguration(context.Background(),
		engine.ProviderAWS, engine.VMClassMemoryOptimized, "us-east-1", engine.SizeTierLarge)

	fmt.Println("valid:", report.Valid)
	fmt.Printf("sizing: %d vcpus, %d GB\n",
		report.Specification.VM.VCPUs, report.Specification.VM.MemoryGB)
	fmt.Printf("hourly: %.2f %s\n",
		report.EstimatedCost.TotalHourly, report.EstimatedCost.Currency)
	// Output:
	// valid: true
	// sizing: 8 vcpus, 64 GB
	// hourly: 1.75 USD
}
