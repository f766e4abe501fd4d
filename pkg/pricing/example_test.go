package pricing_test

import (
	"fmt"
	"log"

	"github.com/vmforge/vmforge/pkg/builder"
	"github.com/vmforge/vmforge/pkg/catalog"
	"github.com/vmforge/vmforge/pkg/engine"
	"github.com/vmforge/vmforge/pkg/pricing"
)

// ExampleCalculator_Estimate demonstrates pricing a resolved specification.
func ExampleCalculator_Estimate() {
	// Resolve a specification from the builtin catalog
	entry, err := catalog.Builtin().Lookup(
		engine.ProviderAWS, engine.VMClassStandard, engine.SizeTierSmall)
	if err != nil {
		log.Fatal(err)
	}
	spec, err := builder.New().BuildFromEntry(entry, "us-east-1", engine.Overrides{})
	if err != nil {
		log.Fatal(err)
	}

	// Estimates are deterministic: the same specification always yields
	// the same breakdown
	cost := pricing.NewCalculator().Estimate(spec)

	fmt.Printf("vm: %.2f %s/h\n", cost.VMHourly, cost.Currency)
	fmt.Printf("storage: %.2f %s/h\n", cost.StorageHourly, cost.Currency)
	fmt.Printf("network: %.2f %s/h\n", cost.NetworkHourly, cost.Currency)
	fmt.Printf("monthly: %.2f %s\n", cost.EstimatedMonthly, cost.Currency)
	// Output:
	// vm: 0.20 USD/h
	// storage: 0.05 USD/h
	// network: 0.05 USD/h
	// monthly: 216.00 USD
}
