package pricing

import (
	"math"

	"github.com/vmforge/vmforge/pkg/engine"
)

// Hourly base rate per vcpu by vm class, in USD.
var classBaseRate = map[engine.VMClass]float64{
	engine.VMClassStandard:         0.10,
	engine.VMClassMemoryOptimized:  0.20,
	engine.VMClassComputeOptimized: 0.15,
}

// Storage and network rate constants, in USD per hour.
const (
	storageRatePerGB = 0.001
	networkRatePub   = 0.05
	networkRatePriv  = 0.02
	hoursPerMonth    = 24 * 30
)

// Calculator produces deterministic simulated cost estimates. It
// implements engine.CostEstimator.
type Calculator struct{}

var _ engine.CostEstimator = (*Calculator)(nil)

// NewCalculator returns a cost calculator.
func NewCalculator() *Calculator { return &Calculator{} }

// Estimate prices a specification. The same specification always yields
// the same breakdown.
func (c *Calculator) Estimate(spec engine.Specification) engine.CostBreakdown {
	rate, ok := classBaseRate[spec.VMClass]
	if !ok {
		rate = classBaseRate[engine.VMClassStandard]
	}

	vmHourly := rate * float64(spec.VM.VCPUs)
	storageHourly := float64(spec.Storage.SizeGB) * storageRatePerGB
	networkHourly := networkRatePriv
	if spec.Network.PublicIP {
		networkHourly = networkRatePub
	}

	totalHourly := vmHourly + storageHourly + networkHourly

	return engine.CostBreakdown{
		Currency:         "USD",
		VMHourly:         round4(vmHourly),
		StorageHourly:    round4(storageHourly),
		NetworkHourly:    round4(networkHourly),
		TotalHourly:      round4(totalHourly),
		EstimatedMonthly: round4(totalHourly * hoursPerMonth),
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
