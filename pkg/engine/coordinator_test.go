package engine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/vmforge/vmforge/pkg/builder"
	"github.com/vmforge/vmforge/pkg/catalog"
	"github.com/vmforge/vmforge/pkg/engine"
	"github.com/vmforge/vmforge/pkg/pricing"
	"github.com/vmforge/vmforge/pkg/providers"
	"github.com/vmforge/vmforge/pkg/templates"
)

// countingFactory wraps a real factory and counts creations, so tests can
// assert that failed constructions created nothing.
type countingFactory struct {
	inner       engine.ResourceFactory
	calls       int
	failStorage error
}

func (f *countingFactory) Provider() engine.ProviderID { return f.inner.Provider() }

func (f *countingFactory) CreateNetwork(cfg engine.NetworkConfig) (engine.ResourceRecord, error) {
	f.calls++
	return f.inner.CreateNetwork(cfg)
}

func (f *countingFactory) CreateStorage(cfg engine.StorageConfig) (engine.ResourceRecord, error) {
	f.calls++
	if f.failStorage != nil {
		return engine.ResourceRecord{}, f.failStorage
	}
	return f.inner.CreateStorage(cfg)
}

func (f *countingFactory) CreateVM(cfg engine.VMConfig, networkID, storageID string) (engine.ResourceRecord, error) {
	f.calls++
	return f.inner.CreateVM(cfg, networkID, storageID)
}

func newTestCoordinator(t *testing.T) (*engine.Coordinator, *countingFactory) {
	t.Helper()

	b := builder.New()
	counting := &countingFactory{inner: providers.NewAWSFactory(providers.UUIDGenerator{})}

	registry := providers.NewRegistry()
	gen := providers.UUIDGenerator{}
	if err := registry.Register(counting); err != nil {
		t.Fatal(err)
	}
	for _, f := range []engine.ResourceFactory{
		providers.NewAzureFactory(gen),
		providers.NewGCPFactory(gen),
		providers.NewOnPremiseFactory(gen),
	} {
		if err := registry.Register(f); err != nil {
			t.Fatal(err)
		}
	}

	reg := templates.NewRegistry(b)
	if err := templates.RegisterBuiltins(context.Background(), reg); err != nil {
		t.Fatal(err)
	}

	return engine.NewCoordinator(catalog.Builtin(), b, registry, reg, pricing.NewCalculator()), counting
}

func TestConstructFamilySuccess(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	result, err := coord.ConstructFamily(context.Background(), engine.FamilyRequest{
		VMClass:  engine.VMClassStandard,
		Provider: engine.ProviderAWS,
		Region:   "us-east-1",
	})
	if err != nil {
		t.Fatalf("ConstructFamily failed: %v", err)
	}

	if result.State != engine.StateDone {
		t.Errorf("state = %s, want done", result.State)
	}
	if len(result.Resources) != 3 {
		t.Fatalf("resources = %d, want 3", len(result.Resources))
	}

	network, storage, vm := result.NetworkRecord(), result.StorageRecord(), result.VMRecord()
	if network.ResourceType != engine.ResourceTypeNetwork ||
		storage.ResourceType != engine.ResourceTypeStorage ||
		vm.ResourceType != engine.ResourceTypeVM {
		t.Error("resources must be ordered network, storage, vm")
	}

	if !strings.HasPrefix(network.ResourceID, "aws-net-") {
		t.Errorf("network id %q missing aws-net- prefix", network.ResourceID)
	}
	if !strings.HasPrefix(storage.ResourceID, "aws-vol-") {
		t.Errorf("storage id %q missing aws-vol- prefix", storage.ResourceID)
	}
	if !strings.HasPrefix(vm.ResourceID, "aws-vm-") {
		t.Errorf("vm id %q missing aws-vm- prefix", vm.ResourceID)
	}

	if vm.Details["network_id"] != network.ResourceID {
		t.Error("vm record must reference the network id")
	}
	if vm.Details["storage_id"] != storage.ResourceID {
		t.Error("vm record must reference the storage id")
	}

	// Default tier for aws/standard is medium: m5.large, 2 vcpus, 8 GB.
	spec := result.Specification
	if spec.VM.InstanceType != "m5.large" || spec.VM.VCPUs != 2 || spec.VM.MemoryGB != 8 {
		t.Errorf("unexpected default sizing: %s %d/%d",
			spec.VM.InstanceType, spec.VM.VCPUs, spec.VM.MemoryGB)
	}
	if spec.Network.Region != "us-east-1" || spec.Storage.Region != "us-east-1" {
		t.Error("regions must be stamped into network and storage configs")
	}
}

func TestConstructFamilyUnknownProvider(t *testing.T) {
	coord, counting := newTestCoordinator(t)

	_, err := coord.ConstructFamily(context.Background(), engine.FamilyRequest{
		VMClass:  engine.VMClassStandard,
		Provider: "oracle",
		Region:   "us-east-1",
	})
	if engine.KindOf(err) != engine.ErrUnsupportedProvider {
		t.Fatalf("expected unsupported_provider, got %v", err)
	}
	if counting.calls != 0 {
		t.Errorf("factory called %d times, want 0", counting.calls)
	}
}

func TestConstructFamilyUnsupportedRegion(t *testing.T) {
	coord, counting := newTestCoordinator(t)

	_, err := coord.ConstructFamily(context.Background(), engine.FamilyRequest{
		VMClass:  engine.VMClassStandard,
		Provider: engine.ProviderAWS,
		Region:   "eastus",
	})
	if engine.KindOf(err) != engine.ErrInvalidValue {
		t.Fatalf("expected invalid_value for foreign region, got %v", err)
	}
	if counting.calls != 0 {
		t.Errorf("factory called %d times, want 0", counting.calls)
	}
}

func TestConstructFamilyRegionMismatchCreatesNothing(t *testing.T) {
	coord, counting := newTestCoordinator(t)

	divergent := "us-west-2"
	_, err := coord.ConstructFamily(context.Background(), engine.FamilyRequest{
		VMClass:  engine.VMClassStandard,
		Provider: engine.ProviderAWS,
		Region:   "us-east-1",
		Overrides: engine.Overrides{
			Storage: &engine.StorageOverrides{Region: &divergent},
		},
	})
	if engine.KindOf(err) != engine.ErrRegionMismatch {
		t.Fatalf("expected region_mismatch, got %v", err)
	}
	if counting.calls != 0 {
		t.Errorf("factory called %d times, want 0", counting.calls)
	}
}

func TestConstructFamilyNoRollback(t *testing.T) {
	coord, counting := newTestCoordinator(t)
	counting.failStorage = engine.NewMissingParameterError(
		engine.ProviderAWS, engine.ResourceTypeStorage, "volume_type")

	_, err := coord.ConstructFamily(context.Background(), engine.FamilyRequest{
		VMClass:  engine.VMClassStandard,
		Provider: engine.ProviderAWS,
		Region:   "us-east-1",
	})
	if engine.KindOf(err) != engine.ErrMissingParameter {
		t.Fatalf("expected missing_parameter, got %v", err)
	}
	// Network creation succeeded and storage was attempted, nothing more:
	// the already created network is not torn down, the vm never starts.
	if counting.calls != 2 {
		t.Errorf("factory calls = %d, want 2", counting.calls)
	}
}

func TestConstructFamilyOverrides(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	vcpus := 8
	rules := []string{"HTTPS"}
	result, err := coord.ConstructFamily(context.Background(), engine.FamilyRequest{
		VMClass:  engine.VMClassStandard,
		Provider: engine.ProviderAWS,
		Region:   "us-east-1",
		SizeTier: engine.SizeTierSmall,
		Overrides: engine.Overrides{
			VM:      &engine.VMOverrides{VCPUs: &vcpus},
			Network: &engine.NetworkOverrides{FirewallRules: rules},
		},
	})
	if err != nil {
		t.Fatalf("ConstructFamily failed: %v", err)
	}

	spec := result.Specification
	if spec.VM.VCPUs != 8 {
		t.Errorf("vcpus = %d, want 8", spec.VM.VCPUs)
	}
	// Overridden field changes; untouched fields keep the catalog value.
	if spec.VM.MemoryGB != 4 {
		t.Errorf("memory = %d, want baseline 4", spec.VM.MemoryGB)
	}
	if spec.VM.InstanceType != "t3.medium" {
		t.Errorf("instance type = %s, want baseline t3.medium", spec.VM.InstanceType)
	}
	// Firewall rules replaced wholesale, not appended.
	if len(spec.Network.FirewallRules) != 1 || spec.Network.FirewallRules[0] != "HTTPS" {
		t.Errorf("firewall rules = %v, want [HTTPS]", spec.Network.FirewallRules)
	}
}

func TestConstructIndividual(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	rec, err := coord.ConstructIndividual(context.Background(), engine.ProviderAWS, engine.VMConfig{
		Provider:     engine.ProviderAWS,
		VCPUs:        2,
		MemoryGB:     4,
		InstanceType: "t3.medium",
		AMI:          "ami-0c02fb55956c7d316",
	})
	if err != nil {
		t.Fatalf("ConstructIndividual failed: %v", err)
	}
	if rec.Status != engine.StatusProvisioned {
		t.Errorf("status = %s, want provisioned", rec.Status)
	}
	if !strings.HasPrefix(rec.ResourceID, "aws-vm-") {
		t.Errorf("id %q missing aws-vm- prefix", rec.ResourceID)
	}
}

func TestConstructIndividualMissingParameter(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	_, err := coord.ConstructIndividual(context.Background(), engine.ProviderAWS, engine.VMConfig{
		Provider:     engine.ProviderAWS,
		VCPUs:        2,
		MemoryGB:     4,
		InstanceType: "t3.medium",
		// no AMI
	})
	if engine.KindOf(err) != engine.ErrMissingParameter {
		t.Fatalf("expected missing_parameter, got %v", err)
	}
}

func TestValidateConfigurationReport(t *testing.T) {
	coord, counting := newTestCoordinator(t)

	report := coord.ValidateConfiguration(context.Background(),
		engine.ProviderAWS, engine.VMClassMemoryOptimized, "us-east-1", engine.SizeTierLarge)

	if !report.Valid {
		t.Fatalf("expected valid report, got error %s", report.Error)
	}
	if report.Specification.VM.VCPUs != 8 || report.Specification.VM.MemoryGB != 64 {
		t.Errorf("sizing = %d/%d, want 8/64",
			report.Specification.VM.VCPUs, report.Specification.VM.MemoryGB)
	}

	// memory_optimized large: vm 0.20*8, storage 100*0.001, public network 0.05.
	cost := report.EstimatedCost
	if cost.VMHourly != 1.6 || cost.StorageHourly != 0.1 || cost.NetworkHourly != 0.05 {
		t.Errorf("cost breakdown = %+v", cost)
	}
	if cost.TotalHourly != 1.75 || cost.EstimatedMonthly != 1260.0 {
		t.Errorf("totals = %v hourly, %v monthly", cost.TotalHourly, cost.EstimatedMonthly)
	}

	// 64 GB memory and a public ip both warrant warnings.
	if len(report.Warnings) != 2 {
		t.Errorf("warnings = %v, want high memory and public ip", report.Warnings)
	}

	if counting.calls != 0 {
		t.Errorf("validation created %d resources, want 0", counting.calls)
	}
}

func TestValidateConfigurationInvalid(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	report := coord.ValidateConfiguration(context.Background(),
		"oracle", engine.VMClassStandard, "us-east-1", "")
	if report.Valid {
		t.Fatal("expected invalid report for unknown provider")
	}
	if report.Error == "" {
		t.Error("invalid report must carry the error text")
	}
}

func TestCreateFromTemplateCrossProvider(t *testing.T) {
	coord, _ := newTestCoordinator(t)
	ctx := context.Background()

	before, err := coord.GetTemplate(ctx, "web-server-standard")
	if err != nil {
		t.Fatal(err)
	}

	result, err := coord.CreateFromTemplate(ctx, "web-server-standard", engine.ProviderAzure, "", engine.Overrides{})
	if err != nil {
		t.Fatalf("CreateFromTemplate failed: %v", err)
	}

	spec := result.Specification
	if spec.Provider != engine.ProviderAzure {
		t.Errorf("provider = %s, want azure", spec.Provider)
	}
	// Compute sizing carries over from the template.
	if spec.VM.VCPUs != 2 || spec.VM.MemoryGB != 4 {
		t.Errorf("sizing = %d/%d, want 2/4", spec.VM.VCPUs, spec.VM.MemoryGB)
	}
	// The rest resolves from the azure catalog defaults.
	if spec.VM.Size != "D2s_v3" {
		t.Errorf("size = %s, want D2s_v3", spec.VM.Size)
	}
	if !strings.HasPrefix(result.VMRecord().ResourceID, "azure-vm-") {
		t.Errorf("vm id %q missing azure-vm- prefix", result.VMRecord().ResourceID)
	}

	// The stored template is untouched.
	after, err := coord.GetTemplate(ctx, "web-server-standard")
	if err != nil {
		t.Fatal(err)
	}
	if after.Provider != before.Provider || after.VM.VCPUs != before.VM.VCPUs {
		t.Error("stored template mutated by CreateFromTemplate")
	}
}

func TestCreateFromTemplateRegionMove(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	result, err := coord.CreateFromTemplate(context.Background(),
		"database-optimized", "", "eu-west-1", engine.Overrides{})
	if err != nil {
		t.Fatalf("CreateFromTemplate failed: %v", err)
	}

	spec := result.Specification
	if spec.Region != "eu-west-1" || spec.Network.Region != "eu-west-1" || spec.Storage.Region != "eu-west-1" {
		t.Errorf("regions = %s/%s/%s, want eu-west-1 everywhere",
			spec.Region, spec.Network.Region, spec.Storage.Region)
	}
}

func TestCreateFromTemplateNotFound(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	_, err := coord.CreateFromTemplate(context.Background(), "missing", "", "", engine.Overrides{})
	if engine.KindOf(err) != engine.ErrNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestListCatalog(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	listing, err := coord.ListCatalog(context.Background(), engine.ProviderGCP)
	if err != nil {
		t.Fatalf("ListCatalog failed: %v", err)
	}
	if len(listing.Classes) != 3 {
		t.Errorf("classes = %d, want 3", len(listing.Classes))
	}
	if len(listing.Regions) != 4 {
		t.Errorf("regions = %d, want 4", len(listing.Regions))
	}

	for _, class := range listing.Classes {
		if len(class.Tiers) != 3 {
			t.Errorf("class %s has %d tiers, want 3", class.Class, len(class.Tiers))
		}
		if class.DefaultTier == "" {
			t.Errorf("class %s missing default tier", class.Class)
		}
	}
}
