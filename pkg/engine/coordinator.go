package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vmforge/vmforge/pkg/telemetry"
)

// FamilyRequest describes one family construction: the catalog triple to
// start from plus optional overrides.
type FamilyRequest struct {
	VMClass  VMClass    `json:"vm_class"`
	Provider ProviderID `json:"provider"`
	Region   string     `json:"region"`

	// SizeTier is optional; the catalog default for the provider/class is
	// used when empty.
	SizeTier SizeTier `json:"size_tier,omitempty"`

	Overrides Overrides `json:"overrides,omitempty"`
}

// TierInfo is the sizing of one catalog tier for listing purposes.
type TierInfo struct {
	Tier     SizeTier `json:"tier"`
	Label    string   `json:"label,omitempty"`
	VCPUs    int      `json:"vcpus"`
	MemoryGB int      `json:"memory_gb"`
}

// VMClassInfo lists the tiers available for one vm class.
type VMClassInfo struct {
	Class       VMClass    `json:"vm_class"`
	DefaultTier SizeTier   `json:"default_tier"`
	Tiers       []TierInfo `json:"tiers"`
}

// CatalogListing is the full offering of one provider.
type CatalogListing struct {
	Provider ProviderID    `json:"provider"`
	Classes  []VMClassInfo `json:"vm_classes"`
	Regions  []string      `json:"regions"`
}

// ValidationReport is the outcome of a dry-run configuration check.
type ValidationReport struct {
	Valid         bool           `json:"valid"`
	Specification *Specification `json:"specification,omitempty"`
	EstimatedCost *CostBreakdown `json:"estimated_cost,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// Coordinator drives family constructions through the request state
// machine: spec resolution, validation, then sequential network, storage,
// and vm creation through one provider factory.
type Coordinator struct {
	catalog   Catalog
	builder   SpecificationBuilder
	factories FactoryRegistry
	templates TemplateRegistry
	estimator CostEstimator

	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
	events  *telemetry.EventPublisher
}

// CoordinatorOption configures optional coordinator collaborators.
type CoordinatorOption func(*Coordinator)

// WithMetrics attaches a metrics collector.
func WithMetrics(m *telemetry.Metrics) CoordinatorOption {
	return func(c *Coordinator) { c.metrics = m }
}

// WithTracer attaches a tracer.
func WithTracer(t *telemetry.Tracer) CoordinatorOption {
	return func(c *Coordinator) { c.tracer = t }
}

// WithEvents attaches an event publisher.
func WithEvents(p *telemetry.EventPublisher) CoordinatorOption {
	return func(c *Coordinator) { c.events = p }
}

// NewCoordinator wires a coordinator from its collaborators.
func NewCoordinator(
	catalog Catalog,
	builder SpecificationBuilder,
	factories FactoryRegistry,
	templates TemplateRegistry,
	estimator CostEstimator,
	opts ...CoordinatorOption,
) *Coordinator {
	c := &Coordinator{
		catalog:   catalog,
		builder:   builder,
		factories: factories,
		templates: templates,
		estimator: estimator,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConstructFamily resolves, validates, and provisions a full network,
// storage, and vm triple. The first failure stops the pipeline; already
// created resources are not rolled back. Validation failures create zero
// resources.
func (c *Coordinator) ConstructFamily(ctx context.Context, req FamilyRequest) (*FamilyResult, error) {
	log := telemetry.FromContext(ctx).
		WithProvider(string(req.Provider)).
		WithField("vm_class", req.VMClass).
		WithField("region", req.Region)
	start := time.Now()

	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.StartConstructionSpan(ctx, string(req.Provider), string(req.VMClass), req.Region)
		defer span.End()
	}

	c.observeStarted(req)
	log.Info().Msg("starting family construction")

	state := StateResolvingSpec
	c.publishState(req, state)

	spec, err := c.resolveSpecification(req)
	if err != nil {
		return nil, c.fail(ctx, req, state, start, err)
	}

	state = c.advance(req, state, StateValidating)
	// BuildFromEntry already validated; re-check here so specs coming from
	// any future resolution path obey the same invariants.
	if err := ValidateSpecification(spec); err != nil {
		return nil, c.fail(ctx, req, state, start, err)
	}

	factory, err := c.factories.Resolve(spec.Provider)
	if err != nil {
		return nil, c.fail(ctx, req, state, start, err)
	}

	state = c.advance(req, state, StateCreatingNetwork)
	network, err := c.createResource(ctx, spec.Provider, ResourceTypeNetwork, func() (ResourceRecord, error) {
		return factory.CreateNetwork(spec.Network)
	})
	if err != nil {
		return nil, c.fail(ctx, req, state, start, err)
	}

	state = c.advance(req, state, StateCreatingStorage)
	storage, err := c.createResource(ctx, spec.Provider, ResourceTypeStorage, func() (ResourceRecord, error) {
		return factory.CreateStorage(spec.Storage)
	})
	if err != nil {
		return nil, c.fail(ctx, req, state, start, err)
	}

	state = c.advance(req, state, StateCreatingVM)
	vm, err := c.createResource(ctx, spec.Provider, ResourceTypeVM, func() (ResourceRecord, error) {
		return factory.CreateVM(spec.VM, network.ResourceID, storage.ResourceID)
	})
	if err != nil {
		return nil, c.fail(ctx, req, state, start, err)
	}

	c.advance(req, state, StateDone)
	c.observeCompleted(req, "success", time.Since(start))

	log.Info().
		Str("vm_id", vm.ResourceID).
		Str("network_id", network.ResourceID).
		Str("storage_id", storage.ResourceID).
		Dur("elapsed", time.Since(start)).
		Msg("family construction complete")

	return &FamilyResult{
		Specification: spec,
		Resources:     []ResourceRecord{network, storage, vm},
		State:         StateDone,
	}, nil
}

// resolveSpecification turns the request into a validated specification
// via the catalog and builder.
func (c *Coordinator) resolveSpecification(req FamilyRequest) (Specification, error) {
	if err := req.Provider.Validate(); err != nil {
		return Specification{}, err
	}
	if !c.regionSupported(req.Provider, req.Region) {
		return Specification{}, NewInvalidValueError("region",
			"region %s is not offered by provider %s", req.Region, req.Provider)
	}

	tier := req.SizeTier
	if tier == "" {
		var err error
		tier, err = c.catalog.DefaultTier(req.Provider, req.VMClass)
		if err != nil {
			return Specification{}, err
		}
	}

	entry, err := c.catalog.Lookup(req.Provider, req.VMClass, tier)
	if err != nil {
		return Specification{}, err
	}

	return c.builder.BuildFromEntry(entry, req.Region, req.Overrides)
}

func (c *Coordinator) regionSupported(provider ProviderID, region string) bool {
	for _, r := range c.catalog.Regions(provider) {
		if r == region {
			return true
		}
	}
	return false
}

func (c *Coordinator) createResource(ctx context.Context, provider ProviderID, rt ResourceType, create func() (ResourceRecord, error)) (ResourceRecord, error) {
	if c.tracer != nil {
		_, span := c.tracer.StartResourceSpan(ctx, string(provider), string(rt))
		defer span.End()
		rec, err := create()
		if err != nil {
			telemetry.RecordError(span, err)
			return ResourceRecord{}, err
		}
		telemetry.RecordSuccess(span)
		c.observeResource(provider, rt, rec)
		return rec, nil
	}

	rec, err := create()
	if err != nil {
		return ResourceRecord{}, err
	}
	c.observeResource(provider, rt, rec)
	return rec, nil
}

// ConstructIndividual creates a single vm record with no network or
// storage dependencies.
func (c *Coordinator) ConstructIndividual(ctx context.Context, provider ProviderID, cfg VMConfig) (ResourceRecord, error) {
	log := telemetry.FromContext(ctx).WithProvider(string(provider))

	if cfg.Provider == "" {
		cfg.Provider = provider
	}
	if cfg.Provider != provider {
		return ResourceRecord{}, NewInvalidValueError("provider",
			"vm config provider %q does not match requested provider %q", cfg.Provider, provider)
	}
	if err := ValidateVMConfig(cfg); err != nil {
		return ResourceRecord{}, err
	}

	factory, err := c.factories.Resolve(provider)
	if err != nil {
		return ResourceRecord{}, err
	}

	rec, err := c.createResource(ctx, provider, ResourceTypeVM, func() (ResourceRecord, error) {
		return factory.CreateVM(cfg, "", "")
	})
	if err != nil {
		if c.metrics != nil {
			c.metrics.ErrorOccurred(string(KindOf(err)))
		}
		return ResourceRecord{}, err
	}

	log.Info().Str("vm_id", rec.ResourceID).Msg("individual vm created")
	return rec, nil
}

// ListCatalog returns the full offering of a provider: classes, tiers
// with their sizing, and regions.
func (c *Coordinator) ListCatalog(ctx context.Context, provider ProviderID) (CatalogListing, error) {
	if err := provider.Validate(); err != nil {
		return CatalogListing{}, err
	}

	listing := CatalogListing{
		Provider: provider,
		Regions:  c.catalog.Regions(provider),
	}
	for _, class := range c.catalog.VMClasses(provider) {
		defaultTier, err := c.catalog.DefaultTier(provider, class)
		if err != nil {
			return CatalogListing{}, err
		}
		info := VMClassInfo{Class: class, DefaultTier: defaultTier}
		for _, tier := range c.catalog.SizeTiers(provider, class) {
			entry, err := c.catalog.Lookup(provider, class, tier)
			if err != nil {
				return CatalogListing{}, err
			}
			info.Tiers = append(info.Tiers, TierInfo{
				Tier:     tier,
				Label:    instanceLabel(entry.VM),
				VCPUs:    entry.VM.VCPUs,
				MemoryGB: entry.VM.MemoryGB,
			})
		}
		listing.Classes = append(listing.Classes, info)
	}
	return listing, nil
}

// instanceLabel picks the provider's native sizing label.
func instanceLabel(vm VMConfig) string {
	switch {
	case vm.InstanceType != "":
		return vm.InstanceType
	case vm.Size != "":
		return vm.Size
	case vm.MachineType != "":
		return vm.MachineType
	default:
		return ""
	}
}

// ValidateConfiguration dry-runs a catalog triple: it resolves and
// validates the specification, estimates its cost, and reports advisory
// warnings without creating any resource.
func (c *Coordinator) ValidateConfiguration(ctx context.Context, provider ProviderID, class VMClass, region string, tier SizeTier) ValidationReport {
	spec, err := c.resolveSpecification(FamilyRequest{
		VMClass:  class,
		Provider: provider,
		Region:   region,
		SizeTier: tier,
	})
	if err != nil {
		if c.metrics != nil {
			c.metrics.ValidationFailed(string(KindOf(err)))
		}
		return ValidationReport{Valid: false, Error: err.Error()}
	}

	cost := c.estimator.Estimate(spec)
	return ValidationReport{
		Valid:         true,
		Specification: &spec,
		EstimatedCost: &cost,
		Warnings:      configurationWarnings(spec),
	}
}

// configurationWarnings flags configurations that are valid but merit
// operator attention.
func configurationWarnings(spec Specification) []string {
	var warnings []string
	if spec.VM.MemoryGB > 32 {
		warnings = append(warnings, "high memory configuration may significantly increase costs")
	}
	if spec.Storage.SizeGB > 1000 {
		warnings = append(warnings, "large storage volumes can slow down backup windows")
	}
	if spec.Network.PublicIP {
		warnings = append(warnings, "public ip exposes the vm to the internet, review firewall rules")
	}
	return warnings
}

// EstimateCost prices a specification without creating resources.
func (c *Coordinator) EstimateCost(spec Specification) CostBreakdown {
	return c.estimator.Estimate(spec)
}

// RegisterTemplate stores a named specification for later cloning.
func (c *Coordinator) RegisterTemplate(ctx context.Context, name string, spec Specification, meta TemplateMeta) error {
	if err := c.templates.Register(ctx, name, spec, meta); err != nil {
		return err
	}
	c.observeTemplates(ctx)
	if c.events != nil {
		c.events.Publish(telemetry.Event{
			Type:     telemetry.EventTemplateRegistered,
			Template: name,
			Provider: string(spec.Provider),
			Region:   spec.Region,
		})
	}
	return nil
}

// GetTemplate returns a deep copy of the named template specification.
func (c *Coordinator) GetTemplate(ctx context.Context, name string) (Specification, error) {
	return c.templates.Get(ctx, name)
}

// GetTemplateMeta returns the metadata of the named template.
func (c *Coordinator) GetTemplateMeta(ctx context.Context, name string) (TemplateMeta, error) {
	return c.templates.GetMeta(ctx, name)
}

// ListTemplates returns template summaries, optionally filtered by
// category.
func (c *Coordinator) ListTemplates(ctx context.Context, category string) []TemplateSummary {
	return c.templates.List(ctx, category)
}

// RemoveTemplate deletes the named template.
func (c *Coordinator) RemoveTemplate(ctx context.Context, name string) error {
	if err := c.templates.Remove(ctx, name); err != nil {
		return err
	}
	c.observeTemplates(ctx)
	return nil
}

// CreateFromTemplate clones the named template, applies overrides, adapts
// it to a different provider or region when requested, and constructs the
// resulting family. The stored template is never mutated.
func (c *Coordinator) CreateFromTemplate(ctx context.Context, name string, provider ProviderID, region string, ov Overrides) (*FamilyResult, error) {
	log := telemetry.FromContext(ctx).WithTemplate(name)

	spec, err := c.templates.CloneAndCustomize(ctx, name, ov)
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.TemplateCloned(name)
	}
	if c.events != nil {
		c.events.Publish(telemetry.Event{
			Type:     telemetry.EventTemplateCloned,
			Template: name,
			Provider: string(spec.Provider),
		})
	}

	if provider != "" && provider != spec.Provider {
		log.Info().
			Str("from", string(spec.Provider)).
			Str("to", string(provider)).
			Msg("adapting template to target provider")
		spec, err = c.adaptToProvider(spec, provider)
		if err != nil {
			return nil, err
		}
	}

	if region != "" && region != spec.Region {
		moved := region
		spec, err = c.builder.BuildFromSpecification(spec, Overrides{Region: &moved})
		if err != nil {
			return nil, err
		}
	}

	return c.constructFromSpecification(ctx, spec)
}

// adaptToProvider re-resolves the specification against the target
// provider's catalog defaults, carrying over the compute sizing of the
// source specification.
func (c *Coordinator) adaptToProvider(spec Specification, target ProviderID) (Specification, error) {
	tier, err := c.catalog.DefaultTier(target, spec.VMClass)
	if err != nil {
		return Specification{}, err
	}
	entry, err := c.catalog.Lookup(target, spec.VMClass, tier)
	if err != nil {
		return Specification{}, err
	}

	vcpus, memory := spec.VM.VCPUs, spec.VM.MemoryGB
	return c.builder.BuildFromEntry(entry, spec.Region, Overrides{
		VM: &VMOverrides{VCPUs: &vcpus, MemoryGB: &memory},
	})
}

// constructFromSpecification provisions a family from an already resolved
// specification.
func (c *Coordinator) constructFromSpecification(ctx context.Context, spec Specification) (*FamilyResult, error) {
	req := FamilyRequest{VMClass: spec.VMClass, Provider: spec.Provider, Region: spec.Region}
	start := time.Now()
	c.observeStarted(req)

	state := StateValidating
	c.publishState(req, state)
	if err := ValidateSpecification(spec); err != nil {
		return nil, c.fail(ctx, req, state, start, err)
	}

	factory, err := c.factories.Resolve(spec.Provider)
	if err != nil {
		return nil, c.fail(ctx, req, state, start, err)
	}

	state = c.advance(req, state, StateCreatingNetwork)
	network, err := c.createResource(ctx, spec.Provider, ResourceTypeNetwork, func() (ResourceRecord, error) {
		return factory.CreateNetwork(spec.Network)
	})
	if err != nil {
		return nil, c.fail(ctx, req, state, start, err)
	}

	state = c.advance(req, state, StateCreatingStorage)
	storage, err := c.createResource(ctx, spec.Provider, ResourceTypeStorage, func() (ResourceRecord, error) {
		return factory.CreateStorage(spec.Storage)
	})
	if err != nil {
		return nil, c.fail(ctx, req, state, start, err)
	}

	state = c.advance(req, state, StateCreatingVM)
	vm, err := c.createResource(ctx, spec.Provider, ResourceTypeVM, func() (ResourceRecord, error) {
		return factory.CreateVM(spec.VM, network.ResourceID, storage.ResourceID)
	})
	if err != nil {
		return nil, c.fail(ctx, req, state, start, err)
	}

	c.advance(req, state, StateDone)
	c.observeCompleted(req, "success", time.Since(start))

	return &FamilyResult{
		Specification: spec,
		Resources:     []ResourceRecord{network, storage, vm},
		State:         StateDone,
	}, nil
}

// advance moves the pipeline along the success path, publishing the
// transition.
func (c *Coordinator) advance(req FamilyRequest, from, to RequestState) RequestState {
	if !from.CanTransition(to) {
		// Transition tables and call sites are fixed at compile time, so
		// this indicates a programming error.
		panic("illegal state transition: " + string(from) + " -> " + string(to))
	}
	c.publishState(req, to)
	return to
}

func (c *Coordinator) publishState(req FamilyRequest, state RequestState) {
	if c.events == nil {
		return
	}
	c.events.Publish(telemetry.Event{
		Type:     telemetry.EventStateChanged,
		Provider: string(req.Provider),
		Region:   req.Region,
		State:    string(state),
	})
}

func (c *Coordinator) fail(ctx context.Context, req FamilyRequest, from RequestState, start time.Time, err error) error {
	telemetry.FromContext(ctx).
		WithProvider(string(req.Provider)).
		WithState(string(from)).
		WithError(err).
		Error().Msg("family construction failed")

	if c.metrics != nil {
		c.metrics.ErrorOccurred(string(KindOf(err)))
	}
	c.observeCompleted(req, "failure", time.Since(start))
	if c.events != nil {
		c.events.Publish(telemetry.Event{
			Type:     telemetry.EventConstructionCompleted,
			Provider: string(req.Provider),
			Region:   req.Region,
			State:    string(StateFailed),
			Error:    err.Error(),
		})
	}
	return err
}

func (c *Coordinator) observeStarted(req FamilyRequest) {
	if c.metrics != nil {
		c.metrics.ConstructionStarted(string(req.Provider), string(req.VMClass))
	}
	if c.events != nil {
		c.events.Publish(telemetry.Event{
			Type:     telemetry.EventConstructionStarted,
			Provider: string(req.Provider),
			Region:   req.Region,
		})
	}
}

func (c *Coordinator) observeCompleted(req FamilyRequest, outcome string, elapsed time.Duration) {
	if c.metrics != nil {
		c.metrics.ConstructionCompleted(string(req.Provider), string(req.VMClass), outcome, elapsed)
	}
	if outcome == "success" && c.events != nil {
		c.events.Publish(telemetry.Event{
			Type:     telemetry.EventConstructionCompleted,
			Provider: string(req.Provider),
			Region:   req.Region,
			State:    string(StateDone),
		})
	}
}

func (c *Coordinator) observeResource(provider ProviderID, rt ResourceType, rec ResourceRecord) {
	if c.metrics != nil {
		c.metrics.ResourceCreated(string(provider), string(rt))
	}
	if c.events != nil {
		c.events.Publish(telemetry.Event{
			Type:     telemetry.EventResourceCreated,
			Provider: string(provider),
			Resource: rec.ResourceID,
		})
	}
}

func (c *Coordinator) observeTemplates(ctx context.Context) {
	if c.metrics != nil {
		c.metrics.SetTemplatesRegistered(len(c.templates.List(ctx, "")))
	}
}
