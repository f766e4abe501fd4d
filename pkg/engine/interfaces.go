package engine

import "context"

// Catalog supplies provider/class/tier baseline attributes. Implementations
// must be immutable after construction and safe for concurrent readers.
type Catalog interface {
	// Lookup returns the entry for the triple, or a not_found error.
	Lookup(provider ProviderID, class VMClass, tier SizeTier) (CatalogEntry, error)

	// DefaultTier returns the default size tier for a (provider, class)
	// pair, used when a request names no tier.
	DefaultTier(provider ProviderID, class VMClass) (SizeTier, error)

	// Providers enumerates the providers present in the table.
	Providers() []ProviderID

	// VMClasses enumerates the vm classes available for a provider.
	VMClasses(provider ProviderID) []VMClass

	// SizeTiers enumerates the size tiers available for a provider/class.
	SizeTiers(provider ProviderID, class VMClass) []SizeTier

	// Regions enumerates the regions supported by a provider.
	Regions(provider ProviderID) []string
}

// SpecificationBuilder assembles a full specification from a base plus
// partial per-resource overrides.
type SpecificationBuilder interface {
	// BuildFromEntry stamps the request region into a catalog entry,
	// derives region-dependent provider identifiers, applies overrides and
	// validates the result.
	BuildFromEntry(entry CatalogEntry, region string, ov Overrides) (Specification, error)

	// BuildFromSpecification clones an existing specification, applies
	// overrides and validates the result.
	BuildFromSpecification(base Specification, ov Overrides) (Specification, error)
}

// ResourceFactory is the per-provider capability set that produces resource
// records from the configs inside a specification. Implementations must be
// stateless and safe to invoke from multiple concurrent coordinators.
type ResourceFactory interface {
	// Provider returns the identifier whose resources this factory produces.
	Provider() ProviderID

	// CreateNetwork produces a network record, failing with
	// missing_parameter when a required network field is absent.
	CreateNetwork(cfg NetworkConfig) (ResourceRecord, error)

	// CreateStorage produces a storage record under the same contract.
	CreateStorage(cfg StorageConfig) (ResourceRecord, error)

	// CreateVM produces a vm record embedding the network and storage ids
	// in its details.
	CreateVM(cfg VMConfig, networkID, storageID string) (ResourceRecord, error)
}

// FactoryRegistry resolves a provider id to its factory. Populated at
// process start, read-only thereafter.
type FactoryRegistry interface {
	// Register adds a factory; a second registration under an existing
	// provider id is rejected with duplicate_provider.
	Register(factory ResourceFactory) error

	// Resolve returns the factory for the provider, or an
	// unsupported_provider error.
	Resolve(provider ProviderID) (ResourceFactory, error)

	// Providers enumerates the registered provider ids, sorted.
	Providers() []ProviderID
}

// TemplateRegistry stores named specifications and derives new ones by
// cloning. Every returned specification is an independent deep copy.
type TemplateRegistry interface {
	// Register stores a specification under name, replacing any existing
	// template of that name atomically.
	Register(ctx context.Context, name string, spec Specification, meta TemplateMeta) error

	// Get returns a deep copy of the named specification.
	Get(ctx context.Context, name string) (Specification, error)

	// GetMeta returns the metadata of the named template.
	GetMeta(ctx context.Context, name string) (TemplateMeta, error)

	// CloneAndCustomize clones the named template and applies overrides
	// through the specification builder.
	CloneAndCustomize(ctx context.Context, name string, ov Overrides) (Specification, error)

	// List returns summaries, optionally filtered by category.
	List(ctx context.Context, category string) []TemplateSummary

	// Remove deletes the named template, or reports not_found.
	Remove(ctx context.Context, name string) error
}

// CostEstimator prices a specification deterministically.
type CostEstimator interface {
	Estimate(spec Specification) CostBreakdown
}
