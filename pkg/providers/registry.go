package providers

import (
	"sort"
	"sync"

	"github.com/vmforge/vmforge/pkg/engine"
)

// Registry maps provider ids to their resource factories. It is populated
// at process start and read-only thereafter; the lock only guards against
// concurrent registration during construction.
type Registry struct {
	mu        sync.RWMutex
	factories map[engine.ProviderID]engine.ResourceFactory
}

var _ engine.FactoryRegistry = (*Registry)(nil)

// NewRegistry returns an empty factory registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[engine.ProviderID]engine.ResourceFactory)}
}

// NewDefaultRegistry returns a registry populated with the aws, azure,
// gcp, and onpremise factories sharing one id generator.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	gen := UUIDGenerator{}
	// The builtin set has no id collisions, errors are impossible here.
	_ = r.Register(NewAWSFactory(gen))
	_ = r.Register(NewAzureFactory(gen))
	_ = r.Register(NewGCPFactory(gen))
	_ = r.Register(NewOnPremiseFactory(gen))
	return r
}

// Register adds a factory. Registering a second factory under an existing
// provider id is rejected.
func (r *Registry) Register(factory engine.ResourceFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := factory.Provider()
	if _, exists := r.factories[id]; exists {
		return engine.NewError(engine.ErrDuplicateProvider,
			"factory for provider %q is already registered", id)
	}
	r.factories[id] = factory
	return nil
}

// Resolve returns the factory for the provider.
func (r *Registry) Resolve(provider engine.ProviderID) (engine.ResourceFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[provider]
	if !ok {
		return nil, engine.NewUnsupportedProviderError(provider)
	}
	return f, nil
}

// Providers enumerates the registered provider ids, sorted.
func (r *Registry) Providers() []engine.ProviderID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]engine.ProviderID, 0, len(r.factories))
	for id := range r.factories {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
