package templates

import (
	"context"
	"sort"
	"sync"

	"github.com/vmforge/vmforge/pkg/engine"
)

// Store persists templates across restarts. Implementations must be safe
// for concurrent use. A nil store means in-memory only.
type Store interface {
	SaveTemplate(ctx context.Context, name string, spec engine.Specification, meta engine.TemplateMeta) error
	DeleteTemplate(ctx context.Context, name string) error
	LoadTemplates(ctx context.Context) (map[string]StoredTemplate, error)
}

// StoredTemplate is one persisted template row.
type StoredTemplate struct {
	Spec engine.Specification
	Meta engine.TemplateMeta
}

// record is one registered template.
type record struct {
	spec engine.Specification
	meta engine.TemplateMeta
}

// Registry stores named specifications and derives new ones by cloning.
// It implements engine.TemplateRegistry.
type Registry struct {
	mu      sync.RWMutex
	records map[string]record

	builder engine.SpecificationBuilder
	store   Store
}

var _ engine.TemplateRegistry = (*Registry)(nil)

// Option configures the registry.
type Option func(*Registry)

// WithStore enables write-through persistence.
func WithStore(s Store) Option {
	return func(r *Registry) { r.store = s }
}

// NewRegistry returns a template registry. The builder is used to apply
// overrides during CloneAndCustomize.
func NewRegistry(builder engine.SpecificationBuilder, opts ...Option) *Registry {
	r := &Registry{
		records: make(map[string]record),
		builder: builder,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadFromStore replaces the in-memory set with the persisted templates.
func (r *Registry) LoadFromStore(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	stored, err := r.store.LoadTemplates(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]record, len(stored))
	for name, t := range stored {
		r.records[name] = record{spec: t.Spec.Clone(), meta: cloneMeta(t.Meta)}
	}
	return nil
}

// Register stores a deep copy of the specification under name, replacing
// any existing template of that name atomically.
func (r *Registry) Register(ctx context.Context, name string, spec engine.Specification, meta engine.TemplateMeta) error {
	if name == "" {
		return engine.NewInvalidValueError("name", "template name is required")
	}
	if err := engine.ValidateSpecification(spec); err != nil {
		return err
	}
	if meta.Category == "" {
		meta.Category = "general"
	}

	if r.store != nil {
		if err := r.store.SaveTemplate(ctx, name, spec, meta); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.records[name] = record{spec: spec.Clone(), meta: cloneMeta(meta)}
	r.mu.Unlock()
	return nil
}

// Get returns a deep copy of the named specification.
func (r *Registry) Get(ctx context.Context, name string) (engine.Specification, error) {
	r.mu.RLock()
	rec, ok := r.records[name]
	r.mu.RUnlock()
	if !ok {
		return engine.Specification{}, engine.NewNotFoundError("template", name)
	}
	return rec.spec.Clone(), nil
}

// GetMeta returns the metadata of the named template.
func (r *Registry) GetMeta(ctx context.Context, name string) (engine.TemplateMeta, error) {
	r.mu.RLock()
	rec, ok := r.records[name]
	r.mu.RUnlock()
	if !ok {
		return engine.TemplateMeta{}, engine.NewNotFoundError("template", name)
	}
	return cloneMeta(rec.meta), nil
}

// CloneAndCustomize clones the named template and applies overrides
// through the builder. The stored template is never mutated.
func (r *Registry) CloneAndCustomize(ctx context.Context, name string, ov engine.Overrides) (engine.Specification, error) {
	base, err := r.Get(ctx, name)
	if err != nil {
		return engine.Specification{}, err
	}
	return r.builder.BuildFromSpecification(base, ov)
}

// List returns summaries sorted by name, optionally filtered by category.
func (r *Registry) List(ctx context.Context, category string) []engine.TemplateSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]engine.TemplateSummary, 0, len(r.records))
	for name, rec := range r.records {
		if category != "" && rec.meta.Category != category {
			continue
		}
		out = append(out, engine.TemplateSummary{
			Name:      name,
			Category:  rec.meta.Category,
			Provider:  rec.spec.Provider,
			VMClass:   rec.spec.VMClass,
			Region:    rec.spec.Region,
			VCPUs:     rec.spec.VM.VCPUs,
			MemoryGB:  rec.spec.VM.MemoryGB,
			StorageGB: rec.spec.Storage.SizeGB,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Remove deletes the named template.
func (r *Registry) Remove(ctx context.Context, name string) error {
	r.mu.Lock()
	_, ok := r.records[name]
	if ok {
		delete(r.records, name)
	}
	r.mu.Unlock()

	if !ok {
		return engine.NewNotFoundError("template", name)
	}
	if r.store != nil {
		return r.store.DeleteTemplate(ctx, name)
	}
	return nil
}

// Count returns the number of registered templates.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func cloneMeta(meta engine.TemplateMeta) engine.TemplateMeta {
	out := meta
	if meta.Tags != nil {
		out.Tags = make(map[string]string, len(meta.Tags))
		for k, v := range meta.Tags {
			out.Tags[k] = v
		}
	}
	return out
}
