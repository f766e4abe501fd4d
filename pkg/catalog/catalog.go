package catalog

import (
	"sort"

	"github.com/vmforge/vmforge/pkg/engine"
)

// entryKey addresses one catalog row.
type entryKey struct {
	provider engine.ProviderID
	class    engine.VMClass
	tier     engine.SizeTier
}

// defaultKey addresses the default tier for a provider/class pair.
type defaultKey struct {
	provider engine.ProviderID
	class    engine.VMClass
}

// Catalog is an immutable table of baseline configuration triples keyed by
// (provider, vm class, size tier). It implements engine.Catalog.
type Catalog struct {
	entries  map[entryKey]engine.CatalogEntry
	defaults map[defaultKey]engine.SizeTier
	regions  map[engine.ProviderID][]string
}

var _ engine.Catalog = (*Catalog)(nil)

// New builds a catalog from the given entries, default tiers, and region
// table. The input maps are copied; the catalog never aliases caller
// memory.
func New(
	entries []engine.CatalogEntry,
	defaults map[engine.ProviderID]map[engine.VMClass]engine.SizeTier,
	regions map[engine.ProviderID][]string,
) *Catalog {
	c := &Catalog{
		entries:  make(map[entryKey]engine.CatalogEntry, len(entries)),
		defaults: make(map[defaultKey]engine.SizeTier),
		regions:  make(map[engine.ProviderID][]string, len(regions)),
	}
	for _, e := range entries {
		c.entries[entryKey{e.Provider, e.VMClass, e.SizeTier}] = e.Clone()
	}
	for p, classes := range defaults {
		for class, tier := range classes {
			c.defaults[defaultKey{p, class}] = tier
		}
	}
	for p, rs := range regions {
		out := make([]string, len(rs))
		copy(out, rs)
		c.regions[p] = out
	}
	return c
}

// Lookup returns a deep copy of the entry for the triple, or a not_found
// error naming the most specific missing level.
func (c *Catalog) Lookup(provider engine.ProviderID, class engine.VMClass, tier engine.SizeTier) (engine.CatalogEntry, error) {
	if err := provider.Validate(); err != nil {
		return engine.CatalogEntry{}, err
	}
	if _, ok := c.defaults[defaultKey{provider, class}]; !ok {
		return engine.CatalogEntry{}, engine.NewNotFoundError("vm class", string(class))
	}
	e, ok := c.entries[entryKey{provider, class, tier}]
	if !ok {
		return engine.CatalogEntry{}, engine.NewNotFoundError("size tier", string(tier))
	}
	return e.Clone(), nil
}

// DefaultTier returns the default size tier for a provider/class pair.
func (c *Catalog) DefaultTier(provider engine.ProviderID, class engine.VMClass) (engine.SizeTier, error) {
	if err := provider.Validate(); err != nil {
		return "", err
	}
	tier, ok := c.defaults[defaultKey{provider, class}]
	if !ok {
		return "", engine.NewNotFoundError("vm class", string(class))
	}
	return tier, nil
}

// Providers enumerates the providers present in the table, sorted.
func (c *Catalog) Providers() []engine.ProviderID {
	seen := make(map[engine.ProviderID]bool)
	for k := range c.entries {
		seen[k.provider] = true
	}
	out := make([]engine.ProviderID, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// VMClasses enumerates the vm classes available for a provider, sorted.
func (c *Catalog) VMClasses(provider engine.ProviderID) []engine.VMClass {
	seen := make(map[engine.VMClass]bool)
	for k := range c.entries {
		if k.provider == provider {
			seen[k.class] = true
		}
	}
	out := make([]engine.VMClass, 0, len(seen))
	for class := range seen {
		out = append(out, class)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SizeTiers enumerates the size tiers available for a provider/class,
// ordered small, medium, large.
func (c *Catalog) SizeTiers(provider engine.ProviderID, class engine.VMClass) []engine.SizeTier {
	var out []engine.SizeTier
	for _, tier := range []engine.SizeTier{engine.SizeTierSmall, engine.SizeTierMedium, engine.SizeTierLarge} {
		if _, ok := c.entries[entryKey{provider, class, tier}]; ok {
			out = append(out, tier)
		}
	}
	return out
}

// Regions enumerates the regions supported by a provider.
func (c *Catalog) Regions(provider engine.ProviderID) []string {
	rs, ok := c.regions[provider]
	if !ok {
		return nil
	}
	out := make([]string, len(rs))
	copy(out, rs)
	return out
}

// SupportsRegion reports whether the provider lists the region.
func (c *Catalog) SupportsRegion(provider engine.ProviderID, region string) bool {
	for _, r := range c.regions[provider] {
		if r == region {
			return true
		}
	}
	return false
}
