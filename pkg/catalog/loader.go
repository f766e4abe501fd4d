package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vmforge/vmforge/pkg/engine"
)

// File is the on-disk YAML shape for catalog extensions. Entries listed
// here are layered on top of the builtin table, replacing rows that share
// the same (provider, vm_class, size_tier) key.
type File struct {
	Entries  []engine.CatalogEntry                   `yaml:"entries"`
	Defaults map[engine.ProviderID]map[engine.VMClass]engine.SizeTier `yaml:"defaults"`
	Regions  map[engine.ProviderID][]string          `yaml:"regions"`
}

// LoadFile parses a catalog extension file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	for i, e := range f.Entries {
		if err := e.Provider.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if err := e.VMClass.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if e.SizeTier == "" {
			return nil, fmt.Errorf("catalog entry %d: size tier is required", i)
		}
	}
	return &f, nil
}

// BuiltinWithExtensions returns the builtin catalog with the extension
// file layered on top. A nil extension yields the plain builtin catalog.
func BuiltinWithExtensions(ext *File) *Catalog {
	entries := BuiltinEntries()
	defaults := BuiltinDefaults()
	regions := BuiltinRegions()

	if ext != nil {
		entries = append(entries, ext.Entries...)
		for p, classes := range ext.Defaults {
			if defaults[p] == nil {
				defaults[p] = make(map[engine.VMClass]engine.SizeTier)
			}
			for class, tier := range classes {
				defaults[p][class] = tier
			}
		}
		for p, rs := range ext.Regions {
			regions[p] = rs
		}
	}

	return New(entries, defaults, regions)
}
