package engine

// ValidateSpecification enforces the cross-resource invariants of a fully
// assembled specification. Checks run in a fixed order: required-field
// presence first, then value ranges, then region coherence. The first
// violation ends validation.
func ValidateSpecification(spec Specification) error {
	// Presence.
	if spec.Provider == "" {
		return NewMissingParameterError(spec.Provider, ResourceTypeVM, "provider")
	}
	if err := spec.Provider.Validate(); err != nil {
		return err
	}
	if spec.Region == "" {
		return NewError(ErrMissingParameter, "specification region is required").WithField("region")
	}
	if spec.VM.VCPUs == 0 {
		return NewMissingParameterError(spec.Provider, ResourceTypeVM, "vcpus")
	}
	if spec.VM.MemoryGB == 0 {
		return NewMissingParameterError(spec.Provider, ResourceTypeVM, "memory_gb")
	}
	if spec.Storage.SizeGB == 0 {
		return NewMissingParameterError(spec.Provider, ResourceTypeStorage, "size_gb")
	}

	// Ranges.
	if spec.VM.VCPUs < 0 {
		return NewInvalidValueError("vcpus", "vcpus must be positive, got %d", spec.VM.VCPUs)
	}
	if spec.VM.MemoryGB < 0 {
		return NewInvalidValueError("memory_gb", "memory_gb must be positive, got %d", spec.VM.MemoryGB)
	}
	if spec.Storage.SizeGB < 0 {
		return NewInvalidValueError("size_gb", "size_gb must be positive, got %d", spec.Storage.SizeGB)
	}
	if spec.Storage.IOPS < 0 {
		return NewInvalidValueError("iops", "iops must not be negative, got %d", spec.Storage.IOPS)
	}

	// Region coherence. Never reconciled silently.
	if spec.Network.Region != spec.Region || spec.Storage.Region != spec.Region {
		return NewRegionMismatchError(spec.Region, spec.Network.Region, spec.Storage.Region)
	}
	return nil
}

// ValidateVMConfig enforces the compute-only subset used by the individual
// construction path, which carries no network or storage members.
func ValidateVMConfig(cfg VMConfig) error {
	if cfg.Provider == "" {
		return NewMissingParameterError(cfg.Provider, ResourceTypeVM, "provider")
	}
	if err := cfg.Provider.Validate(); err != nil {
		return err
	}
	if cfg.VCPUs == 0 {
		return NewMissingParameterError(cfg.Provider, ResourceTypeVM, "vcpus")
	}
	if cfg.MemoryGB == 0 {
		return NewMissingParameterError(cfg.Provider, ResourceTypeVM, "memory_gb")
	}
	if cfg.VCPUs < 0 {
		return NewInvalidValueError("vcpus", "vcpus must be positive, got %d", cfg.VCPUs)
	}
	if cfg.MemoryGB < 0 {
		return NewInvalidValueError("memory_gb", "memory_gb must be positive, got %d", cfg.MemoryGB)
	}
	return nil
}
