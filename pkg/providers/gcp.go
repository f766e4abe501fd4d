package providers

import "github.com/vmforge/vmforge/pkg/engine"

// GCPFactory produces simulated GCP network, storage, and vm records.
type GCPFactory struct {
	ids IDGenerator
}

var _ engine.ResourceFactory = (*GCPFactory)(nil)

// NewGCPFactory returns the gcp resource factory.
func NewGCPFactory(ids IDGenerator) *GCPFactory {
	return &GCPFactory{ids: ids}
}

// Provider returns the gcp provider id.
func (f *GCPFactory) Provider() engine.ProviderID { return engine.ProviderGCP }

// CreateNetwork produces a vpc-network record.
func (f *GCPFactory) CreateNetwork(cfg engine.NetworkConfig) (engine.ResourceRecord, error) {
	if cfg.NetworkName == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderGCP, engine.ResourceTypeNetwork, "network_name")
	}
	if cfg.SubnetworkName == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderGCP, engine.ResourceTypeNetwork, "subnetwork_name")
	}
	if cfg.FirewallTag == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderGCP, engine.ResourceTypeNetwork, "firewall_tag")
	}

	return engine.ResourceRecord{
		ResourceID:   f.ids.NewID(engine.ProviderGCP, kindNetwork),
		ResourceType: engine.ResourceTypeNetwork,
		Status:       engine.StatusAvailable,
		Details: map[string]any{
			"network_name":    cfg.NetworkName,
			"subnetwork_name": cfg.SubnetworkName,
			"firewall_tag":    cfg.FirewallTag,
			"region":          cfg.Region,
			"firewall_rules":  cfg.FirewallRules,
			"public_ip":       cfg.PublicIP,
		},
	}, nil
}

// CreateStorage produces a persistent-disk record.
func (f *GCPFactory) CreateStorage(cfg engine.StorageConfig) (engine.ResourceRecord, error) {
	if cfg.DiskType == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderGCP, engine.ResourceTypeStorage, "disk_type")
	}
	if cfg.SizeGB == 0 {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderGCP, engine.ResourceTypeStorage, "size_gb")
	}

	return engine.ResourceRecord{
		ResourceID:   f.ids.NewID(engine.ProviderGCP, kindDisk),
		ResourceType: engine.ResourceTypeStorage,
		Status:       engine.StatusAvailable,
		Details: map[string]any{
			"disk_type":   cfg.DiskType,
			"size_gb":     cfg.SizeGB,
			"auto_delete": cfg.AutoDelete,
			"region":      cfg.Region,
			"iops":        cfg.IOPS,
		},
	}, nil
}

// CreateVM produces a compute-instance record bound to the network and storage.
func (f *GCPFactory) CreateVM(cfg engine.VMConfig, networkID, storageID string) (engine.ResourceRecord, error) {
	if cfg.MachineType == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderGCP, engine.ResourceTypeVM, "machine_type")
	}
	if cfg.Zone == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderGCP, engine.ResourceTypeVM, "zone")
	}
	if cfg.Project == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderGCP, engine.ResourceTypeVM, "project")
	}

	return engine.ResourceRecord{
		ResourceID:   f.ids.NewID(engine.ProviderGCP, kindVM),
		ResourceType: engine.ResourceTypeVM,
		Status:       engine.StatusProvisioned,
		Details: map[string]any{
			"machine_type":  cfg.MachineType,
			"zone":          cfg.Zone,
			"project":       cfg.Project,
			"vcpus":         cfg.VCPUs,
			"memory_gb":     cfg.MemoryGB,
			"key_pair_name": cfg.KeyPairName,
			"network_id":    networkID,
			"storage_id":    storageID,
		},
	}, nil
}
