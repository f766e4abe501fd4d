package providers

import "github.com/vmforge/vmforge/pkg/engine"

// OnPremiseFactory produces simulated on-premises network, storage, and vm
// records.
type OnPremiseFactory struct {
	ids IDGenerator
}

var _ engine.ResourceFactory = (*OnPremiseFactory)(nil)

// NewOnPremiseFactory returns the onpremise resource factory.
func NewOnPremiseFactory(ids IDGenerator) *OnPremiseFactory {
	return &OnPremiseFactory{ids: ids}
}

// Provider returns the onpremise provider id.
func (f *OnPremiseFactory) Provider() engine.ProviderID { return engine.ProviderOnPremise }

// CreateNetwork produces a vlan-backed network record.
func (f *OnPremiseFactory) CreateNetwork(cfg engine.NetworkConfig) (engine.ResourceRecord, error) {
	if cfg.PhysicalInterface == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderOnPremise, engine.ResourceTypeNetwork, "physical_interface")
	}
	if cfg.VLANID == 0 {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderOnPremise, engine.ResourceTypeNetwork, "vlan_id")
	}
	if cfg.FirewallPolicy == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderOnPremise, engine.ResourceTypeNetwork, "firewall_policy")
	}

	return engine.ResourceRecord{
		ResourceID:   f.ids.NewID(engine.ProviderOnPremise, kindNetwork),
		ResourceType: engine.ResourceTypeNetwork,
		Status:       engine.StatusAvailable,
		Details: map[string]any{
			"physical_interface": cfg.PhysicalInterface,
			"vlan_id":            cfg.VLANID,
			"firewall_policy":    cfg.FirewallPolicy,
			"region":             cfg.Region,
			"firewall_rules":     cfg.FirewallRules,
			"public_ip":          cfg.PublicIP,
		},
	}, nil
}

// CreateStorage produces a raid-pool storage record.
func (f *OnPremiseFactory) CreateStorage(cfg engine.StorageConfig) (engine.ResourceRecord, error) {
	if cfg.StoragePool == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderOnPremise, engine.ResourceTypeStorage, "storage_pool")
	}
	if cfg.RAIDLevel == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderOnPremise, engine.ResourceTypeStorage, "raid_level")
	}
	if cfg.SizeGB == 0 {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderOnPremise, engine.ResourceTypeStorage, "size_gb")
	}

	return engine.ResourceRecord{
		ResourceID:   f.ids.NewID(engine.ProviderOnPremise, kindStorPool),
		ResourceType: engine.ResourceTypeStorage,
		Status:       engine.StatusAvailable,
		Details: map[string]any{
			"storage_pool": cfg.StoragePool,
			"raid_level":   cfg.RAIDLevel,
			"size_gb":      cfg.SizeGB,
			"region":       cfg.Region,
			"iops":         cfg.IOPS,
		},
	}, nil
}

// CreateVM produces a hypervisor guest record bound to the network and
// storage.
func (f *OnPremiseFactory) CreateVM(cfg engine.VMConfig, networkID, storageID string) (engine.ResourceRecord, error) {
	if cfg.VCPUs == 0 {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderOnPremise, engine.ResourceTypeVM, "vcpus")
	}
	if cfg.MemoryGB == 0 {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderOnPremise, engine.ResourceTypeVM, "memory_gb")
	}
	if cfg.Hypervisor == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderOnPremise, engine.ResourceTypeVM, "hypervisor")
	}

	return engine.ResourceRecord{
		ResourceID:   f.ids.NewID(engine.ProviderOnPremise, kindVM),
		ResourceType: engine.ResourceTypeVM,
		Status:       engine.StatusProvisioned,
		Details: map[string]any{
			"hypervisor":    cfg.Hypervisor,
			"vcpus":         cfg.VCPUs,
			"memory_gb":     cfg.MemoryGB,
			"key_pair_name": cfg.KeyPairName,
			"network_id":    networkID,
			"storage_id":    storageID,
		},
	}, nil
}
