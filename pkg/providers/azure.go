package providers

import "github.com/vmforge/vmforge/pkg/engine"

// AzureFactory produces simulated Azure network, storage, and vm records.
type AzureFactory struct {
	ids IDGenerator
}

var _ engine.ResourceFactory = (*AzureFactory)(nil)

// NewAzureFactory returns the azure resource factory.
func NewAzureFactory(ids IDGenerator) *AzureFactory {
	return &AzureFactory{ids: ids}
}

// Provider returns the azure provider id.
func (f *AzureFactory) Provider() engine.ProviderID { return engine.ProviderAzure }

// CreateNetwork produces a virtual-network record.
func (f *AzureFactory) CreateNetwork(cfg engine.NetworkConfig) (engine.ResourceRecord, error) {
	if cfg.VirtualNetwork == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAzure, engine.ResourceTypeNetwork, "virtual_network")
	}
	if cfg.SubnetName == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAzure, engine.ResourceTypeNetwork, "subnet_name")
	}
	if cfg.NetworkSecurityGroup == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAzure, engine.ResourceTypeNetwork, "network_security_group")
	}

	return engine.ResourceRecord{
		ResourceID:   f.ids.NewID(engine.ProviderAzure, kindNetwork),
		ResourceType: engine.ResourceTypeNetwork,
		Status:       engine.StatusAvailable,
		Details: map[string]any{
			"virtual_network":        cfg.VirtualNetwork,
			"subnet_name":            cfg.SubnetName,
			"network_security_group": cfg.NetworkSecurityGroup,
			"region":                 cfg.Region,
			"firewall_rules":         cfg.FirewallRules,
			"public_ip":              cfg.PublicIP,
		},
	}, nil
}

// CreateStorage produces a managed-disk record.
func (f *AzureFactory) CreateStorage(cfg engine.StorageConfig) (engine.ResourceRecord, error) {
	if cfg.DiskSKU == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAzure, engine.ResourceTypeStorage, "disk_sku")
	}
	if cfg.SizeGB == 0 {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAzure, engine.ResourceTypeStorage, "size_gb")
	}

	return engine.ResourceRecord{
		ResourceID:   f.ids.NewID(engine.ProviderAzure, kindDisk),
		ResourceType: engine.ResourceTypeStorage,
		Status:       engine.StatusAvailable,
		Details: map[string]any{
			"disk_sku":     cfg.DiskSKU,
			"size_gb":      cfg.SizeGB,
			"managed_disk": cfg.ManagedDisk,
			"region":       cfg.Region,
			"iops":         cfg.IOPS,
		},
	}, nil
}

// CreateVM produces a virtual-machine record bound to the network and storage.
func (f *AzureFactory) CreateVM(cfg engine.VMConfig, networkID, storageID string) (engine.ResourceRecord, error) {
	if cfg.Size == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAzure, engine.ResourceTypeVM, "size")
	}
	if cfg.ResourceGroup == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAzure, engine.ResourceTypeVM, "resource_group")
	}
	if cfg.Image == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAzure, engine.ResourceTypeVM, "image")
	}

	return engine.ResourceRecord{
		ResourceID:   f.ids.NewID(engine.ProviderAzure, kindVM),
		ResourceType: engine.ResourceTypeVM,
		Status:       engine.StatusProvisioned,
		Details: map[string]any{
			"size":           cfg.Size,
			"resource_group": cfg.ResourceGroup,
			"image":          cfg.Image,
			"vcpus":          cfg.VCPUs,
			"memory_gb":      cfg.MemoryGB,
			"key_pair_name":  cfg.KeyPairName,
			"network_id":     networkID,
			"storage_id":     storageID,
		},
	}, nil
}
