package providers

import "github.com/vmforge/vmforge/pkg/engine"

// AWSFactory produces simulated AWS network, storage, and vm records.
type AWSFactory struct {
	ids IDGenerator
}

var _ engine.ResourceFactory = (*AWSFactory)(nil)

// NewAWSFactory returns the aws resource factory.
func NewAWSFactory(ids IDGenerator) *AWSFactory {
	return &AWSFactory{ids: ids}
}

// Provider returns the aws provider id.
func (f *AWSFactory) Provider() engine.ProviderID { return engine.ProviderAWS }

// CreateNetwork produces a vpc-backed network record.
func (f *AWSFactory) CreateNetwork(cfg engine.NetworkConfig) (engine.ResourceRecord, error) {
	if cfg.VPCID == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAWS, engine.ResourceTypeNetwork, "vpc_id")
	}
	if cfg.Subnet == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAWS, engine.ResourceTypeNetwork, "subnet")
	}
	if cfg.SecurityGroup == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAWS, engine.ResourceTypeNetwork, "security_group")
	}

	return engine.ResourceRecord{
		ResourceID:   f.ids.NewID(engine.ProviderAWS, kindNetwork),
		ResourceType: engine.ResourceTypeNetwork,
		Status:       engine.StatusAvailable,
		Details: map[string]any{
			"vpc_id":         cfg.VPCID,
			"subnet":         cfg.Subnet,
			"security_group": cfg.SecurityGroup,
			"region":         cfg.Region,
			"firewall_rules": cfg.FirewallRules,
			"public_ip":      cfg.PublicIP,
		},
	}, nil
}

// CreateStorage produces an ebs volume record.
func (f *AWSFactory) CreateStorage(cfg engine.StorageConfig) (engine.ResourceRecord, error) {
	if cfg.VolumeType == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAWS, engine.ResourceTypeStorage, "volume_type")
	}
	if cfg.SizeGB == 0 {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAWS, engine.ResourceTypeStorage, "size_gb")
	}

	return engine.ResourceRecord{
		ResourceID:   f.ids.NewID(engine.ProviderAWS, kindVolume),
		ResourceType: engine.ResourceTypeStorage,
		Status:       engine.StatusAvailable,
		Details: map[string]any{
			"volume_type": cfg.VolumeType,
			"size_gb":     cfg.SizeGB,
			"encrypted":   cfg.Encrypted,
			"region":      cfg.Region,
			"iops":        cfg.IOPS,
		},
	}, nil
}

// CreateVM produces an ec2 instance record bound to the network and storage.
func (f *AWSFactory) CreateVM(cfg engine.VMConfig, networkID, storageID string) (engine.ResourceRecord, error) {
	if cfg.InstanceType == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAWS, engine.ResourceTypeVM, "instance_type")
	}
	if cfg.AMI == "" {
		return engine.ResourceRecord{}, engine.NewMissingParameterError(engine.ProviderAWS, engine.ResourceTypeVM, "ami")
	}

	return engine.ResourceRecord{
		ResourceID:   f.ids.NewID(engine.ProviderAWS, kindVM),
		ResourceType: engine.ResourceTypeVM,
		Status:       engine.StatusProvisioned,
		Details: map[string]any{
			"instance_type": cfg.InstanceType,
			"ami":           cfg.AMI,
			"vcpus":         cfg.VCPUs,
			"memory_gb":     cfg.MemoryGB,
			"key_pair_name": cfg.KeyPairName,
			"network_id":    networkID,
			"storage_id":    storageID,
		},
	}, nil
}
