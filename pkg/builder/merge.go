package builder

import "github.com/vmforge/vmforge/pkg/engine"

// applyOverrides merges the partial override sets into the specification.
// Nil override fields leave the base value untouched; the family region
// override moves the top-level, network, and storage regions together.
func applyOverrides(spec *engine.Specification, ov engine.Overrides) {
	if ov.Region != nil {
		spec.Region = *ov.Region
		spec.Network.Region = *ov.Region
		spec.Storage.Region = *ov.Region
	}
	if ov.VM != nil {
		applyVMOverrides(&spec.VM, ov.VM)
	}
	if ov.Network != nil {
		applyNetworkOverrides(&spec.Network, ov.Network)
	}
	if ov.Storage != nil {
		applyStorageOverrides(&spec.Storage, ov.Storage)
	}
}

func applyVMOverrides(cfg *engine.VMConfig, ov *engine.VMOverrides) {
	setInt(&cfg.VCPUs, ov.VCPUs)
	setInt(&cfg.MemoryGB, ov.MemoryGB)
	setBool(&cfg.MemoryOptimization, ov.MemoryOptimization)
	setBool(&cfg.DiskOptimization, ov.DiskOptimization)
	setString(&cfg.KeyPairName, ov.KeyPairName)

	setString(&cfg.InstanceType, ov.InstanceType)
	setString(&cfg.AMI, ov.AMI)
	setString(&cfg.Size, ov.Size)
	setString(&cfg.ResourceGroup, ov.ResourceGroup)
	setString(&cfg.Image, ov.Image)
	setString(&cfg.MachineType, ov.MachineType)
	setString(&cfg.Zone, ov.Zone)
	setString(&cfg.Project, ov.Project)
	setString(&cfg.Hypervisor, ov.Hypervisor)
}

func applyNetworkOverrides(cfg *engine.NetworkConfig, ov *engine.NetworkOverrides) {
	setString(&cfg.Region, ov.Region)
	if ov.FirewallRules != nil {
		// Replaced wholesale, never appended.
		rules := make([]string, len(ov.FirewallRules))
		copy(rules, ov.FirewallRules)
		cfg.FirewallRules = rules
	}
	setBool(&cfg.PublicIP, ov.PublicIP)

	setString(&cfg.VPCID, ov.VPCID)
	setString(&cfg.Subnet, ov.Subnet)
	setString(&cfg.SecurityGroup, ov.SecurityGroup)
	setString(&cfg.VirtualNetwork, ov.VirtualNetwork)
	setString(&cfg.SubnetName, ov.SubnetName)
	setString(&cfg.NetworkSecurityGroup, ov.NetworkSecurityGroup)
	setString(&cfg.NetworkName, ov.NetworkName)
	setString(&cfg.SubnetworkName, ov.SubnetworkName)
	setString(&cfg.FirewallTag, ov.FirewallTag)
	setString(&cfg.PhysicalInterface, ov.PhysicalInterface)
	setInt(&cfg.VLANID, ov.VLANID)
	setString(&cfg.FirewallPolicy, ov.FirewallPolicy)
}

func applyStorageOverrides(cfg *engine.StorageConfig, ov *engine.StorageOverrides) {
	setString(&cfg.Region, ov.Region)
	setInt(&cfg.SizeGB, ov.SizeGB)
	setInt(&cfg.IOPS, ov.IOPS)

	setString(&cfg.VolumeType, ov.VolumeType)
	setBool(&cfg.Encrypted, ov.Encrypted)
	setString(&cfg.DiskSKU, ov.DiskSKU)
	setBool(&cfg.ManagedDisk, ov.ManagedDisk)
	setString(&cfg.DiskType, ov.DiskType)
	setBool(&cfg.AutoDelete, ov.AutoDelete)
	setString(&cfg.StoragePool, ov.StoragePool)
	setString(&cfg.RAIDLevel, ov.RAIDLevel)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
