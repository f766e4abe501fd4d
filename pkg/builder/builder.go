package builder

import (
	"strings"

	"github.com/vmforge/vmforge/pkg/engine"
)

// Builder assembles full specifications from catalog entries or existing
// specifications plus partial overrides. It is stateless and safe for
// concurrent use.
type Builder struct{}

var _ engine.SpecificationBuilder = (*Builder)(nil)

// New returns a specification builder.
func New() *Builder { return &Builder{} }

// BuildFromEntry stamps the request region into a catalog entry, derives
// the region-dependent provider identifiers, applies overrides, fills
// remaining defaults, and validates the result.
func (b *Builder) BuildFromEntry(entry engine.CatalogEntry, region string, ov engine.Overrides) (engine.Specification, error) {
	e := entry.Clone()
	spec := engine.Specification{
		VMClass:  e.VMClass,
		Provider: e.Provider,
		Region:   region,
		VM:       e.VM,
		Network:  e.Network,
		Storage:  e.Storage,
	}
	spec.Network.Region = region
	spec.Storage.Region = region

	applyOverrides(&spec, ov)
	fillDefaults(&spec)

	if err := engine.ValidateSpecification(spec); err != nil {
		return engine.Specification{}, err
	}
	return spec, nil
}

// BuildFromSpecification clones an existing specification, applies
// overrides, fills remaining defaults, and validates the result.
func (b *Builder) BuildFromSpecification(base engine.Specification, ov engine.Overrides) (engine.Specification, error) {
	spec := base.Clone()

	applyOverrides(&spec, ov)
	fillDefaults(&spec)

	if err := engine.ValidateSpecification(spec); err != nil {
		return engine.Specification{}, err
	}
	return spec, nil
}

// fillDefaults completes a specification with the provider-dependent
// identifiers and baseline values that were not set explicitly. Region
// derived identifiers always follow the final region.
func fillDefaults(spec *engine.Specification) {
	if len(spec.Network.FirewallRules) == 0 {
		spec.Network.FirewallRules = engine.DefaultFirewallRules()
	}
	if spec.Storage.IOPS == 0 {
		spec.Storage.IOPS = engine.DefaultIOPS
	}

	region := spec.Region
	switch spec.Provider {
	case engine.ProviderAWS:
		compact := strings.ReplaceAll(region, "-", "")
		if spec.Network.VPCID == "" {
			spec.Network.VPCID = "vpc-" + compact
		}
		if spec.Network.Subnet == "" {
			spec.Network.Subnet = "subnet-" + compact
		}
		if spec.Network.SecurityGroup == "" {
			spec.Network.SecurityGroup = "sg-default"
		}
		if spec.Storage.VolumeType == "" {
			spec.Storage.VolumeType = "gp2"
		}
	case engine.ProviderAzure:
		if spec.Network.VirtualNetwork == "" {
			spec.Network.VirtualNetwork = "vnet-" + region
		}
		if spec.Network.SubnetName == "" {
			spec.Network.SubnetName = "subnet-default"
		}
		if spec.Network.NetworkSecurityGroup == "" {
			spec.Network.NetworkSecurityGroup = "nsg-default"
		}
		if spec.Storage.DiskSKU == "" {
			spec.Storage.DiskSKU = "Standard_LRS"
		}
	case engine.ProviderGCP:
		if spec.Network.NetworkName == "" {
			spec.Network.NetworkName = "default"
		}
		if spec.Network.SubnetworkName == "" {
			spec.Network.SubnetworkName = "subnet-" + region
		}
		if spec.Network.FirewallTag == "" {
			spec.Network.FirewallTag = "allow-default"
		}
		if spec.VM.Zone == "" {
			spec.VM.Zone = region
		}
		if spec.Storage.DiskType == "" {
			spec.Storage.DiskType = "pd-standard"
		}
	case engine.ProviderOnPremise:
		if spec.Network.PhysicalInterface == "" {
			spec.Network.PhysicalInterface = "eth0"
		}
		if spec.Network.VLANID == 0 {
			spec.Network.VLANID = 100
		}
		if spec.Network.FirewallPolicy == "" {
			spec.Network.FirewallPolicy = "allow-default"
		}
		if spec.Storage.StoragePool == "" {
			spec.Storage.StoragePool = "pool-default"
		}
		if spec.Storage.RAIDLevel == "" {
			spec.Storage.RAIDLevel = "raid1"
		}
		if spec.VM.Hypervisor == "" {
			spec.VM.Hypervisor = "vmware"
		}
	}
}
