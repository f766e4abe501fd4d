package engine

import "sort"

// ProviderID identifies a supported infrastructure provider.
type ProviderID string

const (
	// ProviderAWS selects the Amazon Web Services factory and catalog rows.
	ProviderAWS ProviderID = "aws"

	// ProviderAzure selects the Microsoft Azure factory and catalog rows.
	ProviderAzure ProviderID = "azure"

	// ProviderGCP selects the Google Cloud factory and catalog rows.
	ProviderGCP ProviderID = "gcp"

	// ProviderOnPremise selects the on-premises factory and catalog rows.
	ProviderOnPremise ProviderID = "onpremise"
)

// KnownProviders returns the closed set of provider identifiers, sorted.
func KnownProviders() []ProviderID {
	ids := []ProviderID{ProviderAWS, ProviderAzure, ProviderGCP, ProviderOnPremise}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Validate checks that the provider identifier is one of the known tags.
func (p ProviderID) Validate() error {
	switch p {
	case ProviderAWS, ProviderAzure, ProviderGCP, ProviderOnPremise:
		return nil
	default:
		return NewUnsupportedProviderError(p)
	}
}

// VMClass is the workload class of a virtual machine.
type VMClass string

const (
	// VMClassStandard is a balanced general-purpose class.
	VMClassStandard VMClass = "standard"

	// VMClassMemoryOptimized favors RAM over CPU.
	VMClassMemoryOptimized VMClass = "memory_optimized"

	// VMClassComputeOptimized favors CPU over RAM.
	VMClassComputeOptimized VMClass = "compute_optimized"
)

// Validate checks that the vm class is one of the known classes.
func (c VMClass) Validate() error {
	switch c {
	case VMClassStandard, VMClassMemoryOptimized, VMClassComputeOptimized:
		return nil
	default:
		return NewNotFoundError("vm class", string(c))
	}
}

// SizeTier is a named capacity level mapping to concrete vcpu/memory values
// per provider and vm class.
type SizeTier string

const (
	SizeTierSmall  SizeTier = "small"
	SizeTierMedium SizeTier = "medium"
	SizeTierLarge  SizeTier = "large"
)

// ResourceType distinguishes the members of a resource family.
type ResourceType string

const (
	ResourceTypeNetwork ResourceType = "network"
	ResourceTypeStorage ResourceType = "storage"
	ResourceTypeVM      ResourceType = "vm"
)

// Resource status values reported in ResourceRecord.Status.
const (
	StatusAvailable   = "available"
	StatusProvisioned = "provisioned"
)

// VMConfig describes the compute member of a specification. The provider
// blocks at the bottom carry provider-specific identifiers; only the fields
// of the owning provider are populated.
type VMConfig struct {
	Provider ProviderID `json:"provider" yaml:"provider"`
	VCPUs    int        `json:"vcpus" yaml:"vcpus"`
	MemoryGB int        `json:"memory_gb" yaml:"memory_gb"`

	MemoryOptimization bool   `json:"memory_optimization,omitempty" yaml:"memory_optimization,omitempty"`
	DiskOptimization   bool   `json:"disk_optimization,omitempty" yaml:"disk_optimization,omitempty"`
	KeyPairName        string `json:"key_pair_name,omitempty" yaml:"key_pair_name,omitempty"`

	// aws
	InstanceType string `json:"instance_type,omitempty" yaml:"instance_type,omitempty"`
	AMI          string `json:"ami,omitempty" yaml:"ami,omitempty"`

	// azure
	Size          string `json:"size,omitempty" yaml:"size,omitempty"`
	ResourceGroup string `json:"resource_group,omitempty" yaml:"resource_group,omitempty"`
	Image         string `json:"image,omitempty" yaml:"image,omitempty"`

	// gcp
	MachineType string `json:"machine_type,omitempty" yaml:"machine_type,omitempty"`
	Zone        string `json:"zone,omitempty" yaml:"zone,omitempty"`
	Project     string `json:"project,omitempty" yaml:"project,omitempty"`

	// onpremise
	Hypervisor string `json:"hypervisor,omitempty" yaml:"hypervisor,omitempty"`
}

// NetworkConfig describes the network member of a specification.
type NetworkConfig struct {
	Region string `json:"region" yaml:"region"`

	// FirewallRules is an ordered set of rule names. When overridden it is
	// replaced wholesale, never appended.
	FirewallRules []string `json:"firewall_rules,omitempty" yaml:"firewall_rules,omitempty"`
	PublicIP      bool     `json:"public_ip" yaml:"public_ip"`

	// aws
	VPCID         string `json:"vpc_id,omitempty" yaml:"vpc_id,omitempty"`
	Subnet        string `json:"subnet,omitempty" yaml:"subnet,omitempty"`
	SecurityGroup string `json:"security_group,omitempty" yaml:"security_group,omitempty"`

	// azure
	VirtualNetwork       string `json:"virtual_network,omitempty" yaml:"virtual_network,omitempty"`
	SubnetName           string `json:"subnet_name,omitempty" yaml:"subnet_name,omitempty"`
	NetworkSecurityGroup string `json:"network_security_group,omitempty" yaml:"network_security_group,omitempty"`

	// gcp
	NetworkName    string `json:"network_name,omitempty" yaml:"network_name,omitempty"`
	SubnetworkName string `json:"subnetwork_name,omitempty" yaml:"subnetwork_name,omitempty"`
	FirewallTag    string `json:"firewall_tag,omitempty" yaml:"firewall_tag,omitempty"`

	// onpremise
	PhysicalInterface string `json:"physical_interface,omitempty" yaml:"physical_interface,omitempty"`
	VLANID            int    `json:"vlan_id,omitempty" yaml:"vlan_id,omitempty"`
	FirewallPolicy    string `json:"firewall_policy,omitempty" yaml:"firewall_policy,omitempty"`
}

// DefaultFirewallRules are applied when a network config carries no rules.
func DefaultFirewallRules() []string { return []string{"SSH"} }

// StorageConfig describes the storage member of a specification.
type StorageConfig struct {
	Region string `json:"region" yaml:"region"`
	SizeGB int    `json:"size_gb" yaml:"size_gb"`
	IOPS   int    `json:"iops,omitempty" yaml:"iops,omitempty"`

	// aws
	VolumeType string `json:"volume_type,omitempty" yaml:"volume_type,omitempty"`
	Encrypted  bool   `json:"encrypted,omitempty" yaml:"encrypted,omitempty"`

	// azure
	DiskSKU     string `json:"disk_sku,omitempty" yaml:"disk_sku,omitempty"`
	ManagedDisk bool   `json:"managed_disk,omitempty" yaml:"managed_disk,omitempty"`

	// gcp
	DiskType   string `json:"disk_type,omitempty" yaml:"disk_type,omitempty"`
	AutoDelete bool   `json:"auto_delete,omitempty" yaml:"auto_delete,omitempty"`

	// onpremise
	StoragePool string `json:"storage_pool,omitempty" yaml:"storage_pool,omitempty"`
	RAIDLevel   string `json:"raid_level,omitempty" yaml:"raid_level,omitempty"`
}

// DefaultIOPS is applied when a storage config carries no IOPS value.
const DefaultIOPS = 3000

// Specification is the fully-resolved description of a VM + network +
// storage triple before resource creation.
type Specification struct {
	VMClass  VMClass       `json:"vm_class" yaml:"vm_class"`
	Provider ProviderID    `json:"provider" yaml:"provider"`
	Region   string        `json:"region" yaml:"region"`
	VM       VMConfig      `json:"vm_config" yaml:"vm_config"`
	Network  NetworkConfig `json:"network_config" yaml:"network_config"`
	Storage  StorageConfig `json:"storage_config" yaml:"storage_config"`
}

// Clone returns a deep copy of the specification. Copying is explicit so
// that no mutable sub-object is ever shared between a stored value and a
// derived one.
func (s Specification) Clone() Specification {
	out := s
	if s.Network.FirewallRules != nil {
		out.Network.FirewallRules = make([]string, len(s.Network.FirewallRules))
		copy(out.Network.FirewallRules, s.Network.FirewallRules)
	}
	return out
}

// CatalogEntry is the default configuration triple for one
// (provider, vm class, size tier) catalog row. Entries are immutable after
// catalog construction; the configs carry no region, which is stamped in by
// the builder from the construction request.
type CatalogEntry struct {
	Provider ProviderID `json:"provider" yaml:"provider"`
	VMClass  VMClass    `json:"vm_class" yaml:"vm_class"`
	SizeTier SizeTier   `json:"size_tier" yaml:"size_tier"`

	VM      VMConfig      `json:"vm" yaml:"vm"`
	Network NetworkConfig `json:"network" yaml:"network"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
}

// Clone returns a deep copy of the entry so that callers can never reach
// back into the catalog's tables.
func (e CatalogEntry) Clone() CatalogEntry {
	out := e
	if e.Network.FirewallRules != nil {
		out.Network.FirewallRules = make([]string, len(e.Network.FirewallRules))
		copy(out.Network.FirewallRules, e.Network.FirewallRules)
	}
	return out
}

// ResourceRecord is one simulated resource produced by a provider factory.
type ResourceRecord struct {
	ResourceID   string         `json:"resource_id"`
	ResourceType ResourceType   `json:"resource_type"`
	Status       string         `json:"status"`
	Details      map[string]any `json:"details"`
}

// FamilyResult is the outcome of a successful family construction: the
// resolved specification plus exactly three records in the order network,
// storage, vm.
type FamilyResult struct {
	Specification Specification    `json:"specification"`
	Resources     []ResourceRecord `json:"resources"`
	State         RequestState     `json:"state"`
}

// NetworkRecord returns the network member of the family.
func (r *FamilyResult) NetworkRecord() ResourceRecord { return r.Resources[0] }

// StorageRecord returns the storage member of the family.
func (r *FamilyResult) StorageRecord() ResourceRecord { return r.Resources[1] }

// VMRecord returns the vm member of the family.
func (r *FamilyResult) VMRecord() ResourceRecord { return r.Resources[2] }

// VMOverrides carries the compute fields a caller wants to change. Nil
// fields retain the base value.
type VMOverrides struct {
	VCPUs              *int    `json:"vcpus,omitempty"`
	MemoryGB           *int    `json:"memory_gb,omitempty"`
	MemoryOptimization *bool   `json:"memory_optimization,omitempty"`
	DiskOptimization   *bool   `json:"disk_optimization,omitempty"`
	KeyPairName        *string `json:"key_pair_name,omitempty"`

	InstanceType  *string `json:"instance_type,omitempty"`
	AMI           *string `json:"ami,omitempty"`
	Size          *string `json:"size,omitempty"`
	ResourceGroup *string `json:"resource_group,omitempty"`
	Image         *string `json:"image,omitempty"`
	MachineType   *string `json:"machine_type,omitempty"`
	Zone          *string `json:"zone,omitempty"`
	Project       *string `json:"project,omitempty"`
	Hypervisor    *string `json:"hypervisor,omitempty"`
}

// NetworkOverrides carries the network fields a caller wants to change.
type NetworkOverrides struct {
	Region *string `json:"region,omitempty"`

	// FirewallRules, when non-nil, replaces the base rules wholesale.
	FirewallRules []string `json:"firewall_rules,omitempty"`
	PublicIP      *bool    `json:"public_ip,omitempty"`

	VPCID                *string `json:"vpc_id,omitempty"`
	Subnet               *string `json:"subnet,omitempty"`
	SecurityGroup        *string `json:"security_group,omitempty"`
	VirtualNetwork       *string `json:"virtual_network,omitempty"`
	SubnetName           *string `json:"subnet_name,omitempty"`
	NetworkSecurityGroup *string `json:"network_security_group,omitempty"`
	NetworkName          *string `json:"network_name,omitempty"`
	SubnetworkName       *string `json:"subnetwork_name,omitempty"`
	FirewallTag          *string `json:"firewall_tag,omitempty"`
	PhysicalInterface    *string `json:"physical_interface,omitempty"`
	VLANID               *int    `json:"vlan_id,omitempty"`
	FirewallPolicy       *string `json:"firewall_policy,omitempty"`
}

// StorageOverrides carries the storage fields a caller wants to change.
type StorageOverrides struct {
	Region *string `json:"region,omitempty"`
	SizeGB *int    `json:"size_gb,omitempty"`
	IOPS   *int    `json:"iops,omitempty"`

	VolumeType  *string `json:"volume_type,omitempty"`
	Encrypted   *bool   `json:"encrypted,omitempty"`
	DiskSKU     *string `json:"disk_sku,omitempty"`
	ManagedDisk *bool   `json:"managed_disk,omitempty"`
	DiskType    *string `json:"disk_type,omitempty"`
	AutoDelete  *bool   `json:"auto_delete,omitempty"`
	StoragePool *string `json:"storage_pool,omitempty"`
	RAIDLevel   *string `json:"raid_level,omitempty"`
}

// Overrides bundles the per-resource partial configs applied on top of a
// base specification or catalog entry.
type Overrides struct {
	// Region, when set, moves the whole family: top-level, network and
	// storage regions together.
	Region  *string           `json:"region,omitempty"`
	VM      *VMOverrides      `json:"vm,omitempty"`
	Network *NetworkOverrides `json:"network,omitempty"`
	Storage *StorageOverrides `json:"storage,omitempty"`
}

// IsZero reports whether no override field is set.
func (o Overrides) IsZero() bool {
	return o.Region == nil && o.VM == nil && o.Network == nil && o.Storage == nil
}

// TemplateMeta is the descriptive metadata attached to a stored template.
type TemplateMeta struct {
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
}

// TemplateSummary is the listing projection of a stored template.
type TemplateSummary struct {
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Provider  ProviderID `json:"provider"`
	VMClass   VMClass    `json:"vm_class"`
	Region    string     `json:"region"`
	VCPUs     int        `json:"vcpus"`
	MemoryGB  int        `json:"memory_gb"`
	StorageGB int        `json:"storage_gb"`
}

// CostBreakdown is a deterministic, simulated cost estimate for a
// specification. Values are USD.
type CostBreakdown struct {
	Currency         string  `json:"currency"`
	VMHourly         float64 `json:"vm_cost_hourly"`
	StorageHourly    float64 `json:"storage_cost_hourly"`
	NetworkHourly    float64 `json:"network_cost_hourly"`
	TotalHourly      float64 `json:"total_hourly"`
	EstimatedMonthly float64 `json:"estimated_monthly"`
}
