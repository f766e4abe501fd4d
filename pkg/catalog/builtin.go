package catalog

import "github.com/vmforge/vmforge/pkg/engine"

// Baseline images and identity defaults stamped into every builtin entry.
const (
	defaultKeyPair  = "default-key"
	awsDefaultAMI   = "ami-0c02fb55956c7d316" // Amazon Linux 2
	azureDefaultRG  = "rg-default"
	azureImage      = "UbuntuLTS"
	gcpProject      = "default-project"
	onPremHyperviso = "vmware"
)

// classStorageGB is the baseline disk size per vm class.
var classStorageGB = map[engine.VMClass]int{
	engine.VMClassStandard:         50,
	engine.VMClassMemoryOptimized:  100,
	engine.VMClassComputeOptimized: 30,
}

func classIOPS(class engine.VMClass) int {
	if class == engine.VMClassComputeOptimized {
		return 3000
	}
	return 1000
}

// flavor is one row of a provider's sizing table before expansion into a
// full catalog entry.
type flavor struct {
	tier     engine.SizeTier
	label    string // instance type, size, machine type, or onprem flavor
	vcpus    int
	memoryGB int
}

func baseVM(provider engine.ProviderID, class engine.VMClass, f flavor) engine.VMConfig {
	return engine.VMConfig{
		Provider:           provider,
		VCPUs:              f.vcpus,
		MemoryGB:           f.memoryGB,
		MemoryOptimization: class == engine.VMClassMemoryOptimized,
		DiskOptimization:   class == engine.VMClassComputeOptimized,
		KeyPairName:        defaultKeyPair,
	}
}

func baseNetwork() engine.NetworkConfig {
	return engine.NetworkConfig{
		FirewallRules: []string{"SSH", "HTTP", "HTTPS"},
		PublicIP:      true,
	}
}

func baseStorage(class engine.VMClass) engine.StorageConfig {
	return engine.StorageConfig{
		SizeGB: classStorageGB[class],
		IOPS:   classIOPS(class),
	}
}

func awsEntries(class engine.VMClass, flavors []flavor) []engine.CatalogEntry {
	out := make([]engine.CatalogEntry, 0, len(flavors))
	for _, f := range flavors {
		vm := baseVM(engine.ProviderAWS, class, f)
		vm.InstanceType = f.label
		vm.AMI = awsDefaultAMI

		network := baseNetwork()
		network.SecurityGroup = "sg-" + string(class)

		storage := baseStorage(class)
		storage.VolumeType = "gp2"
		if class == engine.VMClassComputeOptimized {
			storage.VolumeType = "gp3"
		}
		storage.Encrypted = true

		out = append(out, engine.CatalogEntry{
			Provider: engine.ProviderAWS,
			VMClass:  class,
			SizeTier: f.tier,
			VM:       vm,
			Network:  network,
			Storage:  storage,
		})
	}
	return out
}

func azureEntries(class engine.VMClass, flavors []flavor) []engine.CatalogEntry {
	out := make([]engine.CatalogEntry, 0, len(flavors))
	for _, f := range flavors {
		vm := baseVM(engine.ProviderAzure, class, f)
		vm.Size = f.label
		vm.ResourceGroup = azureDefaultRG
		vm.Image = azureImage

		network := baseNetwork()
		network.SubnetName = "subnet-" + string(class)
		network.NetworkSecurityGroup = "nsg-" + string(class)

		storage := baseStorage(class)
		storage.DiskSKU = "Standard_LRS"
		if class == engine.VMClassMemoryOptimized {
			storage.DiskSKU = "Premium_LRS"
		}
		storage.ManagedDisk = true

		out = append(out, engine.CatalogEntry{
			Provider: engine.ProviderAzure,
			VMClass:  class,
			SizeTier: f.tier,
			VM:       vm,
			Network:  network,
			Storage:  storage,
		})
	}
	return out
}

func gcpEntries(class engine.VMClass, flavors []flavor) []engine.CatalogEntry {
	out := make([]engine.CatalogEntry, 0, len(flavors))
	for _, f := range flavors {
		vm := baseVM(engine.ProviderGCP, class, f)
		vm.MachineType = f.label
		vm.Project = gcpProject

		network := baseNetwork()
		network.NetworkName = "default"
		network.FirewallTag = "allow-" + string(class)

		storage := baseStorage(class)
		storage.DiskType = "pd-standard"
		if class == engine.VMClassComputeOptimized {
			storage.DiskType = "pd-ssd"
		}
		storage.AutoDelete = true

		out = append(out, engine.CatalogEntry{
			Provider: engine.ProviderGCP,
			VMClass:  class,
			SizeTier: f.tier,
			VM:       vm,
			Network:  network,
			Storage:  storage,
		})
	}
	return out
}

func onPremiseEntries(class engine.VMClass, flavors []flavor) []engine.CatalogEntry {
	out := make([]engine.CatalogEntry, 0, len(flavors))
	for _, f := range flavors {
		vm := baseVM(engine.ProviderOnPremise, class, f)
		vm.Hypervisor = onPremHyperviso

		network := baseNetwork()
		network.PhysicalInterface = "eth0"
		network.VLANID = 100
		network.FirewallPolicy = "policy-" + string(class)

		storage := baseStorage(class)
		storage.StoragePool = "pool-" + string(class)
		storage.RAIDLevel = "raid1"

		out = append(out, engine.CatalogEntry{
			Provider: engine.ProviderOnPremise,
			VMClass:  class,
			SizeTier: f.tier,
			VM:       vm,
			Network:  network,
			Storage:  storage,
		})
	}
	return out
}

// BuiltinEntries returns the full default sizing table across all providers
// and classes.
func BuiltinEntries() []engine.CatalogEntry {
	var entries []engine.CatalogEntry

	entries = append(entries, awsEntries(engine.VMClassStandard, []flavor{
		{engine.SizeTierSmall, "t3.medium", 2, 4},
		{engine.SizeTierMedium, "m5.large", 2, 8},
		{engine.SizeTierLarge, "m5.xlarge", 4, 16},
	})...)
	entries = append(entries, awsEntries(engine.VMClassMemoryOptimized, []flavor{
		{engine.SizeTierSmall, "r5.large", 2, 16},
		{engine.SizeTierMedium, "r5.xlarge", 4, 32},
		{engine.SizeTierLarge, "r5.2xlarge", 8, 64},
	})...)
	entries = append(entries, awsEntries(engine.VMClassComputeOptimized, []flavor{
		{engine.SizeTierSmall, "c5.large", 2, 4},
		{engine.SizeTierMedium, "c5.xlarge", 4, 8},
		{engine.SizeTierLarge, "c5.2xlarge", 8, 16},
	})...)

	entries = append(entries, azureEntries(engine.VMClassStandard, []flavor{
		{engine.SizeTierSmall, "D2s_v3", 2, 8},
		{engine.SizeTierMedium, "D4s_v3", 4, 16},
		{engine.SizeTierLarge, "D8s_v3", 8, 32},
	})...)
	entries = append(entries, azureEntries(engine.VMClassMemoryOptimized, []flavor{
		{engine.SizeTierSmall, "E2s_v3", 2, 16},
		{engine.SizeTierMedium, "E4s_v3", 4, 32},
		{engine.SizeTierLarge, "E8s_v3", 8, 64},
	})...)
	entries = append(entries, azureEntries(engine.VMClassComputeOptimized, []flavor{
		{engine.SizeTierSmall, "F2s_v2", 2, 4},
		{engine.SizeTierMedium, "F4s_v2", 4, 8},
		{engine.SizeTierLarge, "F8s_v2", 8, 16},
	})...)

	entries = append(entries, gcpEntries(engine.VMClassStandard, []flavor{
		{engine.SizeTierSmall, "e2-standard-2", 2, 8},
		{engine.SizeTierMedium, "e2-standard-4", 4, 16},
		{engine.SizeTierLarge, "e2-standard-8", 8, 32},
	})...)
	entries = append(entries, gcpEntries(engine.VMClassMemoryOptimized, []flavor{
		{engine.SizeTierSmall, "n2-highmem-2", 2, 16},
		{engine.SizeTierMedium, "n2-highmem-4", 4, 32},
		{engine.SizeTierLarge, "n2-highmem-8", 8, 64},
	})...)
	entries = append(entries, gcpEntries(engine.VMClassComputeOptimized, []flavor{
		{engine.SizeTierSmall, "n2-highcpu-2", 2, 2},
		{engine.SizeTierMedium, "n2-highcpu-4", 4, 4},
		{engine.SizeTierLarge, "n2-highcpu-8", 8, 8},
	})...)

	entries = append(entries, onPremiseEntries(engine.VMClassStandard, []flavor{
		{engine.SizeTierSmall, "onprem-std1", 2, 4},
		{engine.SizeTierMedium, "onprem-std2", 4, 8},
		{engine.SizeTierLarge, "onprem-std3", 8, 16},
	})...)
	entries = append(entries, onPremiseEntries(engine.VMClassMemoryOptimized, []flavor{
		{engine.SizeTierSmall, "onprem-mem1", 2, 16},
		{engine.SizeTierMedium, "onprem-mem2", 4, 32},
		{engine.SizeTierLarge, "onprem-mem3", 8, 64},
	})...)
	entries = append(entries, onPremiseEntries(engine.VMClassComputeOptimized, []flavor{
		{engine.SizeTierSmall, "onprem-cpu1", 2, 2},
		{engine.SizeTierMedium, "onprem-cpu2", 4, 4},
		{engine.SizeTierLarge, "onprem-cpu3", 8, 8},
	})...)

	return entries
}

// BuiltinDefaults returns the default size tier per provider and class.
func BuiltinDefaults() map[engine.ProviderID]map[engine.VMClass]engine.SizeTier {
	return map[engine.ProviderID]map[engine.VMClass]engine.SizeTier{
		engine.ProviderAWS: {
			engine.VMClassStandard:         engine.SizeTierMedium,
			engine.VMClassMemoryOptimized:  engine.SizeTierSmall,
			engine.VMClassComputeOptimized: engine.SizeTierMedium,
		},
		engine.ProviderAzure: {
			engine.VMClassStandard:         engine.SizeTierSmall,
			engine.VMClassMemoryOptimized:  engine.SizeTierSmall,
			engine.VMClassComputeOptimized: engine.SizeTierMedium,
		},
		engine.ProviderGCP: {
			engine.VMClassStandard:         engine.SizeTierSmall,
			engine.VMClassMemoryOptimized:  engine.SizeTierSmall,
			engine.VMClassComputeOptimized: engine.SizeTierMedium,
		},
		engine.ProviderOnPremise: {
			engine.VMClassStandard:         engine.SizeTierMedium,
			engine.VMClassMemoryOptimized:  engine.SizeTierSmall,
			engine.VMClassComputeOptimized: engine.SizeTierMedium,
		},
	}
}

// BuiltinRegions returns the supported region list per provider.
func BuiltinRegions() map[engine.ProviderID][]string {
	return map[engine.ProviderID][]string{
		engine.ProviderAWS:       {"us-east-1", "us-west-2", "eu-west-1", "ap-southeast-1"},
		engine.ProviderAzure:     {"eastus", "westus2", "westeurope", "southeastasia"},
		engine.ProviderGCP:       {"us-central1", "us-west1", "europe-west1", "asia-southeast1"},
		engine.ProviderOnPremise: {"datacenter-1", "datacenter-2", "edge-location-1"},
	}
}

// Builtin returns the catalog loaded with the default sizing tables.
func Builtin() *Catalog {
	return New(BuiltinEntries(), BuiltinDefaults(), BuiltinRegions())
}
