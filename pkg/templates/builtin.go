package templates

import (
	"context"

	"github.com/vmforge/vmforge/pkg/engine"
)

// BuiltinTemplates returns the default template set covering the common
// workload shapes.
func BuiltinTemplates() map[string]StoredTemplate {
	const region = "us-east-1"
	const ami = "ami-0c02fb55956c7d316"

	return map[string]StoredTemplate{
		"web-server-standard": {
			Spec: engine.Specification{
				VMClass:  engine.VMClassStandard,
				Provider: engine.ProviderAWS,
				Region:   region,
				VM: engine.VMConfig{
					Provider:     engine.ProviderAWS,
					VCPUs:        2,
					MemoryGB:     4,
					InstanceType: "t3.medium",
					AMI:          ami,
					KeyPairName:  "web-server-key",
				},
				Network: engine.NetworkConfig{
					Region:        region,
					FirewallRules: []string{"HTTP", "HTTPS", "SSH"},
					PublicIP:      true,
				},
				Storage: engine.StorageConfig{
					Region:     region,
					SizeGB:     20,
					VolumeType: "gp3",
					IOPS:       3000,
				},
			},
			Meta: engine.TemplateMeta{
				Category:    "web-services",
				Description: "Standard web server with public networking and balanced storage",
				Tags: map[string]string{
					"purpose":     "web-server",
					"tier":        "frontend",
					"environment": "production",
				},
			},
		},
		"database-optimized": {
			Spec: engine.Specification{
				VMClass:  engine.VMClassMemoryOptimized,
				Provider: engine.ProviderAWS,
				Region:   region,
				VM: engine.VMConfig{
					Provider:           engine.ProviderAWS,
					VCPUs:              4,
					MemoryGB:           32,
					MemoryOptimization: true,
					InstanceType:       "r5.xlarge",
					AMI:                ami,
					KeyPairName:        "db-server-key",
				},
				Network: engine.NetworkConfig{
					Region:        region,
					FirewallRules: []string{"MySQL", "PostgreSQL", "SSH"},
					PublicIP:      false,
				},
				Storage: engine.StorageConfig{
					Region:     region,
					SizeGB:     100,
					VolumeType: "io2",
					IOPS:       10000,
					Encrypted:  true,
				},
			},
			Meta: engine.TemplateMeta{
				Category:    "databases",
				Description: "Memory-optimized database server with high-performance storage",
				Tags: map[string]string{
					"purpose":     "database",
					"tier":        "backend",
					"performance": "high",
				},
			},
		},
		"analytics-compute": {
			Spec: engine.Specification{
				VMClass:  engine.VMClassComputeOptimized,
				Provider: engine.ProviderAWS,
				Region:   region,
				VM: engine.VMConfig{
					Provider:         engine.ProviderAWS,
					VCPUs:            16,
					MemoryGB:         16,
					DiskOptimization: true,
					InstanceType:     "c5.4xlarge",
					AMI:              ami,
					KeyPairName:      "compute-key",
				},
				Network: engine.NetworkConfig{
					Region:        region,
					FirewallRules: []string{"SSH", "Custom-8080"},
					PublicIP:      true,
				},
				Storage: engine.StorageConfig{
					Region:     region,
					SizeGB:     200,
					VolumeType: "gp3",
					IOPS:       5000,
				},
			},
			Meta: engine.TemplateMeta{
				Category:    "analytics",
				Description: "Compute-optimized server for data processing workloads",
				Tags: map[string]string{
					"purpose":  "analytics",
					"workload": "compute-intensive",
					"scale":    "horizontal",
				},
			},
		},
	}
}

// RegisterBuiltins loads the default template set into the registry.
// Existing templates with the same names are replaced.
func RegisterBuiltins(ctx context.Context, r *Registry) error {
	for name, t := range BuiltinTemplates() {
		if err := r.Register(ctx, name, t.Spec, t.Meta); err != nil {
			return err
		}
	}
	return nil
}
