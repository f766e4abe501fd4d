package stores

import (
	"time"

	"github.com/vmforge/vmforge/pkg/engine"
)

// FamilyRun is one recorded family construction attempt.
type FamilyRun struct {
	ID        string                  `json:"id"`
	Provider  engine.ProviderID       `json:"provider"`
	VMClass   engine.VMClass          `json:"vm_class"`
	Region    string                  `json:"region"`
	State     engine.RequestState     `json:"state"`
	Error     *string                 `json:"error,omitempty"`
	Resources []engine.ResourceRecord `json:"resources"`
	CreatedAt time.Time               `json:"created_at"`
}
