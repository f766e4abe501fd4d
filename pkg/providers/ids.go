package providers

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vmforge/vmforge/pkg/engine"
)

// IDGenerator produces resource identifiers. Factories hold a generator
// instead of counters so they stay stateless.
type IDGenerator interface {
	// NewID returns an identifier of the form <provider>-<kind>-<suffix>.
	NewID(provider engine.ProviderID, kind string) string
}

// UUIDGenerator derives the identifier suffix from a random UUID.
type UUIDGenerator struct{}

// NewID returns <provider>-<kind>-<8 hex chars>.
func (UUIDGenerator) NewID(provider engine.ProviderID, kind string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s", provider, kind, suffix)
}

// ID kind tokens. Storage keeps the provider's native vocabulary.
const (
	kindNetwork = "net"
	kindVM      = "vm"

	kindVolume   = "vol"  // aws
	kindDisk     = "disk" // azure, gcp
	kindStorPool = "stor" // onpremise
)
