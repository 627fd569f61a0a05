package manifest

import (
	"github.com/assistantai/hub/internal/domain"
)

// Registration is a validated, normalized manifest entry ready to hand to
// the registry.
type Registration struct {
	ID          string
	Name        string
	Type        domain.AppType
	Description string
	Enabled     bool
}

// Mapper converts manifest specs into registrations.
type Mapper struct{}

// NewMapper creates a new mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map validates the declared apps and returns the usable ones. Entries with
// a missing id or an unknown type are skipped rather than failing the whole
// manifest; skipped returns how many were dropped.
func (m *Mapper) Map(config *Config) (regs []Registration, skipped int) {
	for _, spec := range config.Apps {
		if spec.ID == "" {
			skipped++
			continue
		}

		appType := domain.AppType(spec.Type)
		if !appType.Valid() {
			skipped++
			continue
		}

		name := spec.Name
		if name == "" {
			name = spec.ID
		}

		enabled := true
		if spec.Enabled != nil {
			enabled = *spec.Enabled
		}

		regs = append(regs, Registration{
			ID:          spec.ID,
			Name:        name,
			Type:        appType,
			Description: spec.Description,
			Enabled:     enabled,
		})
	}
	return regs, skipped
}
