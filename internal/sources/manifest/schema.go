package manifest

// Config represents the top-level structure of apps.yaml, the declarative
// seed of applications to pre-register at startup.
type Config struct {
	Apps []AppSpec `yaml:"apps"`
}

// AppSpec is one declared application. Port is deliberately absent: ports
// are always assigned by the allocator, never declared.
type AppSpec struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name,omitempty"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
	Enabled     *bool  `yaml:"enabled,omitempty"` // nil = enabled
}
