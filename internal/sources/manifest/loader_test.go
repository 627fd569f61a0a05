package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apps.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeManifest(t, `
apps:
  - id: hub
    name: Hub
    type: middleware
    description: the gateway
  - id: mvp
    type: frontend
    enabled: false
`)

	config, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(config.Apps) != 2 {
		t.Fatalf("expected 2 apps, got %d", len(config.Apps))
	}

	hub := config.Apps[0]
	if hub.ID != "hub" || hub.Name != "Hub" || hub.Type != "middleware" || hub.Description != "the gateway" {
		t.Errorf("unexpected first entry: %+v", hub)
	}
	if hub.Enabled != nil {
		t.Error("omitted enabled should stay nil")
	}

	mvp := config.Apps[1]
	if mvp.Enabled == nil || *mvp.Enabled {
		t.Error("explicit enabled: false should be parsed")
	}
}

func TestLoader_MissingFile(t *testing.T) {
	if _, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load(); err == nil {
		t.Error("loading a missing manifest should fail")
	}
}

func TestLoader_InvalidYAML(t *testing.T) {
	path := writeManifest(t, "apps: [unclosed")
	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("loading invalid yaml should fail")
	}
}
