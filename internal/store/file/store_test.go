package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/assistantai/hub/internal/domain"
)

func TestLoad_MissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "does-not-exist.json"))

	state := store.Load()
	if state.BasePort != DefaultBasePort {
		t.Errorf("expected default base port %d, got %d", DefaultBasePort, state.BasePort)
	}
	if len(state.Apps) != 0 {
		t.Errorf("expected empty apps, got %d", len(state.Apps))
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	state := NewWithBase(path, 5000).Load()
	if state.BasePort != 5000 {
		t.Errorf("corrupt file should degrade to configured base 5000, got %d", state.BasePort)
	}
	if len(state.Apps) != 0 {
		t.Errorf("expected empty apps, got %d", len(state.Apps))
	}
}

func TestLoad_ExistingBasePortWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	if err := os.WriteFile(path, []byte(`{"basePort": 4300, "apps": []}`), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	state := NewWithBase(path, 9000).Load()
	if state.BasePort != 4300 {
		t.Errorf("file base port should win over configured default, got %d", state.BasePort)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "registry.json")
	store := New(path)

	state := &State{
		BasePort: 4200,
		Apps: []*domain.App{
			{
				ID:          "hub",
				Name:        "Hub",
				Type:        domain.TypeMiddleware,
				Port:        4200,
				Description: "the gateway",
				Enabled:     true,
				Status:      domain.StatusRunning,
				URL:         "http://localhost:4200",
			},
			{
				ID:      "mvp",
				Name:    "MVP",
				Type:    domain.TypeFrontend,
				Port:    4201,
				Enabled: false,
				Status:  domain.StatusStopped,
			},
		},
	}

	if err := store.Save(state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := store.Load()
	if loaded.BasePort != state.BasePort {
		t.Errorf("base port mismatch: got %d, want %d", loaded.BasePort, state.BasePort)
	}
	if len(loaded.Apps) != len(state.Apps) {
		t.Fatalf("app count mismatch: got %d, want %d", len(loaded.Apps), len(state.Apps))
	}
	for i, want := range state.Apps {
		got := loaded.Apps[i]
		if *got != *want {
			t.Errorf("app %d mismatch: got %+v, want %+v", i, got, want)
		}
	}
}

func TestSave_ParentNotADirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create blocker file: %v", err)
	}

	store := New(filepath.Join(blocker, "registry.json"))
	if err := store.Save(Default()); err == nil {
		t.Error("Save should fail when the parent path is a file")
	}
}
