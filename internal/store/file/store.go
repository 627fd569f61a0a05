package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/assistantai/hub/internal/domain"
)

// DefaultBasePort is the start of the allocation range when the store is
// absent or unreadable.
const DefaultBasePort = 4200

// State is the persisted shape of the registry.
type State struct {
	BasePort int           `json:"basePort"`
	Apps     []*domain.App `json:"apps"`
}

// Default returns a fresh empty state.
func Default() *State {
	return &State{
		BasePort: DefaultBasePort,
		Apps:     []*domain.App{},
	}
}

func (s *Store) defaultState() *State {
	return &State{
		BasePort: s.defaultBase,
		Apps:     []*domain.App{},
	}
}

// Store persists the registry state as a JSON file. It is exclusively owned
// by the registry manager; nothing else reads or writes the file.
type Store struct {
	path        string
	defaultBase int
}

// New creates a store backed by the given file path.
func New(path string) *Store {
	return NewWithBase(path, DefaultBasePort)
}

// NewWithBase creates a store whose fallback state starts allocating at
// basePort instead of DefaultBasePort. An existing file's basePort always
// wins over this.
func NewWithBase(path string, basePort int) *Store {
	if basePort <= 0 {
		basePort = DefaultBasePort
	}
	return &Store{path: path, defaultBase: basePort}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted state. It never fails: a missing, unreadable or
// corrupt file degrades to the default state.
func (s *Store) Load() *State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return s.defaultState()
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return s.defaultState()
	}

	if state.BasePort <= 0 {
		state.BasePort = s.defaultBase
	}
	if state.Apps == nil {
		state.Apps = []*domain.App{}
	}
	return &state
}

// Save writes the full state, creating the parent directory if missing. The
// write goes through a temp file renamed into place so a crash mid-write
// can't leave a half-written registry behind. Unlike Load, failures here are
// surfaced to the caller.
func (s *Store) Save(state *State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create registry dir: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry state: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".registry-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp registry file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write registry state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp registry file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace registry file: %w", err)
	}
	return nil
}
