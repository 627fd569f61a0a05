package registry

import (
	"fmt"
	"sync"

	"github.com/assistantai/hub/internal/allocator"
	"github.com/assistantai/hub/internal/domain"
	"github.com/assistantai/hub/internal/logger"
	"github.com/assistantai/hub/internal/store/file"
)

// Manager is the single owner of the app collection and its backing file.
// All mutations serialize on one mutex around read → mutate → persist, so two
// concurrent registrations can never both claim the same port or silently
// lose one another's write.
//
// The in-memory state, loaded once at construction, is the source of truth
// for the process's lifetime.
type Manager struct {
	mu    sync.Mutex
	store *file.Store
	alloc *allocator.Allocator
	log   logger.Logger
	state *file.State
}

// Patch carries the mutable fields of an app for merge-patch updates.
// Nil fields are left untouched. ID and port are deliberately absent:
// they are immutable and attempts to change them are ignored upstream.
type Patch struct {
	Name        *string
	Description *string
	Enabled     *bool
	Type        *domain.AppType
}

// NewManager loads the persisted state and wraps it with business rules.
func NewManager(store *file.Store, alloc *allocator.Allocator, log logger.Logger) *Manager {
	return &Manager{
		store: store,
		alloc: alloc,
		log:   log,
		state: store.Load(),
	}
}

// BasePort returns the start of the allocation range.
func (m *Manager) BasePort() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.BasePort
}

// Count returns the number of entries, enabled or not.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.Apps)
}

// RegisterApp assigns a port to a new app and persists the entry.
//
// Registration is idempotent: if an entry with the same id already exists
// (enabled or not), its existing port is returned and nothing is mutated.
// New entries start stopped and enabled.
func (m *Manager) RegisterApp(id, name string, appType domain.AppType, description string) (int, error) {
	if id == "" {
		return 0, &domain.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if !appType.Valid() {
		return 0, &domain.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", appType)}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing := m.findLocked(id); existing != nil {
		m.log.Debug("app already registered, returning existing port",
			logger.String("app_id", id),
			logger.Int("port", existing.Port))
		return existing.Port, nil
	}

	port, err := m.alloc.Next(m.state.BasePort, m.usedPortsLocked())
	if err != nil {
		return 0, err
	}

	app := &domain.App{
		ID:          id,
		Name:        name,
		Type:        appType,
		Port:        port,
		Description: description,
		Enabled:     true,
		Status:      domain.StatusStopped,
	}
	m.state.Apps = append(m.state.Apps, app)

	if err := m.store.Save(m.state); err != nil {
		// Roll the entry back so memory and disk stay consistent.
		m.state.Apps = m.state.Apps[:len(m.state.Apps)-1]
		return 0, fmt.Errorf("failed to persist registration of %q: %w", id, err)
	}

	m.log.Info("app registered",
		logger.String("app_id", id),
		logger.String("type", string(appType)),
		logger.Int("port", port))
	return port, nil
}

// GetPort returns the port assigned to id.
func (m *Manager) GetPort(id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	app := m.findLocked(id)
	if app == nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return app.Port, nil
}

// GetApp returns a copy of the entry for id.
func (m *Manager) GetApp(id string) (*domain.App, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	app := m.findLocked(id)
	if app == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return app.Clone(), nil
}

// ListApps returns entries in insertion order. With enabledOnly, disabled
// (soft-deleted) entries are filtered out.
func (m *Manager) ListApps(enabledOnly bool) []*domain.App {
	m.mu.Lock()
	defer m.mu.Unlock()

	apps := make([]*domain.App, 0, len(m.state.Apps))
	for _, app := range m.state.Apps {
		if enabledOnly && !app.Enabled {
			continue
		}
		apps = append(apps, app.Clone())
	}
	return apps
}

// UpdateAppStatus records a reported process state for id. Unknown ids are a
// silent no-op: a probe racing a removal is expected, not exceptional.
//
// The requested transition is accepted without checking the predecessor
// state; the registry's job is bookkeeping, not process control. While
// running, the derived URL is set; any other status clears it.
func (m *Manager) UpdateAppStatus(id string, status domain.Status) error {
	if !status.Valid() {
		return &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	app := m.findLocked(id)
	if app == nil {
		m.log.Debug("status update for unknown app discarded",
			logger.String("app_id", id),
			logger.String("status", string(status)))
		return nil
	}

	app.Status = status
	if status == domain.StatusRunning {
		app.URL = domain.URLFor(domain.ProbeHost, app.Port)
	} else {
		app.URL = ""
	}

	// Status is transient bookkeeping; persistence is best effort and a
	// failed write must not fail the status report itself.
	if err := m.store.Save(m.state); err != nil {
		m.log.Warn("failed to persist status update",
			logger.String("app_id", id),
			logger.Error(err))
	}
	return nil
}

// UpdateApp merge-patches the mutable fields of id. ID and port are
// immutable; callers sending them back see them silently not applied.
func (m *Manager) UpdateApp(id string, patch Patch) error {
	if patch.Type != nil && !patch.Type.Valid() {
		return &domain.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", *patch.Type)}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	app := m.findLocked(id)
	if app == nil {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	prev := *app
	if patch.Name != nil {
		app.Name = *patch.Name
	}
	if patch.Description != nil {
		app.Description = *patch.Description
	}
	if patch.Enabled != nil {
		app.Enabled = *patch.Enabled
	}
	if patch.Type != nil {
		app.Type = *patch.Type
	}

	if err := m.store.Save(m.state); err != nil {
		*app = prev
		return fmt.Errorf("failed to persist update of %q: %w", id, err)
	}
	return nil
}

// RemoveApp deletes the entry permanently. Removing an unknown id is a
// no-op, so removal is idempotent. Disabling via UpdateApp is the preferred
// soft delete; this is the hard one.
func (m *Manager) RemoveApp(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, app := range m.state.Apps {
		if app.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	removed := m.state.Apps[idx]
	m.state.Apps = append(m.state.Apps[:idx], m.state.Apps[idx+1:]...)

	if err := m.store.Save(m.state); err != nil {
		// Reinsert at the original position to keep memory and disk aligned.
		apps := make([]*domain.App, 0, len(m.state.Apps)+1)
		apps = append(apps, m.state.Apps[:idx]...)
		apps = append(apps, removed)
		apps = append(apps, m.state.Apps[idx:]...)
		m.state.Apps = apps
		return fmt.Errorf("failed to persist removal of %q: %w", id, err)
	}

	m.log.Info("app removed",
		logger.String("app_id", id),
		logger.Int("port", removed.Port))
	return nil
}

func (m *Manager) findLocked(id string) *domain.App {
	for _, app := range m.state.Apps {
		if app.ID == id {
			return app
		}
	}
	return nil
}

// usedPortsLocked returns the ports claimed by enabled entries. Disabled
// entries keep their port on the books but don't block allocation.
func (m *Manager) usedPortsLocked() map[int]bool {
	used := make(map[int]bool, len(m.state.Apps))
	for _, app := range m.state.Apps {
		if app.Enabled {
			used[app.Port] = true
		}
	}
	return used
}
