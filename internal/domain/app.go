package domain

import "fmt"

// AppType classifies a registered application within the ecosystem.
type AppType string

const (
	TypeBackend    AppType = "backend"
	TypeFrontend   AppType = "frontend"
	TypeMiddleware AppType = "middleware"
)

// Valid reports whether t is one of the known application types.
func (t AppType) Valid() bool {
	switch t {
	case TypeBackend, TypeFrontend, TypeMiddleware:
		return true
	}
	return false
}

// Status is the bookkeeping state of a registered application's process.
//
// Transitions are externally driven (start requests, probe results); the
// registry records whatever it is told and never validates the predecessor
// state. Process control lives with the supervisor, not here.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusStopped, StatusStarting, StatusRunning:
		return true
	}
	return false
}

// App represents one registered application and its port assignment.
//
// It is the canonical runtime truth of the registry: all inputs (HTTP
// registrations, manifest seeds, probe results) are merged into this
// structure.
type App struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the unique, stable identifier. It never changes once the
	// entry is created.
	ID string `json:"id"`

	// Port is the TCP port assigned at registration. Unique across all
	// enabled entries; immutable for the lifetime of the entry.
	Port int `json:"port"`

	// ─────────────────────────────
	// Descriptive (mutable)
	// ─────────────────────────────

	// Name is a human-readable label.
	Name string `json:"name"`

	// Type classifies the application: backend, frontend or middleware.
	Type AppType `json:"type"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Enabled marks the entry as active. Disabled entries are excluded
	// from port-collision checks and from default listings but stay in
	// storage (soft delete).
	Enabled bool `json:"enabled"`

	// ─────────────────────────────
	// Runtime (transient, best-effort persistence)
	// ─────────────────────────────

	// Status is the last reported process state.
	Status Status `json:"status"`

	// URL is derived; set only while Status is running.
	URL string `json:"url,omitempty"`
}

// Clone returns a copy of the entry so callers can't mutate registry state
// through a returned pointer.
func (a *App) Clone() *App {
	cp := *a
	return &cp
}

// URLFor builds the derived URL for an app listening on the given port.
func URLFor(host string, port int) string {
	return fmt.Sprintf("http://%s:%d", host, port)
}
