package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/assistantai/hub/internal/allocator"
	"github.com/assistantai/hub/internal/domain"
	"github.com/assistantai/hub/internal/httpserver/deps"
	"github.com/assistantai/hub/internal/httpserver/routes"
	"github.com/assistantai/hub/internal/logger"
	"github.com/assistantai/hub/internal/registry"
	"github.com/assistantai/hub/internal/store/file"
)

// newTestServer wires the real registry, allocator and routing stack against
// a temp-dir registry file. The allocator's bind probe is stubbed to always
// succeed so tests don't depend on which ports the host has free.
func newTestServer(t *testing.T, window int) (*httptest.Server, *registry.Manager) {
	t.Helper()

	store := file.New(filepath.Join(t.TempDir(), "registry.json"))
	alloc := allocator.NewWithProbe(window, func(int) bool { return true })
	reg := registry.NewManager(store, alloc, logger.Nop())

	d := deps.Deps{
		Logger:       logger.Nop(),
		StartTime:    time.Now(),
		Version:      "test",
		TimeNow:      time.Now,
		Registry:     reg,
		RegistryFile: store.Path(),
		ProbeTimeout: time.Second,
		SweepTrigger: make(chan struct{}, 1),
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, d)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, reg
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp, out.Bytes()
}

func register(t *testing.T, base, id, name, appType string) int {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, base+"/apps", map[string]string{
		"id":   id,
		"name": name,
		"type": appType,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", id, resp.StatusCode, body)
	}

	var out struct {
		Port int `json:"port"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("register %s: bad response %s: %v", id, body, err)
	}
	return out.Port
}

func TestAppLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, allocator.DefaultSearchWindow)
	base := srv.URL

	// Sequential registration hands out ports from the base upward.
	hubPort := register(t, base, "hub", "Hub", "middleware")
	if hubPort != file.DefaultBasePort {
		t.Errorf("first port = %d, want %d", hubPort, file.DefaultBasePort)
	}
	mvpPort := register(t, base, "mvp", "MVP", "frontend")
	if mvpPort != hubPort+1 {
		t.Errorf("second port = %d, want %d", mvpPort, hubPort+1)
	}

	// Re-registering is an "ensure registered", not an error.
	resp, body := doJSON(t, http.MethodPost, base+"/apps", map[string]string{
		"id": "hub", "name": "renamed", "type": "backend",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("re-register: status %d", resp.StatusCode)
	}
	var again struct {
		Port int `json:"port"`
	}
	if err := json.Unmarshal(body, &again); err != nil {
		t.Fatal(err)
	}
	if again.Port != hubPort {
		t.Errorf("re-register port = %d, want %d", again.Port, hubPort)
	}

	// ...and the existing entry is untouched.
	resp, body = doJSON(t, http.MethodGet, base+"/apps/hub", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status %d", resp.StatusCode)
	}
	var hub domain.App
	if err := json.Unmarshal(body, &hub); err != nil {
		t.Fatal(err)
	}
	if hub.Name != "Hub" || hub.Type != domain.TypeMiddleware {
		t.Errorf("re-register mutated the entry: %+v", hub)
	}
	if hub.Status != domain.StatusStopped || hub.URL != "" {
		t.Errorf("fresh app should be stopped with no url: %+v", hub)
	}

	// Status flip to running derives the url; flip back clears it.
	resp, _ = doJSON(t, http.MethodPost, base+"/apps/hub/status", map[string]string{"status": "running"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status update: %d", resp.StatusCode)
	}
	_, body = doJSON(t, http.MethodGet, base+"/apps/hub", nil)
	if err := json.Unmarshal(body, &hub); err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf("http://localhost:%d", hubPort)
	if hub.Status != domain.StatusRunning || hub.URL != want {
		t.Errorf("running app: status %q url %q, want running %q", hub.Status, hub.URL, want)
	}

	resp, _ = doJSON(t, http.MethodPost, base+"/apps/hub/status", map[string]string{"status": "stopped"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status update: %d", resp.StatusCode)
	}
	_, body = doJSON(t, http.MethodGet, base+"/apps/hub", nil)
	hub = domain.App{}
	if err := json.Unmarshal(body, &hub); err != nil {
		t.Fatal(err)
	}
	if hub.URL != "" {
		t.Errorf("stopped app should have no url, got %q", hub.URL)
	}

	// Listing preserves insertion order.
	_, body = doJSON(t, http.MethodGet, base+"/apps", nil)
	var apps []domain.App
	if err := json.Unmarshal(body, &apps); err != nil {
		t.Fatal(err)
	}
	if len(apps) != 2 || apps[0].ID != "hub" || apps[1].ID != "mvp" {
		t.Errorf("unexpected listing: %+v", apps)
	}

	// Disabling hides an app from the default listing but keeps its port.
	resp, _ = doJSON(t, http.MethodPatch, base+"/apps/mvp", map[string]interface{}{"enabled": false})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: %d", resp.StatusCode)
	}
	_, body = doJSON(t, http.MethodGet, base+"/apps", nil)
	if err := json.Unmarshal(body, &apps); err != nil {
		t.Fatal(err)
	}
	if len(apps) != 1 || apps[0].ID != "hub" {
		t.Errorf("disabled app should be hidden: %+v", apps)
	}
	_, body = doJSON(t, http.MethodGet, base+"/apps?all=true", nil)
	if err := json.Unmarshal(body, &apps); err != nil {
		t.Fatal(err)
	}
	if len(apps) != 2 {
		t.Errorf("?all=true should include disabled entries: %+v", apps)
	}

	// Removal frees the id; removing again is still 200.
	for i := 0; i < 2; i++ {
		resp, body = doJSON(t, http.MethodDelete, base+"/apps/mvp", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete #%d: status %d, body %s", i+1, resp.StatusCode, body)
		}
	}
	resp, _ = doJSON(t, http.MethodGet, base+"/apps/mvp", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("removed app should 404, got %d", resp.StatusCode)
	}
}

func TestErrorMapping(t *testing.T) {
	srv, _ := newTestServer(t, allocator.DefaultSearchWindow)
	base := srv.URL

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{
			name:   "missing id",
			method: http.MethodPost,
			path:   "/apps",
			body:   map[string]string{"name": "x", "type": "backend"},
			status: http.StatusBadRequest,
		},
		{
			name:   "bad type",
			method: http.MethodPost,
			path:   "/apps",
			body:   map[string]string{"id": "x", "name": "x", "type": "database"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown app",
			method: http.MethodGet,
			path:   "/apps/ghost",
			status: http.StatusNotFound,
		},
		{
			name:   "unknown app port",
			method: http.MethodGet,
			path:   "/apps/ghost/port",
			status: http.StatusNotFound,
		},
		{
			name:   "patch unknown app",
			method: http.MethodPatch,
			path:   "/apps/ghost",
			body:   map[string]interface{}{"enabled": false},
			status: http.StatusNotFound,
		},
		{
			name:   "invalid status value",
			method: http.MethodPost,
			path:   "/apps/ghost/status",
			body:   map[string]string{"status": "crashed"},
			status: http.StatusBadRequest,
		},
		{
			name:   "status for unknown app is accepted",
			method: http.MethodPost,
			path:   "/apps/ghost/status",
			body:   map[string]string{"status": "running"},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, tt.method, base+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.status, body)
			}
		})
	}
}

func TestPortExhaustion(t *testing.T) {
	// A two-slot search window fills after two registrations.
	srv, _ := newTestServer(t, 2)
	base := srv.URL

	register(t, base, "a", "A", "backend")
	register(t, base, "b", "B", "backend")

	resp, body := doJSON(t, http.MethodPost, base+"/apps", map[string]string{
		"id": "c", "name": "C", "type": "backend",
	})
	if resp.StatusCode != http.StatusInsufficientStorage {
		t.Errorf("exhausted registration: status %d, want 507 (body %s)", resp.StatusCode, body)
	}
}

func TestImmutableFieldsIgnoredOnPatch(t *testing.T) {
	srv, _ := newTestServer(t, allocator.DefaultSearchWindow)
	base := srv.URL

	port := register(t, base, "api", "API", "backend")

	resp, body := doJSON(t, http.MethodPatch, base+"/apps/api", map[string]interface{}{
		"id":          "hacked",
		"port":        1,
		"description": "patched",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: status %d, body %s", resp.StatusCode, body)
	}

	var app domain.App
	if err := json.Unmarshal(body, &app); err != nil {
		t.Fatal(err)
	}
	if app.ID != "api" || app.Port != port {
		t.Errorf("id/port must survive a patch unchanged: %+v", app)
	}
	if app.Description != "patched" {
		t.Errorf("description not patched: %+v", app)
	}
}

func TestRegistryPersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")

	build := func() (*httptest.Server, func()) {
		store := file.New(path)
		alloc := allocator.NewWithProbe(allocator.DefaultSearchWindow, func(int) bool { return true })
		reg := registry.NewManager(store, alloc, logger.Nop())

		r := chi.NewRouter()
		routes.RegisterAll(r, deps.Deps{
			Logger:       logger.Nop(),
			StartTime:    time.Now(),
			TimeNow:      time.Now,
			Registry:     reg,
			RegistryFile: path,
			ProbeTimeout: time.Second,
			SweepTrigger: make(chan struct{}, 1),
		})
		srv := httptest.NewServer(r)
		return srv, srv.Close
	}

	srv, stop := build()
	port := register(t, srv.URL, "hub", "Hub", "middleware")
	stop()

	srv, stop = build()
	defer stop()

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/apps/hub/port", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("port lookup after restart: status %d", resp.StatusCode)
	}
	var out struct {
		Port int `json:"port"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if out.Port != port {
		t.Errorf("port after restart = %d, want %d", out.Port, port)
	}
}
