package allocator

import (
	"fmt"
	"net"

	"github.com/assistantai/hub/internal/domain"
)

const (
	// DefaultSearchWindow bounds how many consecutive candidates are tried
	// before giving up with ErrPortExhausted.
	DefaultSearchWindow = 1000

	// maxPort is the highest usable TCP port.
	maxPort = 65535
)

// Allocator finds the lowest free port at or above a starting point. A port
// is free when it is neither claimed by an enabled registry entry nor bound
// by any OS-level listener. The second check matters because the registry can
// go stale relative to the machine: an unrelated process may have bound a
// port outside this system's knowledge, and handing that port out would
// collide at runtime.
//
// The allocator only reads the claim set; it never touches storage.
type Allocator struct {
	window int

	// bindProbe reports whether the OS will let us listen on the port.
	// Swapped out in tests.
	bindProbe func(port int) bool
}

// New creates an allocator with the default search window.
func New() *Allocator {
	return NewWithProbe(DefaultSearchWindow, portBindable)
}

// NewWithProbe creates an allocator with an explicit search window and
// availability probe. Used by tests to take the OS out of the loop.
func NewWithProbe(window int, probe func(port int) bool) *Allocator {
	if window <= 0 {
		window = DefaultSearchWindow
	}
	if probe == nil {
		probe = portBindable
	}
	return &Allocator{
		window:    window,
		bindProbe: probe,
	}
}

// Next returns the first port >= start that clears both the registry claim
// check and the OS bind probe. used holds the ports claimed by enabled
// entries; the caller is expected to hold the registry lock so the set
// cannot change under us.
func (a *Allocator) Next(start int, used map[int]bool) (int, error) {
	for i := 0; i < a.window; i++ {
		port := start + i
		if port > maxPort {
			break
		}
		if used[port] {
			continue
		}
		if !a.bindProbe(port) {
			continue
		}
		return port, nil
	}
	return 0, fmt.Errorf("%w: no free port in [%d, %d)",
		domain.ErrPortExhausted, start, start+a.window)
}

// portBindable attempts to open and immediately release a listener on the
// port. Listen returns without blocking, so no extra timeout is needed here.
func portBindable(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}
