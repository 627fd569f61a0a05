package domain

import (
	"context"
	"fmt"
	"net"
	"time"
)

// ProbeHost is the address liveness probes dial. Managed apps bind locally.
const ProbeHost = "localhost"

// ProbePort checks whether something is accepting TCP connections on
// host:port. The dial is bounded by timeout; a timeout or refused connection
// is a normal negative result, not an exceptional condition.
func ProbePort(ctx context.Context, host string, port int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: -1, // one-shot probe, no keepalive
	}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, fmt.Sprintf("%d", port)))
	if err != nil {
		return fmt.Errorf("probe %s:%d: %w", host, port, err)
	}
	_ = conn.Close()
	return nil
}

// IsAppReachable reports whether the app's assigned port currently accepts
// connections. Nil apps are never reachable.
func IsAppReachable(ctx context.Context, app *App, timeout time.Duration) bool {
	if app == nil {
		return false
	}
	return ProbePort(ctx, ProbeHost, app.Port, timeout) == nil
}
