package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/assistantai/hub/internal/domain"
)

// Store mirrors registry activity into Redis: registrations, status changes
// and liveness probe results per app. It is strictly observational; the
// registry file stays the source of truth, and every write here is best
// effort from the caller's point of view.
type Store struct {
	client *redis.Client
}

// NewStore creates a stats store over an established client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// RecordRegistration notes that an app was registered and on which port.
func (s *Store) RecordRegistration(ctx context.Context, id string, port int) error {
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, AllAppsKey(), id)
	pipe.HSetNX(ctx, StatsKey(id), "registered_at", time.Now().Format(time.RFC3339))
	pipe.HSet(ctx, StatsKey(id), "port", port)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record registration: %w", err)
	}
	return nil
}

// RecordStatus notes a reported status transition for an app.
func (s *Store) RecordStatus(ctx context.Context, id string, status domain.Status) error {
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, AllAppsKey(), id)
	pipe.HSet(ctx, StatsKey(id),
		"last_status", string(status),
		"last_status_at", time.Now().Format(time.RFC3339))
	pipe.HIncrBy(ctx, StatsKey(id), "status_changes", 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record status change: %w", err)
	}
	return nil
}

// RecordProbe notes one liveness probe result for an app.
func (s *Store) RecordProbe(ctx context.Context, id string, alive bool) error {
	result := "down"
	if alive {
		result = "up"
	}

	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, AllAppsKey(), id)
	pipe.HSet(ctx, StatsKey(id),
		"last_probe", result,
		"last_probe_at", time.Now().Format(time.RFC3339))
	pipe.HIncrBy(ctx, StatsKey(id), "probes_total", 1)
	if alive {
		pipe.HIncrBy(ctx, StatsKey(id), "probes_up", 1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record probe: %w", err)
	}
	return nil
}

// GetStats returns the recorded fields for one app. A never-seen app yields
// an empty map, not an error.
func (s *Store) GetStats(ctx context.Context, id string) (map[string]string, error) {
	stats, err := s.client.HGetAll(ctx, StatsKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

// KnownApps returns the IDs of all apps ever recorded.
func (s *Store) KnownApps(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, AllAppsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recorded apps: %w", err)
	}
	return ids, nil
}

// Forget drops all recorded stats for an app, typically after removal.
func (s *Store) Forget(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, StatsKey(id))
	pipe.SRem(ctx, AllAppsKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to forget app stats: %w", err)
	}
	return nil
}
