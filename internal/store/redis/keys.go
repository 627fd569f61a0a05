package redis

// Key layout for the stats mirror. Everything lives under hub:* so the DB
// can be shared with other tooling without collisions.
const (
	// KeyPrefixStats is the prefix for per-app stats hashes.
	KeyPrefixStats = "hub:stats:"
	// KeyAllApps is the set of app IDs that have ever been recorded.
	KeyAllApps = "hub:apps:all"
)

// StatsKey returns the Redis key for an app's stats hash.
func StatsKey(id string) string {
	return KeyPrefixStats + id
}

// AllAppsKey returns the key for the set of recorded app IDs.
func AllAppsKey() string {
	return KeyAllApps
}
