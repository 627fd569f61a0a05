package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/assistantai/hub/internal/logger"
	"github.com/assistantai/hub/internal/registry"
	redisstore "github.com/assistantai/hub/internal/store/redis"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time  // for testing, defaults to time.Now
	AllowedHosts  []string          // Host headers allowed to access the server
	AllowedCIDRS  []string          // IPs allowed to access mutating endpoints
	TrustProxy    bool              // true if running behind a trusted reverse proxy
	Registry      *registry.Manager // the app/port registry (single owner of state)
	Stats         *redisstore.Store // stats mirror, nil when Redis is disabled
	RedisClient   *redis.Client     // nil when the stats mirror is disabled
	RegistryFile  string            // path of the persisted registry, for /infra
	ManifestFile  string            // path of apps.yaml, empty = no manifest
	ProbeTimeout  time.Duration     // bound on liveness probes
	ReloadTrigger chan struct{}     // manual manifest re-read (nil if no manifest)
	SweepTrigger  chan struct{}     // manual liveness sweep
}
