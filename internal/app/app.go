package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/assistantai/hub/internal/allocator"
	"github.com/assistantai/hub/internal/config"
	"github.com/assistantai/hub/internal/httpserver"
	"github.com/assistantai/hub/internal/httpserver/deps"
	"github.com/assistantai/hub/internal/logger"
	"github.com/assistantai/hub/internal/redis"
	"github.com/assistantai/hub/internal/registry"
	"github.com/assistantai/hub/internal/scheduler"
	"github.com/assistantai/hub/internal/store/file"
	redisstore "github.com/assistantai/hub/internal/store/redis"
	"github.com/assistantai/hub/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	registry    *registry.Manager
	monitor     *scheduler.LivenessMonitor
	reloader    *scheduler.ManifestReloader
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// The registry manager owns the persisted file exclusively; everything
	// else goes through it.
	store := file.NewWithBase(cfg.RegistryFile, cfg.BasePort)
	reg := registry.NewManager(store, allocator.New(), loggerClient)
	loggerClient.Info("registry loaded",
		logger.String("file", cfg.RegistryFile),
		logger.Int("base_port", reg.BasePort()),
		logger.Int("apps", reg.Count()))

	// Redis stats mirror is optional; the hub runs degraded without it.
	var redisClient *goredis.Client
	var stats *redisstore.Store
	if cfg.RedisAddr != "" {
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			loggerClient.Warn("redis unavailable, stats mirror disabled",
				logger.Error(err))
		} else {
			redisClient = client
			stats = redisstore.NewStore(client)
			loggerClient.Info("redis stats mirror enabled",
				logger.String("addr", cfg.RedisAddr))
		}
	} else {
		loggerClient.Info("redis not configured, stats mirror disabled")
	}

	// Manual trigger channels for /reload.
	sweepTrigger := make(chan struct{}, 1)

	monitor := scheduler.NewLivenessMonitor(
		reg,
		stats,
		loggerClient,
		cfg.SweepInterval,
		cfg.ProbeTimeout,
		sweepTrigger,
	)

	var reloader *scheduler.ManifestReloader
	var reloadTrigger chan struct{}
	if cfg.ManifestFile != "" {
		loggerClient.Info("manifest configured, initializing reloader",
			logger.String("file", cfg.ManifestFile))
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewManifestReloader(
			cfg.ManifestFile,
			reg,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("manifest not configured, declarative seeding disabled")
	}

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Registry:      reg,
		Stats:         stats,
		RedisClient:   redisClient,
		RegistryFile:  cfg.RegistryFile,
		ManifestFile:  cfg.ManifestFile,
		ProbeTimeout:  cfg.ProbeTimeout,
		ReloadTrigger: reloadTrigger,
		SweepTrigger:  sweepTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		registry:    reg,
		monitor:     monitor,
		reloader:    reloader,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting hub v%s on %s", version.Version, a.cfg.ListenAddr)
	a.logger.Infof("hub %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Apply the manifest first so the monitor sees seeded apps.
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start manifest reloader: %w", err)
		}
		a.logger.Info("manifest reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	if err := a.monitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start liveness monitor: %w", err)
	}
	a.logger.Info("liveness monitor started",
		logger.Duration("interval", a.cfg.SweepInterval),
		logger.Duration("probe_timeout", a.cfg.ProbeTimeout))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.monitor.Stop()
	if a.reloader != nil {
		a.reloader.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ hub stopped cleanly")
	return nil
}
