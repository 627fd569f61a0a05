package scheduler

import (
	"context"
	"time"

	"github.com/assistantai/hub/internal/domain"
	"github.com/assistantai/hub/internal/logger"
	"github.com/assistantai/hub/internal/registry"
	redisstore "github.com/assistantai/hub/internal/store/redis"
)

// LivenessMonitor periodically probes the ports of enabled apps and records
// what it observes: a running app that stops answering is marked stopped, a
// starting app that begins answering is confirmed running. Apps reported
// stopped are left alone; starting them is the supervisor's job.
type LivenessMonitor struct {
	registry     *registry.Manager
	stats        *redisstore.Store // nil when the stats mirror is disabled
	logger       logger.Logger
	interval     time.Duration
	probeTimeout time.Duration
	stopCh       chan struct{}
	sweepTrigger chan struct{}
}

// NewLivenessMonitor creates a new liveness monitor.
func NewLivenessMonitor(
	reg *registry.Manager,
	stats *redisstore.Store,
	log logger.Logger,
	interval time.Duration,
	probeTimeout time.Duration,
	sweepTrigger chan struct{},
) *LivenessMonitor {
	return &LivenessMonitor{
		registry:     reg,
		stats:        stats,
		logger:       log,
		interval:     interval,
		probeTimeout: probeTimeout,
		stopCh:       make(chan struct{}),
		sweepTrigger: sweepTrigger,
	}
}

// Start runs an immediate sweep and then sweeps on a ticker and on manual
// triggers.
func (lm *LivenessMonitor) Start(ctx context.Context) error {
	lm.Sweep(ctx)

	ticker := time.NewTicker(lm.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				lm.Sweep(ctx)
			case <-lm.sweepTrigger:
				lm.logger.Info("manual liveness sweep triggered")
				lm.Sweep(ctx)
			case <-lm.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the monitor.
func (lm *LivenessMonitor) Stop() {
	close(lm.stopCh)
}

// Sweep probes every enabled app that claims to be running or starting and
// reconciles the registry's status with what the network says.
func (lm *LivenessMonitor) Sweep(ctx context.Context) {
	apps := lm.registry.ListApps(true)

	probed, changed := 0, 0
	for _, app := range apps {
		if app.Status != domain.StatusRunning && app.Status != domain.StatusStarting {
			continue
		}

		alive := domain.IsAppReachable(ctx, app, lm.probeTimeout)
		probed++
		lm.recordProbe(ctx, app.ID, alive)

		switch {
		case app.Status == domain.StatusRunning && !alive:
			lm.logger.Warn("running app stopped answering, marking stopped",
				logger.String("app_id", app.ID),
				logger.Int("port", app.Port))
			if err := lm.registry.UpdateAppStatus(app.ID, domain.StatusStopped); err != nil {
				lm.logger.Error("failed to mark app stopped",
					logger.String("app_id", app.ID),
					logger.Error(err))
				continue
			}
			changed++

		case app.Status == domain.StatusStarting && alive:
			lm.logger.Info("starting app is listening, marking running",
				logger.String("app_id", app.ID),
				logger.Int("port", app.Port))
			if err := lm.registry.UpdateAppStatus(app.ID, domain.StatusRunning); err != nil {
				lm.logger.Error("failed to mark app running",
					logger.String("app_id", app.ID),
					logger.Error(err))
				continue
			}
			changed++
		}
	}

	if probed > 0 {
		lm.logger.Debug("liveness sweep completed",
			logger.Int("probed", probed),
			logger.Int("status_changes", changed))
	}
}

func (lm *LivenessMonitor) recordProbe(ctx context.Context, id string, alive bool) {
	if lm.stats == nil {
		return
	}
	if err := lm.stats.RecordProbe(ctx, id, alive); err != nil {
		lm.logger.Debug("failed to record probe in stats mirror",
			logger.String("app_id", id),
			logger.Error(err))
	}
}
