package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/assistantai/hub/internal/logger"
	"github.com/assistantai/hub/internal/registry"
	"github.com/assistantai/hub/internal/sources/manifest"
)

// ManifestReloader periodically re-reads the apps.yaml manifest and applies
// it to the registry. Registration is idempotent, so re-applying the same
// manifest is harmless; new entries get ports, existing ones keep theirs.
type ManifestReloader struct {
	loader        *manifest.Loader
	mapper        *manifest.Mapper
	registry      *registry.Manager
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewManifestReloader creates a new manifest reloader.
func NewManifestReloader(
	manifestFile string,
	reg *registry.Manager,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ManifestReloader {
	return &ManifestReloader{
		loader:        manifest.NewLoader(manifestFile),
		mapper:        manifest.NewMapper(),
		registry:      reg,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start applies the manifest once (failure here is fatal, a broken seed file
// should be fixed, not ignored) and then keeps it applied on a ticker and on
// manual triggers.
func (mr *ManifestReloader) Start(ctx context.Context) error {
	if err := mr.Reload(ctx); err != nil {
		return fmt.Errorf("initial manifest load failed: %w", err)
	}

	ticker := time.NewTicker(mr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := mr.Reload(ctx); err != nil {
					mr.logger.Error("manifest reload failed", logger.Error(err))
				}
			case <-mr.manualTrigger:
				mr.logger.Info("manual manifest reload triggered")
				if err := mr.Reload(ctx); err != nil {
					mr.logger.Error("manual manifest reload failed", logger.Error(err))
				}
			case <-mr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader.
func (mr *ManifestReloader) Stop() {
	close(mr.stopCh)
}

// Reload reads the manifest and registers every declared app. Entries the
// manifest marks disabled are patched to disabled after registration.
func (mr *ManifestReloader) Reload(ctx context.Context) error {
	config, err := mr.loader.Load()
	if err != nil {
		return err
	}

	regs, skipped := mr.mapper.Map(config)
	if skipped > 0 {
		mr.logger.Warn("manifest contains invalid entries",
			logger.Int("skipped", skipped))
	}

	registered := 0
	for _, reg := range regs {
		if _, err := mr.registry.RegisterApp(reg.ID, reg.Name, reg.Type, reg.Description); err != nil {
			mr.logger.Error("failed to register manifest app",
				logger.String("app_id", reg.ID),
				logger.Error(err))
			continue
		}
		registered++

		if !reg.Enabled {
			enabled := false
			if err := mr.registry.UpdateApp(reg.ID, registry.Patch{Enabled: &enabled}); err != nil {
				mr.logger.Warn("failed to disable manifest app",
					logger.String("app_id", reg.ID),
					logger.Error(err))
			}
		}
	}

	mr.logger.Info("manifest applied",
		logger.Int("declared", len(regs)),
		logger.Int("registered", registered))
	return nil
}
