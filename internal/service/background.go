package service

import (
	"context"
	"time"

	"smiledesk/internal/constants"
	"smiledesk/internal/models"

	"github.com/sirupsen/logrus"
)

// BackgroundSync serializes fire-and-forget sync requests through a single
// worker so a burst of read requests cannot stampede the Graph API. Kick
// never blocks the caller; when the queue is full the request is dropped,
// which is fine because a scheduled tick will cover the same ground.
type BackgroundSync struct {
	registry *Registry
	logger   *logrus.Logger
	requests chan models.Platform
}

func NewBackgroundSync(registry *Registry, logger *logrus.Logger) *BackgroundSync {
	return &BackgroundSync{
		registry: registry,
		logger:   logger,
		requests: make(chan models.Platform, 8),
	}
}

// Run drains the request queue until ctx is cancelled. Call in its own
// goroutine.
func (b *BackgroundSync) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case platform := <-b.requests:
			b.syncOne(ctx, platform)
		}
	}
}

// Kick enqueues a sync request for the platform and returns immediately.
func (b *BackgroundSync) Kick(platform models.Platform) {
	select {
	case b.requests <- platform:
	default:
		b.logger.WithField("platform", platform).Debug("Background sync queue full, dropping request")
	}
}

func (b *BackgroundSync) syncOne(ctx context.Context, platform models.Platform) {
	syncer, err := b.registry.Get(platform)
	if err != nil {
		b.logger.WithField("platform", platform).Warn("Background sync requested for unknown platform")
		return
	}
	if !syncer.Status().HasCredentials {
		return
	}

	syncCtx, cancel := context.WithTimeout(ctx, constants.DefaultSyncTickTimeoutSec*time.Second)
	defer cancel()

	if err := syncer.SyncOnce(syncCtx); err != nil {
		b.logger.WithFields(logrus.Fields{
			"platform": platform,
			"error":    err,
		}).Warn("Background sync failed")
	}
}
