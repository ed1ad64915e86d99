package service

import (
	"context"
	"fmt"
	"sync"

	sderrors "smiledesk/internal/errors"
	"smiledesk/internal/models"

	"golang.org/x/sync/errgroup"
)

// Registry holds the per-platform syncers and routes control operations to
// them.
type Registry struct {
	mu      sync.RWMutex
	syncers map[models.Platform]*Syncer
}

func NewRegistry() *Registry {
	return &Registry{
		syncers: make(map[models.Platform]*Syncer),
	}
}

// Register installs the syncer for its platform, replacing any previous
// one.
func (r *Registry) Register(syncer *Syncer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncers[syncer.platform] = syncer
}

// Get returns the syncer for a platform.
func (r *Registry) Get(platform models.Platform) (*Syncer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	syncer, ok := r.syncers[platform]
	if !ok {
		return nil, sderrors.New(sderrors.ErrCodeNotFound, fmt.Sprintf("no syncer registered for platform %q", platform))
	}
	return syncer, nil
}

// Platforms lists the registered platforms.
func (r *Registry) Platforms() []models.Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]models.Platform, 0, len(r.syncers))
	for p := range r.syncers {
		platforms = append(platforms, p)
	}
	return platforms
}

// SyncAll runs one sync pass on every registered platform concurrently and
// returns the first failure. Platforms without credentials are skipped.
func (r *Registry) SyncAll(ctx context.Context) error {
	r.mu.RLock()
	syncers := make([]*Syncer, 0, len(r.syncers))
	for _, s := range r.syncers {
		syncers = append(syncers, s)
	}
	r.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, syncer := range syncers {
		syncer := syncer
		if !syncer.Status().HasCredentials {
			continue
		}
		g.Go(func() error {
			return syncer.SyncOnce(gctx)
		})
	}
	return g.Wait()
}

// Statuses returns a snapshot per registered platform.
func (r *Registry) Statuses() []models.SyncStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]models.SyncStatus, 0, len(r.syncers))
	for _, syncer := range r.syncers {
		statuses = append(statuses, syncer.Status())
	}
	return statuses
}

// StopAll stops every running sync loop. Used during shutdown.
func (r *Registry) StopAll() {
	r.mu.RLock()
	syncers := make([]*Syncer, 0, len(r.syncers))
	for _, s := range r.syncers {
		syncers = append(syncers, s)
	}
	r.mu.RUnlock()

	for _, syncer := range syncers {
		syncer.Stop()
	}
}
