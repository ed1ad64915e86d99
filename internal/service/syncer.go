package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"smiledesk/internal/constants"
	sderrors "smiledesk/internal/errors"
	"smiledesk/internal/models"
	"smiledesk/pkg/facebook"
	"smiledesk/pkg/instagram"

	"github.com/sirupsen/logrus"
)

// Syncer periodically pulls a platform's conversations into the store.
// One Syncer serves one platform. It starts out without a source; until
// Initialize provides one, Start and SyncOnce fail with a config error.
type Syncer struct {
	platform models.Platform
	store    MessageStore
	stream   Publisher
	logger   *logrus.Logger

	mu         sync.RWMutex
	source     MessageSource
	running    bool
	intervalMs int
	lastSyncAt *time.Time
	lastError  string
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewSyncer creates a syncer for one platform. stream may be nil.
func NewSyncer(platform models.Platform, store MessageStore, stream Publisher, logger *logrus.Logger) *Syncer {
	return &Syncer{
		platform:   platform,
		store:      store,
		stream:     stream,
		logger:     logger,
		intervalMs: constants.DefaultSyncIntervalMs,
	}
}

// Initialize installs or replaces the platform source. Calling it again
// swaps credentials in place; a running sync loop picks up the new source
// on its next tick.
func (s *Syncer) Initialize(source MessageSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
}

// Start begins the background sync loop. Starting an already-running
// syncer is an error so callers cannot stack loops. Intervals below the
// floor are clamped, and a non-positive interval falls back to the
// default.
func (s *Syncer) Start(ctx context.Context, intervalMs int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("%s syncer is already running", s.platform)
	}
	if s.source == nil {
		return sderrors.New(sderrors.ErrCodeMissingConfig, fmt.Sprintf("%s syncer has no credentials configured", s.platform))
	}

	if intervalMs <= 0 {
		intervalMs = constants.DefaultSyncIntervalMs
	}
	if intervalMs < constants.MinSyncIntervalMs {
		intervalMs = constants.MinSyncIntervalMs
	}
	s.intervalMs = intervalMs

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.syncLoop(loopCtx, time.Duration(intervalMs)*time.Millisecond, s.done)

	s.logger.WithFields(logrus.Fields{
		"platform":    s.platform,
		"interval_ms": intervalMs,
	}).Info("Sync loop started")

	return nil
}

// Stop halts the background loop and waits for the in-flight tick to
// finish. Stopping a syncer that is not running is a no-op.
func (s *Syncer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.running = false
	s.mu.Unlock()

	// Wait outside the lock; the in-flight tick needs it to record
	// its result before the loop goroutine can exit.
	cancel()
	<-done
	s.logger.WithField("platform", s.platform).Info("Sync loop stopped")
}

// IsRunning reports whether the background loop is active.
func (s *Syncer) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Status returns a snapshot of the syncer's state.
func (s *Syncer) Status() models.SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := models.SyncStatus{
		Platform:       s.platform,
		IsRunning:      s.running,
		HasCredentials: s.source != nil,
		IntervalMs:     s.intervalMs,
		LastError:      s.lastError,
	}
	if s.lastSyncAt != nil {
		at := *s.lastSyncAt
		status.LastSyncAt = &at
	}
	return status
}

// SyncOnce performs a single synchronous pull. A fetch failure aborts the
// whole pass; a persistence failure aborts mid-batch, leaving the rows
// already written in place for the next pass to reconcile.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	s.mu.RLock()
	source := s.source
	s.mu.RUnlock()

	if source == nil {
		return sderrors.New(sderrors.ErrCodeMissingConfig, fmt.Sprintf("%s syncer has no credentials configured", s.platform))
	}

	err := s.syncPass(ctx, source)

	now := time.Now()
	s.mu.Lock()
	s.lastSyncAt = &now
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	return err
}

func (s *Syncer) syncPass(ctx context.Context, source MessageSource) error {
	messages, err := source.FetchMessages(ctx, constants.DefaultSyncLimit)
	if err != nil {
		return sderrors.Wrap(err, classifyRemoteError(err), fmt.Sprintf("failed to fetch %s conversations", s.platform))
	}

	for i := range messages {
		if err := s.store.UpsertMessage(ctx, &messages[i]); err != nil {
			return sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, fmt.Sprintf("failed to persist %s message", s.platform))
		}
		if s.stream != nil {
			s.stream.Publish(messages[i])
		}
	}

	s.logger.WithFields(logrus.Fields{
		"platform": s.platform,
		"messages": len(messages),
	}).Debug("Sync pass completed")

	return nil
}

// classifyRemoteError distinguishes credential failures from other Graph
// API errors so handlers can surface the difference.
func classifyRemoteError(err error) sderrors.ErrorCode {
	var fbErr *facebook.APIError
	if errors.As(err, &fbErr) && fbErr.IsAuthError() {
		return sderrors.ErrCodeRemoteAuth
	}
	var igErr *instagram.APIError
	if errors.As(err, &igErr) && igErr.IsAuthError() {
		return sderrors.ErrCodeRemoteAuth
	}
	return sderrors.ErrCodeRemoteAPI
}

func (s *Syncer) syncLoop(loopCtx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-loopCtx.Done():
			return
		case <-ticker.C:
			s.tick(loopCtx)
		}
	}
}

func (s *Syncer) tick(loopCtx context.Context) {
	ctx, cancel := context.WithTimeout(loopCtx, constants.DefaultSyncTickTimeoutSec*time.Second)
	defer cancel()

	if err := s.SyncOnce(ctx); err != nil {
		s.logger.WithFields(logrus.Fields{
			"platform": s.platform,
			"error":    err,
		}).Warn("Scheduled sync failed")
	}
}
