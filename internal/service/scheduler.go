package service

import (
	"context"
	"fmt"
	"time"

	"smiledesk/internal/constants"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the housekeeping jobs: nightly message retention cleanup
// and the scheduled-content publish sweep.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *logrus.Logger
}

func NewScheduler(logger *logrus.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, logger: logger}, nil
}

// AddCleanupJob schedules message retention cleanup on a cron expression.
func (s *Scheduler) AddCleanupJob(cronExpr string, store MessageStore, retentionDays int) error {
	if cronExpr == "" {
		cronExpr = constants.DefaultCleanupCron
	}
	if retentionDays <= 0 {
		retentionDays = constants.DefaultRetentionDays
	}

	_, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := store.CleanupOldMessages(ctx, retentionDays); err != nil {
				s.logger.WithField("error", err).Error("Message cleanup failed")
				return
			}
			s.logger.WithField("retention_days", retentionDays).Info("Message cleanup completed")
		}),
		gocron.WithName("message-cleanup"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}

	s.logger.WithField("cron", cronExpr).Info("Cleanup job scheduled")
	return nil
}

// AddContentPublishJob sweeps the scheduled-content queue every minute.
func (s *Scheduler) AddContentPublishJob(contentSvc *ContentService) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := contentSvc.PublishDue(ctx); err != nil {
				s.logger.WithField("error", err).Error("Content publish sweep failed")
			}
		}),
		gocron.WithName("content-publish"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule content publish job: %w", err)
	}
	return nil
}

// Start begins executing scheduled jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	return nil
}
