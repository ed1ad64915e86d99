package service

import (
	"context"
	"time"

	"smiledesk/internal/constants"
	sderrors "smiledesk/internal/errors"
	"smiledesk/internal/models"
	"smiledesk/pkg/voice"

	"github.com/sirupsen/logrus"
)

// AnalyticsService assembles the practice dashboard summary and keeps the
// call log current from the voice provider.
type AnalyticsService struct {
	store    AnalyticsStore
	messages MessageStore
	voice    voice.Client
	logger   *logrus.Logger
}

// NewAnalyticsService wires the dashboard over the store. voiceClient may
// be nil when no provider is configured; call volume then reflects only
// what is already in the store.
func NewAnalyticsService(store AnalyticsStore, messages MessageStore, voiceClient voice.Client, logger *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{
		store:    store,
		messages: messages,
		voice:    voiceClient,
		logger:   logger,
	}
}

// Summary computes the dashboard counters over a trailing window of days.
func (s *AnalyticsService) Summary(ctx context.Context, windowDays int) (*models.AnalyticsSummary, error) {
	if windowDays <= 0 {
		windowDays = constants.DefaultAnalyticsDays
	}
	now := time.Now()
	since := now.AddDate(0, 0, -windowDays)

	s.refreshCalls(ctx, since)

	appointments, err := s.store.CountUpcomingAppointments(ctx, now)
	if err != nil {
		return nil, sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to count appointments")
	}
	tasks, err := s.store.CountOpenTasks(ctx)
	if err != nil {
		return nil, sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to count tasks")
	}
	calls, err := s.store.CountCallsSince(ctx, since)
	if err != nil {
		return nil, sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to count calls")
	}
	unreplied, err := s.messages.CountUnreplied(ctx)
	if err != nil {
		return nil, sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to count unreplied messages")
	}

	return &models.AnalyticsSummary{
		WindowDays:           windowDays,
		UpcomingAppointments: appointments,
		OpenTasks:            tasks,
		CallVolume:           calls,
		UnrepliedMessages:    unreplied,
	}, nil
}

// refreshCalls pulls recent call records into the store. Provider failures
// are logged and swallowed; the summary still serves from stored data.
func (s *AnalyticsService) refreshCalls(ctx context.Context, since time.Time) {
	if s.voice == nil {
		return
	}

	records, err := s.voice.ListCalls(ctx, since)
	if err != nil {
		s.logger.WithField("error", err).Warn("Failed to refresh call log from voice provider")
		return
	}

	for _, rec := range records {
		call := &models.CallLog{
			CallID:      rec.CallID,
			CallerID:    rec.CallerID,
			DurationSec: rec.DurationSec,
			StartedAt:   rec.StartedAt,
			Outcome:     rec.Outcome,
		}
		if err := s.store.UpsertCallLog(ctx, call); err != nil {
			s.logger.WithFields(logrus.Fields{
				"callId": rec.CallID,
				"error":  err,
			}).Warn("Failed to persist call record")
		}
	}
}

// CreateAppointment persists a new booking.
func (s *AnalyticsService) CreateAppointment(ctx context.Context, appt *models.Appointment) (*models.Appointment, error) {
	id, err := s.store.SaveAppointment(ctx, appt)
	if err != nil {
		return nil, sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to save appointment")
	}
	appt.ID = id
	return appt, nil
}

// ListAppointments returns upcoming bookings, soonest first.
func (s *AnalyticsService) ListAppointments(ctx context.Context, limit int) ([]models.Appointment, error) {
	if limit <= 0 {
		limit = constants.DefaultMessageQueryLimit
	}
	appointments, err := s.store.ListAppointments(ctx, limit)
	if err != nil {
		return nil, sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to list appointments")
	}
	return appointments, nil
}

// CreateTask persists a new staff to-do.
func (s *AnalyticsService) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	id, err := s.store.SaveTask(ctx, task)
	if err != nil {
		return nil, sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to save task")
	}
	task.ID = id
	return task, nil
}

// ListTasks returns recent tasks, newest first.
func (s *AnalyticsService) ListTasks(ctx context.Context, limit int) ([]models.Task, error) {
	if limit <= 0 {
		limit = constants.DefaultMessageQueryLimit
	}
	tasks, err := s.store.ListTasks(ctx, limit)
	if err != nil {
		return nil, sderrors.Wrap(err, sderrors.ErrCodeDatabaseQuery, "failed to list tasks")
	}
	return tasks, nil
}

// CompleteTask marks a task done.
func (s *AnalyticsService) CompleteTask(ctx context.Context, id int64) error {
	if err := s.store.SetTaskDone(ctx, id, true); err != nil {
		return sderrors.Wrap(err, sderrors.ErrCodeNotFound, "failed to complete task")
	}
	return nil
}
