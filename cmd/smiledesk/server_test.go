package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"smiledesk/internal/database"
	"smiledesk/internal/models"
	"smiledesk/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource is an in-memory platform channel for handler tests.
type stubSource struct {
	creds   models.PlatformCredentials
	batch   []models.NormalizedMessage
	sentID  string
	fetches int
}

func (s *stubSource) Platform() models.Platform               { return models.PlatformFacebook }
func (s *stubSource) Credentials() models.PlatformCredentials { return s.creds }

func (s *stubSource) FetchMessages(ctx context.Context, limit int) ([]models.NormalizedMessage, error) {
	s.fetches++
	return s.batch, nil
}

func (s *stubSource) SendText(ctx context.Context, recipientID, text string) (string, error) {
	return s.sentID, nil
}

func (s *stubSource) MarkAsRead(ctx context.Context, senderID string) error { return nil }

type testEnv struct {
	server *Server
	db     *database.Database
	source *stubSource
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	source := &stubSource{
		creds: models.PlatformCredentials{
			AccessToken: "token",
			PageID:      "page-1",
			PageName:    "Bright Smiles Dental",
		},
		sentID: "mid.sent.1",
	}

	stream := service.NewStream()
	registry := service.NewRegistry()

	syncer := service.NewSyncer(models.PlatformFacebook, db, stream, logger)
	syncer.Initialize(source)
	registry.Register(syncer)
	registry.Register(service.NewSyncer(models.PlatformInstagram, db, stream, logger))
	t.Cleanup(registry.StopAll)

	sources := map[models.Platform]service.MessageSource{
		models.PlatformFacebook: source,
	}
	inbox := service.NewInboxService(sources, db, nil, stream, logger)
	analytics := service.NewAnalyticsService(db, db, nil, logger)
	contentSvc := service.NewContentService(db, nil, logger)

	cfg := &models.Config{}
	cfg.Server.VerifyToken = "secret-token"
	cfg.Facebook.SyncIntervalMs = 5000

	return &testEnv{
		server: NewServer(cfg, inbox, registry, analytics, contentSvc, stream, logger),
		db:     db,
		source: source,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.server.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookVerifyEchoesChallenge(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/webhook/facebook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=1234567890", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	// The challenge goes back verbatim, no envelope.
	assert.Equal(t, "1234567890", rec.Body.String())
}

func TestWebhookVerifyRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/webhook/facebook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=123", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "123")
}

func TestWebhookVerifyRejectsMissingMode(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/webhook/facebook?hub.verify_token=secret-token&hub.challenge=123", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookEventThenListMessages(t *testing.T) {
	env := newTestEnv(t)

	payload := models.WebhookPayload{
		Object: "page",
		Entry: []models.WebhookEntry{
			{
				ID: "page-1",
				Messaging: []models.MessagingEvent{
					{
						Sender:    models.WebhookParty{ID: "u1"},
						Recipient: models.WebhookParty{ID: "page-1"},
						Timestamp: 1754040600000,
						Message:   &models.WebhookMessage{MID: "mid.1", Text: "hello"},
					},
				},
			},
		},
	}

	rec := env.do(t, http.MethodPost, "/webhook/facebook", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/messages?platform=facebook", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ConversationsResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))

	assert.Equal(t, 1, resp.TotalMessages)
	require.Len(t, resp.Conversations, 1)
	conv := resp.Conversations[0]
	assert.Equal(t, "u1", conv.ConversationID)
	assert.Equal(t, 1, conv.UnreadCount)
	assert.False(t, conv.IsReplied)
	require.NotNil(t, conv.LastMessage)
	assert.Equal(t, "hello", conv.LastMessage.Text)
}

func TestListMessagesUnknownPlatform(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/messages?platform=myspace", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env2 := decodeEnvelope(t, rec)
	assert.False(t, env2.Success)
	require.NotNil(t, env2.Error)
	assert.Equal(t, "INVALID_INPUT", env2.Error.Code)
}

func TestSendReplyValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/messages", map[string]string{
		"platform": "facebook",
		// message and recipientId missing
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeEnvelope(t, rec).Error.Code)
}

func TestSendReplyMarksConversation(t *testing.T) {
	env := newTestEnv(t)

	inbound := &models.NormalizedMessage{
		MessageID:      "mid.in.1",
		ConversationID: "u1",
		Platform:       models.PlatformFacebook,
		SenderID:       "u1",
		SenderName:     "Alice",
		Text:           "hello",
		Timestamp:      100,
		PageID:         "page-1",
		RepliedBy:      models.RepliedByNone,
	}
	require.NoError(t, env.db.UpsertMessage(context.Background(), inbound))

	rec := env.do(t, http.MethodPost, "/api/messages", models.SendReplyRequest{
		Platform:    models.PlatformFacebook,
		RecipientID: "u1",
		Message:     "We are open Saturdays.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SendReplyResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
	assert.Equal(t, "mid.sent.1", resp.MessageID)

	rec = env.do(t, http.MethodGet, "/api/messages?platform=facebook", nil)
	var conversations models.ConversationsResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &conversations))
	require.Len(t, conversations.Conversations, 1)
	assert.Equal(t, 0, conversations.Conversations[0].UnreadCount)
	assert.True(t, conversations.Conversations[0].IsReplied)
}

func TestSyncStopWhenIdleIsNoOp(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/sync", models.SyncRequest{
		Platform: models.PlatformFacebook,
		Action:   models.SyncActionStop,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var status models.SyncStatus
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &status))
	assert.False(t, status.IsRunning)
}

func TestSyncStartStopViaAPI(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/sync", models.SyncRequest{
		Platform: models.PlatformFacebook,
		Action:   models.SyncActionStart,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var status models.SyncStatus
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &status))
	assert.True(t, status.IsRunning)

	// Second start fails while running.
	rec = env.do(t, http.MethodPost, "/api/sync", models.SyncRequest{
		Platform: models.PlatformFacebook,
		Action:   models.SyncActionStart,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/sync", models.SyncRequest{
		Platform: models.PlatformFacebook,
		Action:   models.SyncActionStop,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &status))
	assert.False(t, status.IsRunning)
}

func TestSyncOnDemand(t *testing.T) {
	env := newTestEnv(t)
	env.source.batch = []models.NormalizedMessage{
		{
			MessageID:      "mid.sync.1",
			ConversationID: "u1",
			Platform:       models.PlatformFacebook,
			SenderID:       "u1",
			SenderName:     "Alice",
			Text:           "synced",
			Timestamp:      100,
			PageID:         "page-1",
			RepliedBy:      models.RepliedByNone,
		},
	}

	rec := env.do(t, http.MethodPost, "/api/sync", models.SyncRequest{
		Platform: models.PlatformFacebook,
		Action:   models.SyncActionSync,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.source.fetches)

	got, err := env.db.GetMessage(context.Background(), models.PlatformFacebook, "mid.sync.1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSyncUnknownAction(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/sync", map[string]string{
		"platform": "facebook",
		"action":   "reboot",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentGenerateWithoutGenerator(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/content/generate", models.GenerateContentRequest{
		Platform: models.PlatformFacebook,
		Topic:    "teeth whitening",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "MISSING_CONFIG", decodeEnvelope(t, rec).Error.Code)
}

func TestAnalyticsSummaryEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/analytics/summary?days=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.AnalyticsSummary
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &summary))
	assert.Equal(t, 7, summary.WindowDays)
	assert.Equal(t, 0, summary.UnrepliedMessages)
}

func TestAppointmentAndTaskEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/appointments", map[string]any{
		"patientName": "Alice",
		"service":     "cleaning",
		"startsAt":    "2026-09-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "order supplies"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var task models.Task
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &task))

	rec = env.do(t, http.MethodPost, "/api/tasks/1/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/analytics/summary", nil)
	var summary models.AnalyticsSummary
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &summary))
	assert.Equal(t, 1, summary.UpcomingAppointments)
	assert.Equal(t, 0, summary.OpenTasks)
}

func TestSyncAllPlatformsWhenPlatformOmitted(t *testing.T) {
	env := newTestEnv(t)
	env.source.batch = []models.NormalizedMessage{
		{
			MessageID:      "mid.all.1",
			ConversationID: "u2",
			Platform:       models.PlatformFacebook,
			SenderID:       "u2",
			SenderName:     "Bob",
			Text:           "fanned out",
			Timestamp:      200,
			PageID:         "page-1",
			RepliedBy:      models.RepliedByNone,
		},
	}

	rec := env.do(t, http.MethodPost, "/api/sync", map[string]string{"action": "sync"})
	require.Equal(t, http.StatusOK, rec.Code)

	// One pass on the configured channel; the unconfigured one is skipped.
	assert.Equal(t, 1, env.source.fetches)

	var statuses []models.SyncStatus
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &statuses))
	assert.Len(t, statuses, 2)

	got, err := env.db.GetMessage(context.Background(), models.PlatformFacebook, "mid.all.1")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestSyncStartRequiresPlatform(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/sync", map[string]string{"action": "start"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeEnvelope(t, rec).Error.Code)
}
