package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	sderrors "smiledesk/internal/errors"
	"smiledesk/internal/models"

	"github.com/gorilla/mux"
)

// handleWebhookVerify answers Meta's subscription handshake. The challenge
// is echoed back as plain text only when the verify token matches; the
// body is the bare challenge, not the JSON envelope, because Meta compares
// it byte for byte.
func (s *Server) handleWebhookVerify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := r.URL.Query().Get("hub.mode")
		token := r.URL.Query().Get("hub.verify_token")
		challenge := r.URL.Query().Get("hub.challenge")

		if mode == "subscribe" && s.cfg.Server.VerifyToken != "" && token == s.cfg.Server.VerifyToken {
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write([]byte(challenge)); err != nil {
				s.logger.WithField("error", err).Error("Failed to write webhook challenge")
			}
			return
		}

		s.logger.WithFields(map[string]any{
			"platform": mux.Vars(r)["platform"],
			"mode":     mode,
		}).Warn("Webhook verification rejected")
		w.WriteHeader(http.StatusForbidden)
	}
}

func (s *Server) handleWebhookEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := models.Platform(mux.Vars(r)["platform"])
		if !platform.Valid() {
			s.respondError(w, sderrors.New(sderrors.ErrCodeInvalidInput, "unknown platform"))
			return
		}

		var payload models.WebhookPayload
		if err := s.decodeJSON(r, &payload); err != nil {
			s.respondError(w, err)
			return
		}

		stored, err := s.inbox.IngestWebhook(r.Context(), platform, &payload)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondData(w, http.StatusOK, map[string]int{"stored": stored})
	}
}

func (s *Server) handleListMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		platform := models.Platform(query.Get("platform"))
		if platform == "" {
			platform = models.PlatformFacebook
		}

		limit := 0
		if raw := query.Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				s.respondError(w, sderrors.New(sderrors.ErrCodeInvalidInput, "limit must be an integer"))
				return
			}
			limit = parsed
		}

		filter := models.MessageFilter{
			ConversationID: query.Get("conversationId"),
			UnrepliedOnly:  query.Get("unreplied") == "true",
		}
		if raw := query.Get("since"); raw != "" {
			since, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				s.respondError(w, sderrors.New(sderrors.ErrCodeInvalidInput, "since must be a millisecond timestamp"))
				return
			}
			filter.Since = since
		}

		result, err := s.inbox.ListConversations(r.Context(), platform, limit, filter)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondData(w, http.StatusOK, result)
	}
}

func (s *Server) handleSendReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SendReplyRequest
		if err := s.decodeJSON(r, &req); err != nil {
			s.respondError(w, err)
			return
		}
		if !req.Platform.Valid() {
			s.respondError(w, sderrors.New(sderrors.ErrCodeInvalidInput, "unknown platform"))
			return
		}

		result, err := s.inbox.SendReply(r.Context(), &req)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondData(w, http.StatusOK, result)
	}
}

// handleSyncControl dispatches start/stop/sync/status for one platform's
// sync loop. Stopping an idle loop and starting with an out-of-range
// interval are both absorbed rather than rejected; only starting an
// already-running loop is an error.
func (s *Server) handleSyncControl() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SyncRequest
		if err := s.decodeJSON(r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		// No platform with a sync action means every configured one.
		if req.Platform == "" && req.Action == models.SyncActionSync {
			if err := s.registry.SyncAll(r.Context()); err != nil {
				s.respondError(w, err)
				return
			}
			s.respondData(w, http.StatusOK, s.registry.Statuses())
			return
		}

		if !req.Platform.Valid() {
			s.respondError(w, sderrors.New(sderrors.ErrCodeInvalidInput, "unknown platform"))
			return
		}

		syncer, err := s.registry.Get(req.Platform)
		if err != nil {
			s.respondError(w, err)
			return
		}

		switch req.Action {
		case models.SyncActionStart:
			channel := s.channelConfig(req.Platform)
			// The loop must outlive this request.
			if err := syncer.Start(context.WithoutCancel(r.Context()), channel.SyncIntervalMs); err != nil {
				var appErr *sderrors.AppError
				if !errors.As(err, &appErr) {
					err = sderrors.Wrap(err, sderrors.ErrCodeInvalidInput, err.Error())
				}
				s.respondError(w, err)
				return
			}
		case models.SyncActionStop:
			syncer.Stop()
		case models.SyncActionSync:
			if err := syncer.SyncOnce(r.Context()); err != nil {
				s.respondError(w, err)
				return
			}
		case models.SyncActionStatus:
			// Status payload below covers it.
		default:
			s.respondError(w, sderrors.New(sderrors.ErrCodeInvalidInput, "unknown sync action"))
			return
		}

		s.respondData(w, http.StatusOK, syncer.Status())
	}
}

func (s *Server) handleSyncStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondData(w, http.StatusOK, s.registry.Statuses())
	}
}

func (s *Server) handleGenerateContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.GenerateContentRequest
		if err := s.decodeJSON(r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		post, err := s.content.Generate(r.Context(), &req)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondData(w, http.StatusCreated, post)
	}
}

func (s *Server) handleListContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		posts, err := s.content.List(r.Context(), limit)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, posts)
	}
}

func (s *Server) handleAnalyticsSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, _ := strconv.Atoi(r.URL.Query().Get("days"))
		summary, err := s.analytics.Summary(r.Context(), days)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, summary)
	}
}

func (s *Server) handleCreateAppointment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var appt models.Appointment
		if err := s.decodeJSON(r, &appt); err != nil {
			s.respondError(w, err)
			return
		}

		created, err := s.analytics.CreateAppointment(r.Context(), &appt)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusCreated, created)
	}
}

func (s *Server) handleListAppointments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		appointments, err := s.analytics.ListAppointments(r.Context(), limit)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, appointments)
	}
}

func (s *Server) handleCreateTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var task models.Task
		if err := s.decodeJSON(r, &task); err != nil {
			s.respondError(w, err)
			return
		}

		created, err := s.analytics.CreateTask(r.Context(), &task)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusCreated, created)
	}
}

func (s *Server) handleListTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		tasks, err := s.analytics.ListTasks(r.Context(), limit)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, tasks)
	}
}

func (s *Server) handleCompleteTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			s.respondError(w, sderrors.New(sderrors.ErrCodeInvalidInput, "task id must be numeric"))
			return
		}

		if err := s.analytics.CompleteTask(r.Context(), id); err != nil {
			s.respondError(w, err)
			return
		}
		s.respondData(w, http.StatusOK, map[string]any{"id": id, "done": true})
	}
}

// channelConfig returns the platform's channel settings from config.
func (s *Server) channelConfig(platform models.Platform) models.ChannelConfig {
	if platform == models.PlatformInstagram {
		return s.cfg.Instagram
	}
	return s.cfg.Facebook
}
