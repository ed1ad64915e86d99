package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"smiledesk/internal/constants"
	sderrors "smiledesk/internal/errors"
	"smiledesk/internal/middleware"
	"smiledesk/internal/models"
	"smiledesk/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Server struct {
	router    *mux.Router
	logger    *logrus.Logger
	cfg       *models.Config
	inbox     *service.InboxService
	registry  *service.Registry
	analytics *service.AnalyticsService
	content   *service.ContentService
	stream    *service.Stream
	validate  *validator.Validate
	server    *http.Server
}

func NewServer(
	cfg *models.Config,
	inbox *service.InboxService,
	registry *service.Registry,
	analytics *service.AnalyticsService,
	content *service.ContentService,
	stream *service.Stream,
	logger *logrus.Logger,
) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		logger:    logger,
		cfg:       cfg,
		inbox:     inbox,
		registry:  registry,
		analytics: analytics,
		content:   content,
		stream:    stream,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Observability(s.logger))

	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)

	webhook := s.router.PathPrefix("/webhook/{platform}").Subrouter()
	webhook.HandleFunc("", s.handleWebhookVerify()).Methods(http.MethodGet)
	webhook.HandleFunc("", s.handleWebhookEvent()).Methods(http.MethodPost)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/messages", s.handleListMessages()).Methods(http.MethodGet)
	api.HandleFunc("/messages", s.handleSendReply()).Methods(http.MethodPost)
	api.HandleFunc("/sync", s.handleSyncControl()).Methods(http.MethodPost)
	api.HandleFunc("/sync", s.handleSyncStatus()).Methods(http.MethodGet)
	api.HandleFunc("/content/generate", s.handleGenerateContent()).Methods(http.MethodPost)
	api.HandleFunc("/content", s.handleListContent()).Methods(http.MethodGet)
	api.HandleFunc("/analytics/summary", s.handleAnalyticsSummary()).Methods(http.MethodGet)
	api.HandleFunc("/appointments", s.handleCreateAppointment()).Methods(http.MethodPost)
	api.HandleFunc("/appointments", s.handleListAppointments()).Methods(http.MethodGet)
	api.HandleFunc("/tasks", s.handleCreateTask()).Methods(http.MethodPost)
	api.HandleFunc("/tasks", s.handleListTasks()).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id:[0-9]+}/complete", s.handleCompleteTask()).Methods(http.MethodPost)
	api.HandleFunc("/stream", s.handleStream()).Methods(http.MethodGet)
}

func (s *Server) Start() error {
	port := s.cfg.Server.Port
	if port == 0 {
		port = constants.DefaultServerPort
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  constants.DefaultServerReadTimeoutSec * time.Second,
		WriteTimeout: constants.DefaultServerWriteTimeoutSec * time.Second,
		IdleTimeout:  constants.DefaultServerIdleTimeoutSec * time.Second,
	}

	s.logger.Infof("Starting server on port %d", port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// respondData is the single success serialization boundary: every handler
// hands a typed payload here and gets the uniform envelope on the wire.
func (s *Server) respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.APIResponse{Success: true, Data: data}); err != nil {
		s.logger.WithField("error", err).Error("Failed to encode response")
	}
}

// respondError maps an error to its HTTP status and error envelope.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := sderrors.HTTPStatus(err)

	message := err.Error()
	var appErr *sderrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encErr := json.NewEncoder(w).Encode(models.APIResponse{
		Success: false,
		Error: &models.APIError{
			Code:    string(sderrors.GetCode(err)),
			Message: message,
		},
	})
	if encErr != nil {
		s.logger.WithField("error", encErr).Error("Failed to encode error response")
	}
}

// decodeJSON reads and validates a request body into dst.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return sderrors.Wrap(err, sderrors.ErrCodeInvalidInput, "invalid JSON body")
	}
	if err := s.validate.Struct(dst); err != nil {
		return sderrors.Wrap(err, sderrors.ErrCodeValidationFailed, "request validation failed")
	}
	return nil
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondData(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
