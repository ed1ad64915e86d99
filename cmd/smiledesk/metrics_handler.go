package main

import (
	"net/http"

	"smiledesk/internal/metrics"
)

// handleMetrics exposes the in-process metrics registry as JSON.
func (s *Server) handleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondData(w, http.StatusOK, metrics.GetRegistry().Snapshot())
	}
}
