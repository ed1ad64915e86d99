package main

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// handleStream upgrades to a websocket and pushes every newly persisted
// message to the client as JSON. Slow clients miss events rather than
// backing up the pipeline; reconnecting clients catch up via
// GET /api/messages.
func (s *Server) handleStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			s.logger.WithField("error", err).Warn("Websocket upgrade failed")
			return
		}
		defer conn.Close(websocket.StatusInternalError, "stream closed")

		events, cancel := s.stream.Subscribe()
		defer cancel()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "server shutting down")
				return
			case msg, ok := <-events:
				if !ok {
					conn.Close(websocket.StatusNormalClosure, "stream closed")
					return
				}

				writeCtx, cancelWrite := context.WithTimeout(ctx, 10*time.Second)
				err := wsjson.Write(writeCtx, conn, msg)
				cancelWrite()
				if err != nil {
					s.logger.WithField("error", err).Debug("Websocket client dropped")
					return
				}
			}
		}
	}
}
