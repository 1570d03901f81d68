package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/02loveslollipop/parkmap/services/api/logger"
)

const (
	streamBuffer      = 100
	keepaliveInterval = 30 * time.Second
)

// handleV1SessionEvents streams visibility, effect and panel events for a session
// GET /api/v1/realtime/sessions/:id/events
func (s *Server) handleV1SessionEvents(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sessionCallTimeout)
	snap, events, stop, err := sess.Attach(ctx, streamBuffer)
	cancel()
	if err != nil {
		writeSessionError(c, err)
		return
	}
	defer stop()

	clientID := uuid.NewString()
	log := logger.L().With("session_id", sess.ID(), "client_id", clientID)
	log.Info("stream_connected")
	defer log.Info("stream_disconnected")

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.SSEvent("snapshot", snap)
	c.Writer.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-sess.Done():
			log.Info("stream_session_closed")
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(ev.Type, ev.Data)
			return true
		case <-keepalive.C:
			s.sessions.Touch(sess.ID())
			c.SSEvent("keepalive", gin.H{"ts": time.Now().UTC().Format(time.RFC3339)})
			return true
		}
	})
}
