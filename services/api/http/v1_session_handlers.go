package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/parkmap/services/api/engine"
)

const sessionCallTimeout = 10 * time.Second

type queryRequest struct {
	Query *string `json:"query"`
}

type selectRequest struct {
	LocationID *int   `json:"location_id"`
	Origin     string `json:"origin"`
}

type hoverRequest struct {
	LocationID *int `json:"location_id"`
	Hovered    bool `json:"hovered"`
}

func (s *Server) lookupSession(c *gin.Context) (*engine.Session, bool) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		writeSessionError(c, err)
		return nil, false
	}
	return sess, true
}

func writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrSessionNotFound), errors.Is(err, engine.ErrLoopStopped):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, engine.ErrUnknownLocation):
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session busy"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// handleV1CreateSession starts a map session and returns its initial state
// POST /api/v1/sessions
func (s *Server) handleV1CreateSession(c *gin.Context) {
	sess := s.sessions.Create()

	ctx, cancel := context.WithTimeout(c.Request.Context(), sessionCallTimeout)
	defer cancel()

	snap, err := sess.Snapshot(ctx)
	if err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": snap})
}

// handleV1DeleteSession stops a session
// DELETE /api/v1/sessions/:id
func (s *Server) handleV1DeleteSession(c *gin.Context) {
	if err := s.sessions.Remove(c.Param("id")); err != nil {
		writeSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleV1SessionState returns the full session state
// GET /api/v1/sessions/:id/state
func (s *Server) handleV1SessionState(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sessionCallTimeout)
	defer cancel()

	snap, err := sess.Snapshot(ctx)
	if err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// handleV1SetQuery updates the search text
// PUT /api/v1/sessions/:id/query
func (s *Server) handleV1SetQuery(c *gin.Context) {
	var body queryRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Query == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sessionCallTimeout)
	defer cancel()

	snap, err := sess.SetQuery(ctx, *body.Query)
	if err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"query":      snap.Query,
			"visibility": snap.Visibility,
			"list":       snap.List,
		},
		"meta": gin.H{
			"visible": snap.Visibility.Count(),
			"total":   len(snap.Visibility),
		},
	})
}

// handleV1Select selects a location from the list or a marker
// POST /api/v1/sessions/:id/select
func (s *Server) handleV1Select(c *gin.Context) {
	var body selectRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.LocationID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location_id is required"})
		return
	}

	origin := engine.OriginMarker
	switch body.Origin {
	case "", string(engine.OriginMarker):
	case string(engine.OriginList):
		origin = engine.OriginList
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin must be list or marker"})
		return
	}

	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sessionCallTimeout)
	defer cancel()

	req, err := sess.Select(ctx, *body.LocationID, origin)
	if err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"data": req})
}

// handleV1ClosePanel closes the detail panel
// POST /api/v1/sessions/:id/close
func (s *Server) handleV1ClosePanel(c *gin.Context) {
	s.closeWith(c, (*engine.Session).ClosePanel)
}

// handleV1MapClick handles a click on the map background
// POST /api/v1/sessions/:id/map-click
func (s *Server) handleV1MapClick(c *gin.Context) {
	s.closeWith(c, (*engine.Session).MapClick)
}

func (s *Server) closeWith(c *gin.Context, fn func(*engine.Session, context.Context) error) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sessionCallTimeout)
	defer cancel()

	if err := fn(sess, ctx); err != nil {
		writeSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleV1Hover toggles the hover icon of a marker
// POST /api/v1/sessions/:id/hover
func (s *Server) handleV1Hover(c *gin.Context) {
	var body hoverRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.LocationID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location_id is required"})
		return
	}

	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sessionCallTimeout)
	defer cancel()

	if err := sess.Hover(ctx, *body.LocationID, body.Hovered); err != nil {
		writeSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
