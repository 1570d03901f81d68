package http

// registerV1Routes sets up the v1 API structure
// Groups: /api/v1/core, /api/v1/sessions, /api/v1/realtime
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware()) // Add X-API-Version: v1 header

	// Core endpoints - the static location list
	core := v1.Group("/core")
	{
		core.GET("/locations", s.handleV1ListLocations)
		core.GET("/locations.geojson", s.handleV1LocationsGeoJSON)
		core.GET("/locations/:id", s.handleV1GetLocation)
	}

	// Session endpoints - list and map interactions
	sessions := v1.Group("/sessions")
	{
		sessions.POST("", s.handleV1CreateSession)
		sessions.DELETE("/:id", s.handleV1DeleteSession)
		sessions.GET("/:id/state", s.handleV1SessionState)
		sessions.PUT("/:id/query", s.handleV1SetQuery)
		sessions.POST("/:id/select", s.handleV1Select)
		sessions.POST("/:id/close", s.handleV1ClosePanel)
		sessions.POST("/:id/map-click", s.handleV1MapClick)
		sessions.POST("/:id/hover", s.handleV1Hover)
	}

	// Realtime endpoints - effect, list and panel stream
	realtime := v1.Group("/realtime")
	{
		realtime.GET("/sessions/:id/events", s.handleV1SessionEvents)
	}
}
