package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// handleV1ListLocations returns all locations
// GET /api/v1/core/locations
func (s *Server) handleV1ListLocations(c *gin.Context) {
	locs := s.store.All()

	c.JSON(http.StatusOK, gin.H{
		"data": locs,
		"meta": gin.H{
			"count": len(locs),
		},
	})
}

// handleV1GetLocation returns a single location
// GET /api/v1/core/locations/:id
func (s *Server) handleV1GetLocation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	loc, ok := s.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": loc,
	})
}

// handleV1LocationsGeoJSON returns the locations as a GeoJSON FeatureCollection
// GET /api/v1/core/locations.geojson
func (s *Server) handleV1LocationsGeoJSON(c *gin.Context) {
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, s.store.GeoJSON())
}
