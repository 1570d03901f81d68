package utils

import (
	"math"
	"strings"

	"github.com/02loveslollipop/parkmap/services/watcher/internal/models"
)

// BuildLocationRows converts feed entries into database-ready rows. Entries
// with a blank title or an out-of-range coordinate are dropped; ordinals are
// assigned to the remaining rows in feed order.
func BuildLocationRows(entries []models.FeedLocation) []models.LocationRow {
	rows := make([]models.LocationRow, 0, len(entries))
	for _, e := range entries {
		title := strings.TrimSpace(e.Title)
		if title == "" || !ValidCoordinate(e.Location.Lat, e.Location.Lng) {
			continue
		}
		rows = append(rows, models.LocationRow{
			Ordinal: len(rows),
			Title:   title,
			Lat:     e.Location.Lat,
			Lng:     e.Location.Lng,
		})
	}
	return rows
}

// ValidCoordinate reports whether lat/lng are finite and in range.
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// FilterChanged selects rows that differ from what is stored at their ordinal.
func FilterChanged(rows []models.LocationRow, stored map[int]models.LocationRow, epsilon float64) []models.LocationRow {
	out := make([]models.LocationRow, 0, len(rows))
	for _, row := range rows {
		prev, ok := stored[row.Ordinal]
		if !ok || prev.Title != row.Title ||
			!CoordsEqual(prev.Lat, row.Lat, epsilon) || !CoordsEqual(prev.Lng, row.Lng, epsilon) {
			out = append(out, row)
		}
	}
	return out
}

// CoordsEqual compares two coordinates with tolerance.
func CoordsEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}
