package models

// FeedLocation is one entry of the location feed, in the same format the API reads.
type FeedLocation struct {
	Title    string `json:"title"`
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

// LocationRow is a normalized location ready for the parkmap.locations table.
// Ordinal is its display position and the row key.
type LocationRow struct {
	Ordinal int
	Title   string
	Lat     float64
	Lng     float64
}
