package location

import "time"

// Location is a saved, named coordinate.
type Location struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// AddRequest is the payload accepted when saving a location.
type AddRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsDefault bool    `json:"is_default"`
}

// Resolved is the coordinate chosen for a query and where it came from.
type Resolved struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Source    Source  `json:"source"`
	Name      string  `json:"name,omitempty"`
}

// Source tells how a coordinate was picked.
type Source string

const (
	SourceRequest  Source = "request"
	SourceDefault  Source = "default_location"
	SourceFallback Source = "fallback"
)

// Config holds the fallback coordinate used when nothing else is known.
type Config struct {
	FallbackLatitude  float64
	FallbackLongitude float64
}
