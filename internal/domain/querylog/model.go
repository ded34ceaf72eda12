package querylog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry records one planetary-hour lookup.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	DayPlanet  string    `json:"day_planet"`
	HourPlanet string    `json:"hour_planet"`
	Period     string    `json:"period"`
	HourNumber int       `json:"hour_number"`
	Timestamp  time.Time `json:"timestamp"`
}

// RecordRequest is the payload accepted by Record.
type RecordRequest struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DayPlanet  string  `json:"day_planet"`
	HourPlanet string  `json:"hour_planet"`
	Period     string  `json:"period"`
	HourNumber int     `json:"hour_number"`
}

// Repository abstracts query log persistence.
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
}
