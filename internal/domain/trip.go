// Package domain contains the core data types for the trip planner.
// It depends only on google/uuid and is imported by every other internal
// package (itinerary, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDayStart is the time a day begins when neither the trip nor the
// first stop says otherwise.
const DefaultDayStart = "09:00"

// Trip is the top-level aggregate; stops belong to a trip and are grouped
// into numbered days.
type Trip struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"` // nil when open-ended
	// DayStart is the "HH:MM" default start for each day of the trip.
	DayStart  string    `json:"day_start"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DayStartOrDefault returns the trip's day start, falling back to DefaultDayStart.
func (t Trip) DayStartOrDefault() string {
	if t.DayStart == "" {
		return DefaultDayStart
	}
	return t.DayStart
}
