package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is the visit length in minutes assumed when a stop has none.
const DefaultDuration = 90

// Stop is a single scheduled visit belonging to one day of a trip.
//
// Order is zero-based and contiguous within a day. StartTime and EndTime are
// "HH:MM" strings; an empty string means the value is absent. A zero Duration
// means DefaultDuration.
type Stop struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	Category  Category  `json:"category,omitempty"`
	Day       int       `json:"day"`
	Order     int       `json:"order"`
	StartTime string    `json:"start_time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`
	Duration  int       `json:"duration,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	IsLocked  bool      `json:"is_locked,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DurationOrDefault returns Duration, or DefaultDuration when it is not positive.
func (s Stop) DurationOrDefault() int {
	if s.Duration <= 0 {
		return DefaultDuration
	}
	return s.Duration
}

// HasCoordinates reports whether both latitude and longitude are set.
func (s Stop) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// StopPatch is one entry of a batch update proposed by the scheduler.
// Nil fields are left untouched when the patch is applied.
type StopPatch struct {
	ID        uuid.UUID
	Day       *int
	Order     *int
	StartTime *string
	EndTime   *string
	Latitude  *float64
	Longitude *float64
}
