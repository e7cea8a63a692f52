package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripplanner/internal/itinerary"
)

// Wire types. They mirror the schemas in spec/openapi.yaml; JSON field
// names are snake_case throughout.

// ErrorDetail is the body of every non-2xx response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// Pagination describes the page a list response holds.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Trip is the API representation of a trip.
type Trip struct {
	Id        openapi_types.UUID  `json:"id"`
	Name      string              `json:"name"`
	StartDate openapi_types.Date  `json:"start_date"`
	EndDate   *openapi_types.Date `json:"end_date,omitempty"`
	DayStart  string              `json:"day_start"`
	Notes     *string             `json:"notes,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// TripRequest is the body of POST /trips and PUT /trips/{tripId}.
type TripRequest struct {
	Name      string              `json:"name"`
	StartDate *openapi_types.Date `json:"start_date"`
	EndDate   *openapi_types.Date `json:"end_date,omitempty"`
	DayStart  *string             `json:"day_start,omitempty"`
	Notes     *string             `json:"notes,omitempty"`
}

// TripList is one page of trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Stop is the API representation of a stop.
type Stop struct {
	Id        openapi_types.UUID `json:"id"`
	TripId    openapi_types.UUID `json:"trip_id"`
	Name      string             `json:"name"`
	Location  *string            `json:"location,omitempty"`
	Category  *string            `json:"category,omitempty"`
	Day       int                `json:"day"`
	Order     int                `json:"order"`
	StartTime *string            `json:"start_time,omitempty"`
	EndTime   *string            `json:"end_time,omitempty"`
	Duration  int                `json:"duration"`
	Latitude  *float64           `json:"latitude,omitempty"`
	Longitude *float64           `json:"longitude,omitempty"`
	IsLocked  bool               `json:"is_locked"`
	Notes     *string            `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// StopRequest is the body of POST and PUT on stops. A missing day means
// day 1 on create and "unchanged" on update.
type StopRequest struct {
	Name      string   `json:"name"`
	Location  *string  `json:"location,omitempty"`
	Category  *string  `json:"category,omitempty"`
	Day       *int     `json:"day,omitempty"`
	StartTime *string  `json:"start_time,omitempty"`
	EndTime   *string  `json:"end_time,omitempty"`
	Duration  *int     `json:"duration,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	IsLocked  *bool    `json:"is_locked,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

// StopList is one page of stops.
type StopList struct {
	Data       []Stop     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// MoveStopRequest is the body of POST .../stops/{stopId}/move. Either
// target_stop_id or day must be set; index is only read together with day.
type MoveStopRequest struct {
	TargetStopId *openapi_types.UUID `json:"target_stop_id,omitempty"`
	Day          *int                `json:"day,omitempty"`
	Index        *int                `json:"index,omitempty"`
	Resolution   *string             `json:"resolution,omitempty"`
}

// SwapStopsRequest is the body of POST .../stops/{stopId}/swap.
type SwapStopsRequest struct {
	OtherStopId openapi_types.UUID `json:"other_stop_id"`
	Resolution  *string            `json:"resolution,omitempty"`
}

// ResolveConflictsRequest is the body of POST .../conflicts/resolve.
type ResolveConflictsRequest struct {
	Resolution string `json:"resolution"`
}

// ConflictList is the body of GET .../days/{day}/conflicts.
type ConflictList struct {
	Day       int                          `json:"day"`
	Conflicts []itinerary.ScheduleConflict `json:"conflicts"`
}

// ItineraryRow is one line of GET /trips/{tripId}/itinerary.
type ItineraryRow struct {
	TripId    openapi_types.UUID `json:"trip_id"`
	TripName  string             `json:"trip_name"`
	Day       int                `json:"day"`
	Order     int                `json:"order"`
	StopName  string             `json:"stop_name"`
	Category  *string            `json:"category,omitempty"`
	Location  *string            `json:"location,omitempty"`
	StartTime *string            `json:"start_time,omitempty"`
	EndTime   *string            `json:"end_time,omitempty"`
	Duration  int                `json:"duration"`
	Locked    bool               `json:"locked"`
	Notes     *string            `json:"notes,omitempty"`
}
