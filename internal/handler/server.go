// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server and are mounted by NewRouter. Methods
// are split into domain-specific files (health.go, trip.go, etc.) but share
// the same Server struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/itinerary"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StopServicer defines the business operations the stop handlers depend on.
type StopServicer interface {
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	GetByID(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error)
	ListByTripIDPaged(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Stop, int64, error)
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	Delete(ctx context.Context, tripID, stopID uuid.UUID) error
}

// ScheduleServicer defines the itinerary operations: moves, retiming,
// conflict handling, and optimization.
type ScheduleServicer interface {
	MoveStop(ctx context.Context, tripID uuid.UUID, req itinerary.MoveRequest) (itinerary.Batch, error)
	SwapStops(ctx context.Context, tripID, stopID, otherID uuid.UUID, resolution itinerary.Resolution) (itinerary.Batch, error)
	ResolveConflicts(ctx context.Context, tripID uuid.UUID, day int, resolution itinerary.Resolution) (itinerary.Batch, error)
	Retime(ctx context.Context, tripID uuid.UUID, day int) (itinerary.Batch, error)
	OptimizeDay(ctx context.Context, tripID uuid.UUID, day int) (itinerary.Batch, error)
	OptimizeTrip(ctx context.Context, tripID uuid.UUID) (itinerary.Batch, error)
	Conflicts(ctx context.Context, tripID uuid.UUID, day int) ([]itinerary.ScheduleConflict, error)
	Analyze(ctx context.Context, tripID uuid.UUID, day int) (itinerary.DayAnalysis, error)
	Route(ctx context.Context, tripID uuid.UUID, day int) (itinerary.DayRoute, error)
}

// ItineraryServicer produces the flat itinerary export of a trip.
type ItineraryServicer interface {
	Rows(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryRow, error)
}

// Server holds the services behind every API endpoint.
// Wire it in main.go via NewRouter(server).
type Server struct {
	trips     TripServicer
	stops     StopServicer
	schedule  ScheduleServicer
	itinerary ItineraryServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, stops StopServicer, schedule ScheduleServicer, itin ItineraryServicer) *Server {
	return &Server{trips: trips, stops: stops, schedule: schedule, itinerary: itin}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}
