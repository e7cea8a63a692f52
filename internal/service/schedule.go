package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/itinerary"
	"github.com/pkordes/tripplanner/internal/repo"
)

// ScheduleService runs the itinerary pipeline against stored trips.
//
// Every mutating operation reads the trip's stops, plans a batch with the
// pure itinerary functions, and writes the batch back inside one
// TripStore.WithinTrip call, so a batch is applied all or nothing and two
// batches for the same trip never interleave.
type ScheduleService struct {
	trips repo.TripRepo
	stops repo.StopRepo
	store TripStore
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(trips repo.TripRepo, stops repo.StopRepo, store TripStore) *ScheduleService {
	return &ScheduleService{trips: trips, stops: stops, store: store}
}

// MoveStop applies a drag gesture. An empty req.DayStart uses the trip's day start.
func (s *ScheduleService) MoveStop(ctx context.Context, tripID uuid.UUID, req itinerary.MoveRequest) (itinerary.Batch, error) {
	if err := validateResolution(req.Resolution); err != nil {
		return itinerary.Batch{}, fmt.Errorf("service.ScheduleService.MoveStop: %w", err)
	}
	return s.apply(ctx, "MoveStop", tripID, func(trip domain.Trip, stops []domain.Stop) (itinerary.Batch, error) {
		if req.DayStart == "" {
			req.DayStart = trip.DayStartOrDefault()
		}
		return itinerary.PlanMove(stops, req)
	})
}

// SwapStops exchanges the slots of two stops.
func (s *ScheduleService) SwapStops(ctx context.Context, tripID, stopID, otherID uuid.UUID, resolution itinerary.Resolution) (itinerary.Batch, error) {
	return s.MoveStop(ctx, tripID, itinerary.MoveRequest{
		Kind:       itinerary.MoveSwap,
		StopID:     stopID,
		Target:     itinerary.MoveTarget{StopID: &otherID},
		Resolution: resolution,
	})
}

// ResolveConflicts detects a day's conflicts and applies resolution to them.
func (s *ScheduleService) ResolveConflicts(ctx context.Context, tripID uuid.UUID, day int, resolution itinerary.Resolution) (itinerary.Batch, error) {
	if err := validateDay(day); err != nil {
		return itinerary.Batch{}, fmt.Errorf("service.ScheduleService.ResolveConflicts: %w", err)
	}
	if err := validateResolution(resolution); err != nil {
		return itinerary.Batch{}, fmt.Errorf("service.ScheduleService.ResolveConflicts: %w", err)
	}
	if resolution == "" {
		resolution = itinerary.ResolutionAutoAdjust
	}
	return s.apply(ctx, "ResolveConflicts", tripID, func(trip domain.Trip, stops []domain.Stop) (itinerary.Batch, error) {
		return itinerary.PlanResolve(stops, day, resolution, trip.DayStartOrDefault()), nil
	})
}

// Retime recomputes a day's times in its current order.
func (s *ScheduleService) Retime(ctx context.Context, tripID uuid.UUID, day int) (itinerary.Batch, error) {
	if err := validateDay(day); err != nil {
		return itinerary.Batch{}, fmt.Errorf("service.ScheduleService.Retime: %w", err)
	}
	return s.apply(ctx, "Retime", tripID, func(trip domain.Trip, stops []domain.Stop) (itinerary.Batch, error) {
		return itinerary.PlanRetime(stops, day, itinerary.PropagateOptions{DayStart: trip.DayStartOrDefault()}), nil
	})
}

// OptimizeDay reorders one day for distance, variety, and time-of-day fit,
// then retimes it.
func (s *ScheduleService) OptimizeDay(ctx context.Context, tripID uuid.UUID, day int) (itinerary.Batch, error) {
	if err := validateDay(day); err != nil {
		return itinerary.Batch{}, fmt.Errorf("service.ScheduleService.OptimizeDay: %w", err)
	}
	return s.apply(ctx, "OptimizeDay", tripID, func(trip domain.Trip, stops []domain.Stop) (itinerary.Batch, error) {
		return itinerary.PlanOptimizeDay(stops, day, trip.DayStartOrDefault()), nil
	})
}

// OptimizeTrip optimizes every day of the trip independently.
func (s *ScheduleService) OptimizeTrip(ctx context.Context, tripID uuid.UUID) (itinerary.Batch, error) {
	return s.apply(ctx, "OptimizeTrip", tripID, func(trip domain.Trip, stops []domain.Stop) (itinerary.Batch, error) {
		return itinerary.PlanOptimizeTrip(stops, trip.DayStartOrDefault()), nil
	})
}

// Conflicts reports a day's conflicts without changing anything.
func (s *ScheduleService) Conflicts(ctx context.Context, tripID uuid.UUID, day int) ([]itinerary.ScheduleConflict, error) {
	dayStops, err := s.loadDay(ctx, tripID, day)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.Conflicts: %w", err)
	}
	return itinerary.DetectConflicts(dayStops, day), nil
}

// Analyze scores a day as currently scheduled.
func (s *ScheduleService) Analyze(ctx context.Context, tripID uuid.UUID, day int) (itinerary.DayAnalysis, error) {
	dayStops, err := s.loadDay(ctx, tripID, day)
	if err != nil {
		return itinerary.DayAnalysis{}, fmt.Errorf("service.ScheduleService.Analyze: %w", err)
	}
	return itinerary.AnalyzeDay(dayStops, day), nil
}

// Route returns the day's path for map rendering.
func (s *ScheduleService) Route(ctx context.Context, tripID uuid.UUID, day int) (itinerary.DayRoute, error) {
	dayStops, err := s.loadDay(ctx, tripID, day)
	if err != nil {
		return itinerary.DayRoute{}, fmt.Errorf("service.ScheduleService.Route: %w", err)
	}
	return itinerary.RouteForDay(dayStops, day), nil
}

// loadDay returns one day's stops after checking the day number and the trip.
func (s *ScheduleService) loadDay(ctx context.Context, tripID uuid.UUID, day int) ([]domain.Stop, error) {
	if err := validateDay(day); err != nil {
		return nil, err
	}
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, err
	}
	return s.stops.ListByDay(ctx, tripID, day)
}

// apply loads the trip and its stops under the trip lock, plans a batch,
// and writes its patches before the lock is released.
func (s *ScheduleService) apply(ctx context.Context, op string, tripID uuid.UUID, plan func(domain.Trip, []domain.Stop) (itinerary.Batch, error)) (itinerary.Batch, error) {
	var batch itinerary.Batch
	err := s.store.WithinTrip(ctx, tripID, func(r repo.Repos) error {
		trip, err := r.Trips.GetByID(ctx, tripID)
		if err != nil {
			return err
		}
		stops, err := r.Stops.ListByTripID(ctx, tripID)
		if err != nil {
			return err
		}
		batch, err = plan(trip, stops)
		if err != nil {
			return coreError(err)
		}
		return r.Stops.ApplyUpdates(ctx, tripID, batch.Patches)
	})
	if err != nil {
		return itinerary.Batch{}, fmt.Errorf("service.ScheduleService.%s: %w", op, err)
	}

	slog.InfoContext(ctx, "schedule batch applied",
		"op", op,
		"trip_id", tripID,
		"patches", len(batch.Patches),
		"conflicts", len(batch.Conflicts),
	)
	return batch, nil
}

// coreError maps itinerary errors onto the domain sentinels handlers understand.
func coreError(err error) error {
	switch {
	case errors.Is(err, itinerary.ErrUnknownStop):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case errors.Is(err, itinerary.ErrInvalidTarget):
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	default:
		return err
	}
}

func validateDay(day int) error {
	if day < 1 {
		return fmt.Errorf("%w: day must be >= 1", domain.ErrValidation)
	}
	return nil
}

// validateResolution accepts the resolutions a caller can ask for. split_day
// is only ever suggested.
func validateResolution(r itinerary.Resolution) error {
	switch r {
	case "", itinerary.ResolutionAutoAdjust, itinerary.ResolutionManualReview, itinerary.ResolutionAcceptAsIs:
		return nil
	default:
		return fmt.Errorf("%w: unsupported resolution %q", domain.ErrValidation, r)
	}
}
