package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/geocoding"
	"github.com/pkordes/tripplanner/internal/itinerary"
	"github.com/pkordes/tripplanner/internal/repo"
)

// geocodeRetries bounds how hard a single stop write tries to resolve its location.
const geocodeRetries = 2

// Geocoder resolves a stop location to coordinates. *geocoding.Nominatim
// satisfies it.
type Geocoder interface {
	GeocodeWithRetry(ctx context.Context, address string, maxRetries int) (geocoding.Result, error)
}

// StopService implements business logic for Stop operations.
// Writes that change a day's orders run through the TripStore so the day
// stays contiguous under concurrent edits.
type StopService struct {
	trips repo.TripRepo
	stops repo.StopRepo
	store TripStore
	geo   Geocoder
}

// NewStopService constructs a StopService. geo may be nil, which disables
// location lookup.
func NewStopService(trips repo.TripRepo, stops repo.StopRepo, store TripStore, geo Geocoder) *StopService {
	return &StopService{trips: trips, stops: stops, store: store, geo: geo}
}

// Create validates the stop, verifies the parent trip exists, fills in
// coordinates from the location when possible, then appends the stop to the
// end of its day and retimes the day from the trip's day start. The returned
// stop carries its propagated times.
// Returns domain.ErrValidation if input violates business rules.
// Returns domain.ErrNotFound if the parent trip does not exist.
func (s *StopService) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	if err := validateStop(stop); err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	trip, err := s.trips.GetByID(ctx, stop.TripID)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	s.enrich(ctx, &stop)

	var created domain.Stop
	err = s.store.WithinTrip(ctx, stop.TripID, func(r repo.Repos) error {
		var err error
		if created, err = r.Stops.Create(ctx, stop); err != nil {
			return err
		}
		dayStops, err := r.Stops.ListByDay(ctx, created.TripID, created.Day)
		if err != nil {
			return err
		}
		batch := itinerary.PlanRetime(dayStops, created.Day, itinerary.PropagateOptions{DayStart: trip.DayStartOrDefault()})
		if err := r.Stops.ApplyUpdates(ctx, created.TripID, batch.Patches); err != nil {
			return err
		}
		for _, adj := range batch.Adjustments {
			if adj.StopID == created.ID {
				created.StartTime, created.EndTime = adj.NewStartTime, adj.NewEndTime
			}
		}
		return nil
	})
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single stop by ID, scoped to the given tripID.
func (s *StopService) GetByID(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error) {
	result, err := s.stops.GetByID(ctx, tripID, stopID)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTripID returns all stops for a trip ordered by day, then order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *StopService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	stops, err := s.stops.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.StopService.ListByTripID: %w", err)
	}
	if stops == nil {
		return []domain.Stop{}, nil
	}
	return stops, nil
}

// ListByTripIDPaged returns one page of a trip's stops and the total count.
func (s *StopService) ListByTripIDPaged(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Stop, int64, error) {
	stops, total, err := s.stops.ListByTripIDPaged(ctx, tripID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.StopService.ListByTripIDPaged: %w", err)
	}
	if stops == nil {
		stops = []domain.Stop{}
	}
	return stops, total, nil
}

// Update validates and persists changes to an existing stop. A zero Day
// keeps the stored day; any other day must match it, because moving a stop
// between days goes through ScheduleService.MoveStop.
func (s *StopService) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	existing, err := s.stops.GetByID(ctx, stop.TripID, stop.ID)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}
	if stop.Day == 0 {
		stop.Day = existing.Day
	}
	if stop.Day != existing.Day {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w: day cannot change here; move the stop instead", domain.ErrValidation)
	}
	if err := validateStop(stop); err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}
	if stop.Location != existing.Location {
		s.enrich(ctx, &stop)
	}

	result, err := s.stops.Update(ctx, stop)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a stop and closes the gap it leaves in its day's orders.
// Returns domain.ErrNotFound if the stop does not exist under the given trip.
func (s *StopService) Delete(ctx context.Context, tripID, stopID uuid.UUID) error {
	err := s.store.WithinTrip(ctx, tripID, func(r repo.Repos) error {
		existing, err := r.Stops.GetByID(ctx, tripID, stopID)
		if err != nil {
			return err
		}
		if err := r.Stops.Delete(ctx, tripID, stopID); err != nil {
			return err
		}
		remaining, err := r.Stops.ListByDay(ctx, tripID, existing.Day)
		if err != nil {
			return err
		}
		return r.Stops.ApplyUpdates(ctx, tripID, itinerary.PlanCompact(remaining, existing.Day).Patches)
	})
	if err != nil {
		return fmt.Errorf("service.StopService.Delete: %w", err)
	}
	return nil
}

// enrich fills in missing coordinates from the stop's location. Lookup
// failures are logged and otherwise ignored: a stop without coordinates is
// still a valid stop.
func (s *StopService) enrich(ctx context.Context, stop *domain.Stop) {
	if s.geo == nil || stop.HasCoordinates() || strings.TrimSpace(stop.Location) == "" {
		return
	}
	res, err := s.geo.GeocodeWithRetry(ctx, stop.Location, geocodeRetries)
	if err != nil {
		slog.WarnContext(ctx, "stop location not geocoded", "location", stop.Location, "error", err)
		return
	}
	lat, lng := res.Coords.Lat, res.Coords.Lng
	stop.Latitude, stop.Longitude = &lat, &lng
}

// validateStop enforces business rules common to both Create and Update.
func validateStop(stop domain.Stop) error {
	if strings.TrimSpace(stop.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if stop.Day < 1 {
		return fmt.Errorf("%w: day must be >= 1", domain.ErrValidation)
	}
	if !stop.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, stop.Category)
	}
	if stop.StartTime != "" && !itinerary.ValidClock(stop.StartTime) {
		return fmt.Errorf("%w: start_time must be HH:MM", domain.ErrValidation)
	}
	if stop.EndTime != "" && !itinerary.ValidClock(stop.EndTime) {
		return fmt.Errorf("%w: end_time must be HH:MM", domain.ErrValidation)
	}
	if stop.Duration < 0 || stop.Duration > 24*60 {
		return fmt.Errorf("%w: duration must be between 0 and 1440 minutes", domain.ErrValidation)
	}
	if (stop.Latitude == nil) != (stop.Longitude == nil) {
		return fmt.Errorf("%w: latitude and longitude must be set together", domain.ErrValidation)
	}
	if stop.Latitude != nil && (*stop.Latitude < -90 || *stop.Latitude > 90) {
		return fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrValidation)
	}
	if stop.Longitude != nil && (*stop.Longitude < -180 || *stop.Longitude > 180) {
		return fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrValidation)
	}
	return nil
}
