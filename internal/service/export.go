package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
)

// ItineraryService assembles a flat day-by-day export of one trip.
type ItineraryService struct {
	trips repo.TripRepo
	stops repo.StopRepo
}

// NewItineraryService constructs an ItineraryService backed by the provided repos.
func NewItineraryService(trips repo.TripRepo, stops repo.StopRepo) *ItineraryService {
	return &ItineraryService{trips: trips, stops: stops}
}

// Rows returns one ItineraryRow per stop, ordered by day then order.
// A trip with no stops yields an empty, non-nil slice.
func (s *ItineraryService) Rows(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryRow, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Rows: %w", err)
	}
	stops, err := s.stops.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Rows: %w", err)
	}

	rows := make([]domain.ItineraryRow, 0, len(stops))
	for _, st := range stops {
		rows = append(rows, domain.ItineraryRow{
			TripID:    trip.ID.String(),
			TripName:  trip.Name,
			Day:       st.Day,
			Order:     st.Order,
			StopName:  st.Name,
			Category:  st.Category,
			Location:  st.Location,
			StartTime: st.StartTime,
			EndTime:   st.EndTime,
			Duration:  st.DurationOrDefault(),
			Locked:    st.IsLocked,
			Notes:     st.Notes,
		})
	}
	return rows, nil
}
