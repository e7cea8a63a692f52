package itinerary_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/itinerary"
)

// newStop builds a stop with a fresh id. start may be "" for "no start time".
func newStop(name string, cat domain.Category, day, order int, start string, duration int) domain.Stop {
	return domain.Stop{
		ID:        uuid.New(),
		Name:      name,
		Category:  cat,
		Day:       day,
		Order:     order,
		StartTime: start,
		Duration:  duration,
	}
}

func at(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func withCoords(s domain.Stop, lat, lng float64) domain.Stop {
	s.Latitude, s.Longitude = at(lat, lng)
	return s
}

func ids(stops []domain.Stop) []uuid.UUID {
	out := make([]uuid.UUID, len(stops))
	for i, s := range stops {
		out[i] = s.ID
	}
	return out
}

func orders(stops []domain.Stop) []int {
	out := make([]int, len(stops))
	for i, s := range stops {
		out[i] = s.Order
	}
	return out
}

// applyBatch applies every update and adjustment of a batch to a copy of stops.
func applyBatch(stops []domain.Stop, b itinerary.Batch) []domain.Stop {
	return itinerary.ApplyAdjustments(itinerary.ApplyUpdates(stops, b.Updates), b.Adjustments)
}

// requireContiguous fails unless every day's orders are exactly 0..n-1.
func requireContiguous(t *testing.T, stops []domain.Stop) {
	t.Helper()
	for _, day := range itinerary.Days(stops) {
		got := orders(itinerary.DayStops(stops, day))
		for i, o := range got {
			require.Equal(t, i, o, "day %d orders %v are not contiguous", day, got)
		}
	}
}

func clockOf(t *testing.T, s string) itinerary.Clock {
	t.Helper()
	c, ok := itinerary.ParseClock(s)
	require.True(t, ok, "malformed clock %q", s)
	return c
}
