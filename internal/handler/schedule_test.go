package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/handler"
	"github.com/pkordes/tripplanner/internal/itinerary"
)

// mockScheduleServicer is a test double for handler.ScheduleServicer.
type mockScheduleServicer struct {
	moveStop         func(ctx context.Context, tripID uuid.UUID, req itinerary.MoveRequest) (itinerary.Batch, error)
	swapStops        func(ctx context.Context, tripID, stopID, otherID uuid.UUID, r itinerary.Resolution) (itinerary.Batch, error)
	resolveConflicts func(ctx context.Context, tripID uuid.UUID, day int, r itinerary.Resolution) (itinerary.Batch, error)
	retime           func(ctx context.Context, tripID uuid.UUID, day int) (itinerary.Batch, error)
	optimizeDay      func(ctx context.Context, tripID uuid.UUID, day int) (itinerary.Batch, error)
	optimizeTrip     func(ctx context.Context, tripID uuid.UUID) (itinerary.Batch, error)
	conflicts        func(ctx context.Context, tripID uuid.UUID, day int) ([]itinerary.ScheduleConflict, error)
	analyze          func(ctx context.Context, tripID uuid.UUID, day int) (itinerary.DayAnalysis, error)
	route            func(ctx context.Context, tripID uuid.UUID, day int) (itinerary.DayRoute, error)
}

func (m *mockScheduleServicer) MoveStop(ctx context.Context, tripID uuid.UUID, req itinerary.MoveRequest) (itinerary.Batch, error) {
	return m.moveStop(ctx, tripID, req)
}
func (m *mockScheduleServicer) SwapStops(ctx context.Context, tripID, stopID, otherID uuid.UUID, r itinerary.Resolution) (itinerary.Batch, error) {
	return m.swapStops(ctx, tripID, stopID, otherID, r)
}
func (m *mockScheduleServicer) ResolveConflicts(ctx context.Context, tripID uuid.UUID, day int, r itinerary.Resolution) (itinerary.Batch, error) {
	return m.resolveConflicts(ctx, tripID, day, r)
}
func (m *mockScheduleServicer) Retime(ctx context.Context, tripID uuid.UUID, day int) (itinerary.Batch, error) {
	return m.retime(ctx, tripID, day)
}
func (m *mockScheduleServicer) OptimizeDay(ctx context.Context, tripID uuid.UUID, day int) (itinerary.Batch, error) {
	return m.optimizeDay(ctx, tripID, day)
}
func (m *mockScheduleServicer) OptimizeTrip(ctx context.Context, tripID uuid.UUID) (itinerary.Batch, error) {
	return m.optimizeTrip(ctx, tripID)
}
func (m *mockScheduleServicer) Conflicts(ctx context.Context, tripID uuid.UUID, day int) ([]itinerary.ScheduleConflict, error) {
	return m.conflicts(ctx, tripID, day)
}
func (m *mockScheduleServicer) Analyze(ctx context.Context, tripID uuid.UUID, day int) (itinerary.DayAnalysis, error) {
	return m.analyze(ctx, tripID, day)
}
func (m *mockScheduleServicer) Route(ctx context.Context, tripID uuid.UUID, day int) (itinerary.DayRoute, error) {
	return m.route(ctx, tripID, day)
}

// compile-time check: mockScheduleServicer must satisfy handler.ScheduleServicer.
var _ handler.ScheduleServicer = (*mockScheduleServicer)(nil)

func newScheduleHTTPHandler(svc handler.ScheduleServicer) http.Handler {
	return handler.NewRouter(handler.NewServer(nil, nil, svc, nil))
}

// sampleBatch is a one-stop batch with a travel-buffer adjustment.
func sampleBatch(stopID uuid.UUID) itinerary.Batch {
	return itinerary.Batch{
		Updates: []itinerary.StopUpdate{{ID: stopID, Order: 0}},
		Adjustments: []itinerary.TimeAdjustment{{
			StopID: stopID, NewStartTime: "10:45", NewEndTime: "11:15", Reason: itinerary.ReasonTravelBuffer,
		}},
		Conflicts: []itinerary.ScheduleConflict{},
	}
}

// ---- POST .../stops/{stopId}/move ------------------------------------------

func TestMoveStop_200_TargetStop(t *testing.T) {
	tripID, stopID, targetID := uuid.New(), uuid.New(), uuid.New()
	var got itinerary.MoveRequest
	svc := &mockScheduleServicer{
		moveStop: func(_ context.Context, id uuid.UUID, req itinerary.MoveRequest) (itinerary.Batch, error) {
			assert.Equal(t, tripID, id)
			got = req
			return sampleBatch(stopID), nil
		},
	}

	body := jsonBody(t, map[string]any{"target_stop_id": targetID.String(), "resolution": "manual_review"})
	url := fmt.Sprintf("/trips/%s/stops/%s/move", tripID, stopID)
	req := httptest.NewRequest(http.MethodPost, url, body)
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, stopID, got.StopID)
	require.NotNil(t, got.Target.StopID)
	assert.Equal(t, targetID, *got.Target.StopID)
	assert.Equal(t, itinerary.ResolutionManualReview, got.Resolution)

	var resp itinerary.Batch
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Adjustments, 1)
	assert.Equal(t, "10:45", resp.Adjustments[0].NewStartTime)
}

func TestMoveStop_200_DayAndIndex(t *testing.T) {
	var got itinerary.MoveRequest
	svc := &mockScheduleServicer{
		moveStop: func(_ context.Context, _ uuid.UUID, req itinerary.MoveRequest) (itinerary.Batch, error) {
			got = req
			return itinerary.Batch{}, nil
		},
	}

	body := jsonBody(t, map[string]any{"day": 3, "index": 0})
	url := fmt.Sprintf("/trips/%s/stops/%s/move", uuid.New(), uuid.New())
	req := httptest.NewRequest(http.MethodPost, url, body)
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.Target.StopID)
	assert.Equal(t, 3, got.Target.Day)
	require.NotNil(t, got.Target.Index)
	assert.Equal(t, 0, *got.Target.Index)
}

func TestMoveStop_422_NoTarget(t *testing.T) {
	url := fmt.Sprintf("/trips/%s/stops/%s/move", uuid.New(), uuid.New())
	req := httptest.NewRequest(http.MethodPost, url, jsonBody(t, map[string]any{}))
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(&mockScheduleServicer{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "target_stop_id or day is required", decodeError(t, rec).Error.Message)
}

func TestMoveStop_404_UnknownStop(t *testing.T) {
	svc := &mockScheduleServicer{
		moveStop: func(_ context.Context, _ uuid.UUID, _ itinerary.MoveRequest) (itinerary.Batch, error) {
			return itinerary.Batch{}, fmt.Errorf("service.ScheduleService.MoveStop: %w: %w", domain.ErrNotFound, itinerary.ErrUnknownStop)
		},
	}

	url := fmt.Sprintf("/trips/%s/stops/%s/move", uuid.New(), uuid.New())
	req := httptest.NewRequest(http.MethodPost, url, jsonBody(t, map[string]any{"day": 1}))
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "stop not found", decodeError(t, rec).Error.Message)
}

// ---- POST .../stops/{stopId}/swap ------------------------------------------

func TestSwapStops_200(t *testing.T) {
	stopID, otherID := uuid.New(), uuid.New()
	svc := &mockScheduleServicer{
		swapStops: func(_ context.Context, _, a, b uuid.UUID, r itinerary.Resolution) (itinerary.Batch, error) {
			assert.Equal(t, stopID, a)
			assert.Equal(t, otherID, b)
			assert.Equal(t, itinerary.Resolution(""), r)
			return sampleBatch(a), nil
		},
	}

	url := fmt.Sprintf("/trips/%s/stops/%s/swap", uuid.New(), stopID)
	req := httptest.NewRequest(http.MethodPost, url, jsonBody(t, map[string]any{"other_stop_id": otherID.String()}))
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ---- POST /trips/{tripId}/optimize -----------------------------------------

func TestOptimizeTrip_404(t *testing.T) {
	svc := &mockScheduleServicer{
		optimizeTrip: func(_ context.Context, _ uuid.UUID) (itinerary.Batch, error) {
			return itinerary.Batch{}, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.New().String()+"/optimize", nil)
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "trip not found", decodeError(t, rec).Error.Message)
}

// ---- /trips/{tripId}/days/{day}/... ----------------------------------------

func dayURL(tripID uuid.UUID, day any, suffix string) string {
	return fmt.Sprintf("/trips/%s/days/%v/%s", tripID, day, suffix)
}

func TestGetConflicts_200(t *testing.T) {
	tripID := uuid.New()
	a, b := uuid.New(), uuid.New()
	svc := &mockScheduleServicer{
		conflicts: func(_ context.Context, _ uuid.UUID, day int) ([]itinerary.ScheduleConflict, error) {
			return []itinerary.ScheduleConflict{{
				Type: itinerary.ConflictOverlap, Day: day, AffectedStops: []uuid.UUID{a, b},
				Description: "overlap", SuggestedResolution: itinerary.ResolutionAutoAdjust,
			}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, dayURL(tripID, 2, "conflicts"), nil)
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.ConflictList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Day)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, itinerary.ConflictOverlap, resp.Conflicts[0].Type)
	assert.Equal(t, []uuid.UUID{a, b}, resp.Conflicts[0].AffectedStops)
}

func TestGetConflicts_400_DayNotANumber(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, dayURL(uuid.New(), "monday", "conflicts"), nil)
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(&mockScheduleServicer{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetConflicts_422_DayZero(t *testing.T) {
	svc := &mockScheduleServicer{
		conflicts: func(_ context.Context, _ uuid.UUID, _ int) ([]itinerary.ScheduleConflict, error) {
			return nil, fmt.Errorf("service.ScheduleService.Conflicts: %w: day must be >= 1", domain.ErrValidation)
		},
	}

	req := httptest.NewRequest(http.MethodGet, dayURL(uuid.New(), 0, "conflicts"), nil)
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "day must be >= 1", decodeError(t, rec).Error.Message)
}

func TestResolveConflicts_200(t *testing.T) {
	svc := &mockScheduleServicer{
		resolveConflicts: func(_ context.Context, _ uuid.UUID, day int, r itinerary.Resolution) (itinerary.Batch, error) {
			assert.Equal(t, 1, day)
			assert.Equal(t, itinerary.ResolutionAcceptAsIs, r)
			return itinerary.Batch{}, nil
		},
	}

	body := jsonBody(t, map[string]any{"resolution": "accept_as_is"})
	req := httptest.NewRequest(http.MethodPost, dayURL(uuid.New(), 1, "conflicts/resolve"), body)
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolveConflicts_EmptyBodyLeavesResolutionToService(t *testing.T) {
	var got itinerary.Resolution = "unset"
	svc := &mockScheduleServicer{
		resolveConflicts: func(_ context.Context, _ uuid.UUID, _ int, r itinerary.Resolution) (itinerary.Batch, error) {
			got = r
			return itinerary.Batch{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, dayURL(uuid.New(), 1, "conflicts/resolve"), nil)
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, itinerary.Resolution(""), got)
}

func TestPropagateAndOptimizeDay_200(t *testing.T) {
	var retimed, optimized int
	svc := &mockScheduleServicer{
		retime: func(_ context.Context, _ uuid.UUID, day int) (itinerary.Batch, error) {
			retimed = day
			return itinerary.Batch{}, nil
		},
		optimizeDay: func(_ context.Context, _ uuid.UUID, day int) (itinerary.Batch, error) {
			optimized = day
			return itinerary.Batch{}, nil
		},
	}
	h := newScheduleHTTPHandler(svc)
	tripID := uuid.New()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, dayURL(tripID, 2, "propagate"), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, dayURL(tripID, 3, "optimize"), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2, retimed)
	assert.Equal(t, 3, optimized)
}

func TestGetAnalysis_200(t *testing.T) {
	svc := &mockScheduleServicer{
		analyze: func(_ context.Context, _ uuid.UUID, day int) (itinerary.DayAnalysis, error) {
			return itinerary.DayAnalysis{Day: day, StopCount: 3, Score: 0.8, Recommendations: []string{}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, dayURL(uuid.New(), 1, "analysis"), nil)
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp itinerary.DayAnalysis
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.StopCount)
	assert.InDelta(t, 0.8, resp.Score, 1e-9)
}

func TestGetRoute_200(t *testing.T) {
	svc := &mockScheduleServicer{
		route: func(_ context.Context, _ uuid.UUID, day int) (itinerary.DayRoute, error) {
			return itinerary.DayRoute{
				Day:        day,
				Path:       []itinerary.Coordinates{{Lat: 35.0, Lng: 135.7}, {Lat: 35.01, Lng: 135.77}},
				DistanceKm: 6.4,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, dayURL(uuid.New(), 1, "route"), nil)
	rec := httptest.NewRecorder()

	newScheduleHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp itinerary.DayRoute
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Path, 2)
}
