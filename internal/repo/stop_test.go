package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
	"github.com/pkordes/tripplanner/testutil"
)

// newTestStopRepos returns a TripRepo and a StopRepo sharing one rolled back
// transaction, so tests can create a parent trip and child stops together.
func newTestStopRepos(t *testing.T) (repo.TripRepo, repo.StopRepo) {
	t.Helper()
	tx := testutil.NewTx(t)
	return repo.NewTripRepo(tx), repo.NewStopRepo(tx)
}

// mustCreateTrip inserts a parent trip and fails the test if the insert fails.
func mustCreateTrip(t *testing.T, r repo.TripRepo) domain.Trip {
	t.Helper()
	trip, err := r.Create(context.Background(), domain.Trip{
		Name:      "Test Trip",
		StartDate: time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err, "create parent trip")
	return trip
}

// stopFixture returns a Stop ready for insertion on day 1 of tripID.
func stopFixture(tripID uuid.UUID) domain.Stop {
	lat, lng := 38.6916, -9.2160
	return domain.Stop{
		TripID:    tripID,
		Name:      "Belem Tower",
		Location:  "Lisbon",
		Category:  domain.CategoryAttraction,
		Day:       1,
		StartTime: "09:00",
		Duration:  90,
		Latitude:  &lat,
		Longitude: &lng,
		Notes:     "Go early",
	}
}

func mustCreateStop(t *testing.T, r repo.StopRepo, s domain.Stop) domain.Stop {
	t.Helper()
	created, err := r.Create(context.Background(), s)
	require.NoError(t, err, "create stop")
	return created
}

func TestStopRepo_Create(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)
	ctx := context.Background()

	parent := mustCreateTrip(t, tripRepo)
	input := stopFixture(parent.ID)

	got, err := stopRepo.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.UUID{}, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, parent.ID, got.TripID)
	assert.Equal(t, input.Name, got.Name)
	assert.Equal(t, domain.CategoryAttraction, got.Category)
	assert.Equal(t, 1, got.Day)
	assert.Equal(t, 0, got.Order, "first stop of a day gets order 0")
	assert.Equal(t, "09:00", got.StartTime)
	assert.Empty(t, got.EndTime)
	assert.Equal(t, 90, got.Duration)
	require.True(t, got.HasCoordinates())
	assert.InDelta(t, 38.6916, *got.Latitude, 1e-9)
	assert.False(t, got.IsLocked)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestStopRepo_Create_AppendsPerDay(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)

	parent := mustCreateTrip(t, tripRepo)
	first := mustCreateStop(t, stopRepo, stopFixture(parent.ID))
	second := mustCreateStop(t, stopRepo, stopFixture(parent.ID))
	otherDay := stopFixture(parent.ID)
	otherDay.Day = 2
	third := mustCreateStop(t, stopRepo, otherDay)

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, 0, third.Order, "orders are per day")
}

func TestStopRepo_Create_NoCoordinates(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)

	parent := mustCreateTrip(t, tripRepo)
	input := stopFixture(parent.ID)
	input.Latitude, input.Longitude = nil, nil

	got := mustCreateStop(t, stopRepo, input)

	assert.Nil(t, got.Latitude)
	assert.Nil(t, got.Longitude)
}

func TestStopRepo_GetByID(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)
	ctx := context.Background()

	parent := mustCreateTrip(t, tripRepo)
	created := mustCreateStop(t, stopRepo, stopFixture(parent.ID))

	got, err := stopRepo.GetByID(ctx, parent.ID, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
}

func TestStopRepo_GetByID_WrongTrip(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)

	parent := mustCreateTrip(t, tripRepo)
	created := mustCreateStop(t, stopRepo, stopFixture(parent.ID))

	_, err := stopRepo.GetByID(context.Background(), uuid.New(), created.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStopRepo_ListByTripID_OrderedByDayThenOrder(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)
	ctx := context.Background()

	parent := mustCreateTrip(t, tripRepo)
	other := mustCreateTrip(t, tripRepo)

	day2 := stopFixture(parent.ID)
	day2.Day = 2
	a := mustCreateStop(t, stopRepo, day2)
	b := mustCreateStop(t, stopRepo, stopFixture(parent.ID))
	c := mustCreateStop(t, stopRepo, stopFixture(parent.ID))
	mustCreateStop(t, stopRepo, stopFixture(other.ID))

	got, err := stopRepo.ListByTripID(ctx, parent.ID)

	require.NoError(t, err)
	require.Len(t, got, 3, "should return only stops for the given trip")
	assert.Equal(t, []uuid.UUID{b.ID, c.ID, a.ID}, []uuid.UUID{got[0].ID, got[1].ID, got[2].ID})
}

func TestStopRepo_ListByTripID_Empty(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)

	parent := mustCreateTrip(t, tripRepo)

	got, err := stopRepo.ListByTripID(context.Background(), parent.ID)

	require.NoError(t, err)
	assert.NotNil(t, got, "should return empty slice, not nil")
	assert.Empty(t, got)
}

func TestStopRepo_ListByDay(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)

	parent := mustCreateTrip(t, tripRepo)
	mustCreateStop(t, stopRepo, stopFixture(parent.ID))
	day2 := stopFixture(parent.ID)
	day2.Day = 2
	want := mustCreateStop(t, stopRepo, day2)

	got, err := stopRepo.ListByDay(context.Background(), parent.ID, 2)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want.ID, got[0].ID)
}

func TestStopRepo_ListByTripIDPaged(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)

	parent := mustCreateTrip(t, tripRepo)
	for i := 0; i < 5; i++ {
		mustCreateStop(t, stopRepo, stopFixture(parent.ID))
	}

	got, total, err := stopRepo.ListByTripIDPaged(context.Background(), parent.ID,
		domain.PaginationParams{Page: 2, Limit: 2})

	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Order)
	assert.Equal(t, 3, got[1].Order)
}

func TestStopRepo_Update(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)
	ctx := context.Background()

	parent := mustCreateTrip(t, tripRepo)
	created := mustCreateStop(t, stopRepo, stopFixture(parent.ID))

	created.Name = "Jeronimos Monastery"
	created.Category = domain.CategoryAttraction
	created.EndTime = "11:00"
	created.IsLocked = true
	created.Latitude, created.Longitude = nil, nil
	created.Day = 5 // ignored: day moves go through ApplyUpdates

	updated, err := stopRepo.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Jeronimos Monastery", updated.Name)
	assert.Equal(t, "11:00", updated.EndTime)
	assert.True(t, updated.IsLocked)
	assert.Nil(t, updated.Latitude)
	assert.Equal(t, 1, updated.Day)
}

func TestStopRepo_Update_WrongTrip(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)

	parent := mustCreateTrip(t, tripRepo)
	created := mustCreateStop(t, stopRepo, stopFixture(parent.ID))

	created.TripID = uuid.New()
	_, err := stopRepo.Update(context.Background(), created)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStopRepo_Delete(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)
	ctx := context.Background()

	parent := mustCreateTrip(t, tripRepo)
	created := mustCreateStop(t, stopRepo, stopFixture(parent.ID))

	require.NoError(t, stopRepo.Delete(ctx, parent.ID, created.ID))

	_, err := stopRepo.GetByID(ctx, parent.ID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStopRepo_Delete_WrongTrip(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)

	parent := mustCreateTrip(t, tripRepo)
	created := mustCreateStop(t, stopRepo, stopFixture(parent.ID))

	err := stopRepo.Delete(context.Background(), uuid.New(), created.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Swapping two orders passes through a duplicate (trip, day, order) state;
// the deferred unique constraint only checks the end result.
func TestStopRepo_ApplyUpdates_SwapOrders(t *testing.T) {
	tx := testutil.NewTx(t)
	tripRepo, stopRepo := repo.NewTripRepo(tx), repo.NewStopRepo(tx)
	ctx := context.Background()

	parent := mustCreateTrip(t, tripRepo)
	a := mustCreateStop(t, stopRepo, stopFixture(parent.ID))
	b := mustCreateStop(t, stopRepo, stopFixture(parent.ID))

	zero, one := 0, 1
	start, end := "10:45", "12:15"
	err := stopRepo.ApplyUpdates(ctx, parent.ID, []domain.StopPatch{
		{ID: a.ID, Order: &one},
		{ID: b.ID, Order: &zero, StartTime: &start, EndTime: &end},
	})
	require.NoError(t, err)

	_, err = tx.Exec(ctx, `SET CONSTRAINTS stops_trip_day_order_key IMMEDIATE`)
	require.NoError(t, err, "final orders must be unique")

	got, err := stopRepo.ListByDay(ctx, parent.ID, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, "10:45", got[0].StartTime)
	assert.Equal(t, "12:15", got[0].EndTime)
	assert.Equal(t, a.ID, got[1].ID)
	assert.Equal(t, "09:00", got[1].StartTime, "nil patch fields keep stored values")
}

func TestStopRepo_ApplyUpdates_MoveToOtherDay(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)
	ctx := context.Background()

	parent := mustCreateTrip(t, tripRepo)
	s := mustCreateStop(t, stopRepo, stopFixture(parent.ID))

	day, order := 3, 0
	require.NoError(t, stopRepo.ApplyUpdates(ctx, parent.ID, []domain.StopPatch{{ID: s.ID, Day: &day, Order: &order}}))

	got, err := stopRepo.GetByID(ctx, parent.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Day)
}

func TestStopRepo_ApplyUpdates_UnknownStop(t *testing.T) {
	tripRepo, stopRepo := newTestStopRepos(t)

	parent := mustCreateTrip(t, tripRepo)
	order := 0

	err := stopRepo.ApplyUpdates(context.Background(), parent.ID, []domain.StopPatch{{ID: uuid.New(), Order: &order}})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_WithinTrip(t *testing.T) {
	tx := testutil.NewTx(t)
	trips, stops := repo.NewTripRepo(tx), repo.NewStopRepo(tx)
	store := repo.NewStore(tx)
	ctx := context.Background()

	parent := mustCreateTrip(t, trips)

	t.Run("commits on success", func(t *testing.T) {
		err := store.WithinTrip(ctx, parent.ID, func(r repo.Repos) error {
			_, err := r.Stops.Create(ctx, stopFixture(parent.ID))
			return err
		})
		require.NoError(t, err)

		got, err := stops.ListByTripID(ctx, parent.ID)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.WithinTrip(ctx, parent.ID, func(r repo.Repos) error {
			if _, err := r.Stops.Create(ctx, stopFixture(parent.ID)); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := stops.ListByTripID(ctx, parent.ID)
		require.NoError(t, err)
		assert.Len(t, got, 1, "the failed batch left nothing behind")
	})
}
