package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripplanner/internal/domain"
)

// StopRepo defines the persistence operations for Stops.
// All write and single-read operations are scoped by tripID to enforce ownership.
type StopRepo interface {
	// Create inserts a new stop at the end of its day (order = current max + 1)
	// and returns the persisted record.
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// GetByID retrieves a single stop by its UUID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no stop with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error)

	// ListByTripID returns all stops for a trip ordered by day, then order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)

	// ListByDay returns one day's stops ordered by order.
	ListByDay(ctx context.Context, tripID uuid.UUID, day int) ([]domain.Stop, error)

	// ListByTripIDPaged returns one page of a trip's stops plus the total count.
	ListByTripIDPaged(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Stop, int64, error)

	// Update overwrites the descriptive and timing fields of a stop. Day and
	// order are left alone; they change only through ApplyUpdates.
	// Returns domain.ErrNotFound if no stop with that ID exists under that trip.
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// Delete removes a stop by ID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no stop with that ID exists under that trip.
	Delete(ctx context.Context, tripID, stopID uuid.UUID) error

	// ApplyUpdates writes a batch of patches in one round trip. Nil patch
	// fields keep their stored value. Returns domain.ErrNotFound if any patch
	// names a stop outside the trip; callers run it inside a transaction so
	// the batch lands all or nothing.
	ApplyUpdates(ctx context.Context, tripID uuid.UUID, patches []domain.StopPatch) error
}

// pgStopRepo is the Postgres implementation of StopRepo.
type pgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStopRepo(db db) StopRepo {
	return &pgStopRepo{db: db}
}

const stopColumns = `id, trip_id, name, location, category, day, sort_order,
	start_time, end_time, duration, latitude, longitude, is_locked, notes,
	created_at, updated_at`

func (r *pgStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		INSERT INTO stops (trip_id, name, location, category, day, sort_order,
		                   start_time, end_time, duration, latitude, longitude, is_locked, notes)
		VALUES (@trip_id, @name, @location, @category, @day,
		        (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM stops WHERE trip_id = @trip_id AND day = @day),
		        @start_time, @end_time, @duration, @latitude, @longitude, @is_locked, @notes)
		RETURNING ` + stopColumns

	args := stopArgs(stop)
	args["trip_id"] = stop.TripID

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) GetByID(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error) {
	const q = `SELECT ` + stopColumns + ` FROM stops WHERE id = @id AND trip_id = @trip_id`

	result, err := scanStop(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": stopID, "trip_id": tripID}))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE trip_id = @trip_id
		ORDER BY day, sort_order`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: %w", err)
	}
	stops, err := collectStops(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: %w", err)
	}
	return stops, nil
}

func (r *pgStopRepo) ListByDay(ctx context.Context, tripID uuid.UUID, day int) ([]domain.Stop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE trip_id = @trip_id AND day = @day
		ORDER BY sort_order`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "day": day})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByDay: %w", err)
	}
	stops, err := collectStops(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByDay: %w", err)
	}
	return stops, nil
}

func (r *pgStopRepo) ListByTripIDPaged(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Stop, int64, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE trip_id = @trip_id
		ORDER BY day, sort_order
		LIMIT @limit OFFSET @offset`

	var total int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM stops WHERE trip_id = @trip_id`,
		pgx.NamedArgs{"trip_id": tripID}).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.StopRepo.ListByTripIDPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.StopRepo.ListByTripIDPaged: %w", err)
	}
	stops, err := collectStops(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.StopRepo.ListByTripIDPaged: %w", err)
	}
	return stops, total, nil
}

func (r *pgStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		UPDATE stops
		SET name       = @name,
		    location   = @location,
		    category   = @category,
		    start_time = @start_time,
		    end_time   = @end_time,
		    duration   = @duration,
		    latitude   = @latitude,
		    longitude  = @longitude,
		    is_locked  = @is_locked,
		    notes      = @notes,
		    updated_at = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + stopColumns

	args := stopArgs(stop)
	args["id"] = stop.ID
	args["trip_id"] = stop.TripID

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) Delete(ctx context.Context, tripID, stopID uuid.UUID) error {
	const q = `DELETE FROM stops WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": stopID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.StopRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StopRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgStopRepo) ApplyUpdates(ctx context.Context, tripID uuid.UUID, patches []domain.StopPatch) error {
	if len(patches) == 0 {
		return nil
	}

	const q = `
		UPDATE stops
		SET day        = COALESCE(@day, day),
		    sort_order = COALESCE(@sort_order, sort_order),
		    start_time = COALESCE(@start_time, start_time),
		    end_time   = COALESCE(@end_time, end_time),
		    latitude   = COALESCE(@latitude, latitude),
		    longitude  = COALESCE(@longitude, longitude),
		    updated_at = now()
		WHERE id = @id AND trip_id = @trip_id`

	batch := &pgx.Batch{}
	for _, p := range patches {
		batch.Queue(q, pgx.NamedArgs{
			"id":         p.ID,
			"trip_id":    tripID,
			"day":        p.Day,
			"sort_order": p.Order,
			"start_time": p.StartTime,
			"end_time":   p.EndTime,
			"latitude":   p.Latitude,
			"longitude":  p.Longitude,
		})
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, p := range patches {
		tag, err := results.Exec()
		if err != nil {
			return fmt.Errorf("repo.StopRepo.ApplyUpdates: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("repo.StopRepo.ApplyUpdates: stop %s: %w", p.ID, domain.ErrNotFound)
		}
	}
	return nil
}

// stopArgs holds the named arguments shared by Create and Update.
func stopArgs(s domain.Stop) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":       s.Name,
		"location":   s.Location,
		"category":   string(s.Category),
		"day":        s.Day,
		"start_time": s.StartTime,
		"end_time":   s.EndTime,
		"duration":   s.Duration,
		"latitude":   s.Latitude, // nil becomes NULL
		"longitude":  s.Longitude,
		"is_locked":  s.IsLocked,
		"notes":      s.Notes,
	}
}

func collectStops(rows pgx.Rows) ([]domain.Stop, error) {
	defer rows.Close()

	stops := []domain.Stop{}
	for rows.Next() {
		s, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return stops, nil
}

// scanStop maps a single database row into a domain.Stop.
func scanStop(s scanner) (domain.Stop, error) {
	var (
		st       domain.Stop
		id       pgtype.UUID
		tripID   pgtype.UUID
		category string
		lat, lng pgtype.Float8
	)

	err := s.Scan(&id, &tripID, &st.Name, &st.Location, &category, &st.Day, &st.Order,
		&st.StartTime, &st.EndTime, &st.Duration, &lat, &lng, &st.IsLocked, &st.Notes,
		&st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stop{}, domain.ErrNotFound
		}
		return domain.Stop{}, err
	}

	st.ID = uuid.UUID(id.Bytes)
	st.TripID = uuid.UUID(tripID.Bytes)
	st.Category = domain.Category(category)
	if lat.Valid {
		v := lat.Float64
		st.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		st.Longitude = &v
	}
	return st, nil
}
