package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repos is a set of repositories bound to one transaction.
type Repos struct {
	Trips TripRepo
	Stops StopRepo
}

// txBeginner is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx (where
// Begin opens a savepoint).
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store runs multi-statement work against a trip in a single transaction.
type Store struct {
	db txBeginner
}

// NewStore constructs a Store. In production pass *pgxpool.Pool.
func NewStore(db txBeginner) *Store {
	return &Store{db: db}
}

// WithinTrip runs fn in a transaction holding an exclusive advisory lock on
// tripID. Every read-modify-write of a trip's stops goes through here, so
// two batches for the same trip never interleave. The transaction commits
// when fn returns nil and rolls back otherwise.
func (s *Store) WithinTrip(ctx context.Context, tripID uuid.UUID, fn func(Repos) error) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		const lock = `SELECT pg_advisory_xact_lock(hashtextextended(@trip_id::text, 0))`
		if _, err := tx.Exec(ctx, lock, pgx.NamedArgs{"trip_id": tripID.String()}); err != nil {
			return fmt.Errorf("lock: %w", err)
		}
		return fn(Repos{Trips: NewTripRepo(tx), Stops: NewStopRepo(tx)})
	})
	if err != nil {
		return fmt.Errorf("repo.Store.WithinTrip: %w", err)
	}
	return nil
}
