package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/repo"
)

// TripStore runs read-modify-write work on one trip atomically and
// serialised against other writers of the same trip. *repo.Store satisfies it.
type TripStore interface {
	WithinTrip(ctx context.Context, tripID uuid.UUID, fn func(repo.Repos) error) error
}
