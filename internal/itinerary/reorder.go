package itinerary

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

// BuildReorder turns a move gesture into per-stop order/day updates.
//
// A same-day move uses array-move semantics: the moved stop takes the
// target's slot and the stops in between shift by one. A cross-day move
// removes the stop from its day, inserts it before the target (or at
// Target.Index, or at the end) of the destination day, and renumbers both
// days from 0. Only stops whose order or day changes are returned; a move
// onto its own position returns an empty slice.
func BuildReorder(stops []domain.Stop, movedID uuid.UUID, target MoveTarget) ([]StopUpdate, error) {
	moved, ok := findStop(stops, movedID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStop, movedID)
	}

	destDay, destIndex, err := resolveTarget(stops, target)
	if err != nil {
		return nil, err
	}

	source := DayStops(stops, moved.Day)
	from := indexOf(source, movedID)

	if destDay == moved.Day {
		to := destIndex
		if to < 0 || to > len(source)-1 {
			to = len(source) - 1
		}
		if from == to {
			return []StopUpdate{}, nil
		}
		return renumber(arrayMove(source, from, to), moved.Day), nil
	}

	remaining := slices.Delete(slices.Clone(source), from, from+1)
	dest := DayStops(stops, destDay)
	at := destIndex
	if at < 0 || at > len(dest) {
		at = len(dest)
	}
	dest = slices.Insert(dest, at, moved)

	updates := renumber(remaining, moved.Day)
	return append(updates, renumber(dest, destDay)...), nil
}

// BuildSwap exchanges the (day, order) slots of two stops. Swapping a stop
// with itself returns an empty slice.
func BuildSwap(stops []domain.Stop, aID, bID uuid.UUID) ([]StopUpdate, error) {
	a, ok := findStop(stops, aID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStop, aID)
	}
	b, ok := findStop(stops, bID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStop, bID)
	}
	if aID == bID {
		return []StopUpdate{}, nil
	}

	dayA := DayStops(stops, a.Day)
	ia := indexOf(dayA, aID)
	if a.Day == b.Day {
		ib := indexOf(dayA, bID)
		dayA[ia], dayA[ib] = dayA[ib], dayA[ia]
		return renumber(dayA, a.Day), nil
	}

	dayB := DayStops(stops, b.Day)
	ib := indexOf(dayB, bID)
	dayA[ia], dayB[ib] = b, a

	updates := renumber(dayA, a.Day)
	return append(updates, renumber(dayB, b.Day)...), nil
}

// resolveTarget returns the destination day and insertion index for target.
// An index of -1 means "append".
func resolveTarget(stops []domain.Stop, target MoveTarget) (day, index int, err error) {
	if target.StopID != nil {
		t, ok := findStop(stops, *target.StopID)
		if !ok {
			return 0, 0, fmt.Errorf("%w: %s", ErrUnknownStop, *target.StopID)
		}
		return t.Day, indexOf(DayStops(stops, t.Day), t.ID), nil
	}
	if target.Day < 1 {
		return 0, 0, fmt.Errorf("%w: day must be >= 1, got %d", ErrInvalidTarget, target.Day)
	}
	if target.Index == nil {
		return target.Day, -1, nil
	}
	return target.Day, max(*target.Index, 0), nil
}

// arrayMove returns a copy of list with the element at from moved to to.
func arrayMove(list []domain.Stop, from, to int) []domain.Stop {
	item := list[from]
	out := slices.Delete(slices.Clone(list), from, from+1)
	return slices.Insert(out, to, item)
}
