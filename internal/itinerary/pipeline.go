package itinerary

import (
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

// Batch is everything one operation proposes. Patches merges Updates and
// Adjustments per stop; the host must apply all of them together or none.
type Batch struct {
	Patches     []domain.StopPatch `json:"-"`
	Updates     []StopUpdate       `json:"updates"`
	Adjustments []TimeAdjustment   `json:"adjustments"`
	// Proposed holds adjustments computed but not applied (manual review).
	Proposed  []TimeAdjustment   `json:"proposed,omitempty"`
	Conflicts []ScheduleConflict `json:"conflicts"`
	Operation *DragOperation     `json:"operation,omitempty"`
}

// Empty reports whether the batch changes nothing.
func (b Batch) Empty() bool {
	return len(b.Patches) == 0
}

// MoveRequest is a drag gesture plus how its consequences should be handled.
type MoveRequest struct {
	Kind     MoveKind
	StopID   uuid.UUID
	Target   MoveTarget
	DayStart string
	// Resolution defaults to auto_adjust: propagated times are part of the batch.
	// manual_review keeps times and returns them as Proposed with the conflicts
	// of the unadjusted order; accept_as_is keeps times and drops conflicts.
	Resolution Resolution
}

// PlanMove runs move -> reorder -> propagate -> detect -> resolve for every
// day the move touches and returns the resulting batch.
func PlanMove(stops []domain.Stop, req MoveRequest) (Batch, error) {
	moved, ok := findStop(stops, req.StopID)
	if !ok {
		return Batch{}, ErrUnknownStop
	}

	var (
		updates []StopUpdate
		err     error
	)
	if req.Kind == MoveSwap {
		if req.Target.StopID == nil {
			return Batch{}, ErrInvalidTarget
		}
		updates, err = BuildSwap(stops, req.StopID, *req.Target.StopID)
	} else {
		updates, err = BuildReorder(stops, req.StopID, req.Target)
	}
	if err != nil {
		return Batch{}, err
	}

	batch := emptyBatch()
	if len(updates) == 0 {
		return batch, nil
	}
	batch.Updates = updates

	candidate := ApplyUpdates(stops, updates)
	for _, day := range touchedDays(moved.Day, updates, candidate) {
		dayStops := DayStops(candidate, day)
		adjustments := PropagateTimes(dayStops, PropagateOptions{DayStart: req.DayStart})

		switch req.Resolution {
		case ResolutionManualReview:
			batch.Proposed = append(batch.Proposed, adjustments...)
			batch.Conflicts = append(batch.Conflicts, DetectConflicts(dayStops, day)...)
		case ResolutionAcceptAsIs:
		default:
			batch.Adjustments = append(batch.Adjustments, adjustments...)
			batch.Conflicts = append(batch.Conflicts, DetectConflicts(ApplyAdjustments(dayStops, adjustments), day)...)
		}
	}

	batch.Operation = describeMove(stops, candidate, moved, req, batch.Adjustments)
	batch.Patches = mergePatches(batch.Updates, batch.Adjustments)
	return batch, nil
}

// PlanRetime propagates times through one day in its current order and
// reports the conflicts left afterwards.
func PlanRetime(stops []domain.Stop, day int, opts PropagateOptions) Batch {
	dayStops := DayStops(stops, day)
	batch := emptyBatch()
	batch.Adjustments = PropagateTimes(dayStops, opts)
	batch.Conflicts = DetectConflicts(ApplyAdjustments(dayStops, batch.Adjustments), day)
	batch.Patches = mergePatches(nil, batch.Adjustments)
	return batch
}

// PlanOptimizeDay reorders one day the way OptimizeDayOrder does, then
// propagates times through the new order. Both steps lay the day out from
// dayStart, so the order is chosen for the times that get written.
func PlanOptimizeDay(stops []domain.Stop, day int, dayStart string) Batch {
	batch := emptyBatch()
	planOptimizeInto(&batch, stops, day, dayStart)
	batch.Patches = mergePatches(batch.Updates, batch.Adjustments)
	return batch
}

// PlanOptimizeTrip applies PlanOptimizeDay to every day of the trip.
func PlanOptimizeTrip(stops []domain.Stop, dayStart string) Batch {
	batch := emptyBatch()
	for _, day := range Days(stops) {
		planOptimizeInto(&batch, stops, day, dayStart)
	}
	batch.Patches = mergePatches(batch.Updates, batch.Adjustments)
	return batch
}

// PlanResolve detects a day's conflicts and applies resolution to them.
// The adjustments of auto_adjust are part of the batch; Conflicts holds what
// is left for the caller to act on.
func PlanResolve(stops []domain.Stop, day int, resolution Resolution, dayStart string) Batch {
	dayStops := DayStops(stops, day)
	batch := emptyBatch()
	batch.Adjustments, batch.Conflicts = ResolveConflicts(dayStops, day, DetectConflicts(dayStops, day), resolution, dayStart)
	batch.Patches = mergePatches(nil, batch.Adjustments)
	return batch
}

// PlanCompact renumbers a day to 0..n-1, for use after a stop was removed.
func PlanCompact(stops []domain.Stop, day int) Batch {
	batch := emptyBatch()
	batch.Updates = CompactDay(stops, day)
	batch.Patches = mergePatches(batch.Updates, nil)
	return batch
}

func planOptimizeInto(batch *Batch, stops []domain.Stop, day int, dayStart string) {
	optimized := optimizeDay(DayStops(stops, day), dayStartClock(dayStart))
	// Renumber against the snapshot so stale or gapped orders are healed too.
	before := indexByID(stops)
	for i, s := range optimized {
		if stops[before[s.ID]].Order != i {
			batch.Updates = append(batch.Updates, StopUpdate{ID: s.ID, Order: i})
		}
		optimized[i].Order = i
	}

	adjustments := PropagateTimes(optimized, PropagateOptions{DayStart: dayStart})
	batch.Adjustments = append(batch.Adjustments, adjustments...)
	batch.Conflicts = append(batch.Conflicts, DetectConflicts(ApplyAdjustments(optimized, adjustments), day)...)
}

// touchedDays lists the moved stop's original day plus every day named by
// the updates, ascending.
func touchedDays(sourceDay int, updates []StopUpdate, candidate []domain.Stop) []int {
	days := []int{sourceDay}
	idx := indexByID(candidate)
	for _, u := range updates {
		days = append(days, candidate[idx[u.ID]].Day)
	}
	slices.Sort(days)
	return slices.Compact(days)
}

func describeMove(before, after []domain.Stop, moved domain.Stop, req MoveRequest, adjustments []TimeAdjustment) *DragOperation {
	landed, _ := findStop(after, moved.ID)
	op := &DragOperation{
		Kind:         req.Kind,
		StopID:       moved.ID,
		TargetStopID: req.Target.StopID,
		SourceDay:    moved.Day,
		SourceIndex:  indexOf(DayStops(before, moved.Day), moved.ID),
		TargetDay:    landed.Day,
		TargetIndex:  landed.Order,
		Adjustments:  adjustments,
	}
	if op.Kind == "" {
		op.Kind = MoveReorder
		if landed.Day != moved.Day {
			op.Kind = MoveToDay
		}
	}
	return op
}

// mergePatches folds order/day updates and time adjustments into one patch
// per stop, in first-seen order.
func mergePatches(updates []StopUpdate, adjustments []TimeAdjustment) []domain.StopPatch {
	patches := []domain.StopPatch{}
	pos := map[uuid.UUID]int{}
	at := func(id uuid.UUID) *domain.StopPatch {
		i, ok := pos[id]
		if !ok {
			i = len(patches)
			pos[id] = i
			patches = append(patches, domain.StopPatch{ID: id})
		}
		return &patches[i]
	}

	for _, u := range updates {
		p := at(u.ID)
		order := u.Order
		p.Order = &order
		if u.Day != nil {
			day := *u.Day
			p.Day = &day
		}
	}
	for _, a := range adjustments {
		p := at(a.StopID)
		start, end := a.NewStartTime, a.NewEndTime
		p.StartTime, p.EndTime = &start, &end
	}
	return patches
}

func emptyBatch() Batch {
	return Batch{
		Patches:     []domain.StopPatch{},
		Updates:     []StopUpdate{},
		Adjustments: []TimeAdjustment{},
		Conflicts:   []ScheduleConflict{},
	}
}
