// Package itinerary is the scheduling core of the trip planner.
//
// Every function here is pure: it reads a snapshot of stops, never mutates
// its input, performs no I/O and keeps no package state. Callers (the service
// layer) own the stop collection and must apply a returned batch atomically.
package itinerary

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrUnknownStop is returned when a moved or target stop id is not in the snapshot.
	ErrUnknownStop = errors.New("itinerary: unknown stop")

	// ErrInvalidTarget is returned when a move names neither a target stop nor a valid day.
	ErrInvalidTarget = errors.New("itinerary: invalid move target")
)

// StopUpdate is one entry of a reorder batch. Order is always set; Day is
// non-nil only when the stop changes day.
type StopUpdate struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
	Day   *int      `json:"day,omitempty"`
}

// MoveTarget says where a moved stop should land. When StopID is set the
// stop takes that stop's slot; otherwise it goes to Day at Index, or to the
// end of Day when Index is nil.
type MoveTarget struct {
	StopID *uuid.UUID `json:"stop_id,omitempty"`
	Day    int        `json:"day,omitempty"`
	Index  *int       `json:"index,omitempty"`
}

// MoveKind classifies a drag gesture.
type MoveKind string

const (
	MoveReorder MoveKind = "reorder"
	MoveToDay   MoveKind = "move_to_day"
	MoveSwap    MoveKind = "swap"
)

// DragOperation describes a move after it has been resolved against a snapshot.
type DragOperation struct {
	Kind         MoveKind         `json:"kind"`
	StopID       uuid.UUID        `json:"stop_id"`
	TargetStopID *uuid.UUID       `json:"target_stop_id,omitempty"`
	SourceDay    int              `json:"source_day"`
	SourceIndex  int              `json:"source_index"`
	TargetDay    int              `json:"target_day"`
	TargetIndex  int              `json:"target_index"`
	Adjustments  []TimeAdjustment `json:"adjustments"`
}

// AdjustmentReason explains why a stop's times changed. It is descriptive only.
type AdjustmentReason string

const (
	ReasonTravelBuffer         AdjustmentReason = "travel_buffer"
	ReasonConflictResolution   AdjustmentReason = "conflict_resolution"
	ReasonScheduleOptimization AdjustmentReason = "schedule_optimization"
)

// TimeAdjustment is a proposed new start/end for one stop.
type TimeAdjustment struct {
	StopID       uuid.UUID        `json:"stop_id"`
	NewStartTime string           `json:"new_start_time"`
	NewEndTime   string           `json:"new_end_time"`
	Reason       AdjustmentReason `json:"reason"`
}

// ConflictType names a scheduling problem.
type ConflictType string

const (
	ConflictOverlap          ConflictType = "overlap"
	ConflictImpossibleTiming ConflictType = "impossible_timing"
	ConflictTooLongDay       ConflictType = "too_long_day"
)

// Resolution is both the suggestion attached to a conflict and the choice a
// caller makes when resolving it.
type Resolution string

const (
	ResolutionAutoAdjust   Resolution = "auto_adjust"
	ResolutionManualReview Resolution = "manual_review"
	ResolutionSplitDay     Resolution = "split_day"
	ResolutionAcceptAsIs   Resolution = "accept_as_is"
)

// ScheduleConflict is a derived, never stored, scheduling problem.
type ScheduleConflict struct {
	Type                ConflictType `json:"type"`
	Day                 int          `json:"day"`
	AffectedStops       []uuid.UUID  `json:"affected_stops"`
	Description         string       `json:"description"`
	SuggestedResolution Resolution   `json:"suggested_resolution"`
}
