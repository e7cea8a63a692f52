package itinerary

import (
	"github.com/pkordes/tripplanner/internal/domain"
)

// PropagateOptions configures PropagateTimes.
type PropagateOptions struct {
	// DayStart is the "HH:MM" start used when the first stop has none. Defaults to 09:00.
	DayStart string
	// Reason is stamped on every adjustment. Defaults to ReasonScheduleOptimization.
	Reason AdjustmentReason
}

// slot is a stop's position on a day timeline. Values may exceed 24:00.
type slot struct {
	start, end Clock
}

// PropagateTimes recomputes start and end times for a day whose stops are
// given in their final order.
//
// The first stop keeps its own start (or DayStart); each later stop starts at
// the previous stop's end plus the travel buffer between their categories.
// End is always start + duration. Locked stops are fixed anchors: they are
// never adjusted and the walk continues from their own end. Only stops whose
// times actually change are returned, so a consistent day yields no adjustments.
func PropagateTimes(dayStops []domain.Stop, opts PropagateOptions) []TimeAdjustment {
	reason := opts.Reason
	if reason == "" {
		reason = ReasonScheduleOptimization
	}

	adjustments := []TimeAdjustment{}
	slots := layout(dayStops, dayStartClock(opts.DayStart))
	for i, s := range dayStops {
		if s.IsLocked {
			continue
		}
		start, end := slots[i].start.String(), slots[i].end.String()
		if normalizeClock(s.StartTime) == start && normalizeClock(s.EndTime) == end {
			continue
		}
		adjustments = append(adjustments, TimeAdjustment{
			StopID:       s.ID,
			NewStartTime: start,
			NewEndTime:   end,
			Reason:       reason,
		})
	}
	return adjustments
}

// layout places stops back to back on a timeline beginning at dayStart,
// honouring locked anchors.
func layout(stops []domain.Stop, dayStart Clock) []slot {
	slots := make([]slot, len(stops))
	for i, s := range stops {
		var start Clock
		if i == 0 {
			start = dayStart
			if c, ok := ParseClock(s.StartTime); ok {
				start = c
			}
		} else {
			prev := stops[i-1]
			start = slots[i-1].end.Add(TravelBuffer(prev.Category, s.Category))
		}

		if s.IsLocked {
			slots[i] = lockedSlot(s, start, i > 0)
			continue
		}
		slots[i] = slot{start: start, end: start.Add(s.DurationOrDefault())}
	}
	return slots
}

// lockedSlot keeps a locked stop at its stored times. A locked stop without
// a start time occupies the computed slot.
func lockedSlot(s domain.Stop, computed Clock, unwrap bool) slot {
	start, ok := ParseClock(s.StartTime)
	if !ok {
		return slot{start: computed, end: computed.Add(s.DurationOrDefault())}
	}
	if unwrap {
		start = followingStart(start, computed)
	}
	return slot{start: start, end: storedEnd(s, start)}
}

// storedEnd returns the stop's stored end on the timeline after start, or
// start + duration when no end is stored.
func storedEnd(s domain.Stop, start Clock) Clock {
	end, ok := ParseClock(s.EndTime)
	if !ok {
		return start.Add(s.DurationOrDefault())
	}
	for end < start {
		end += minutesPerDay
	}
	return end
}

// Fit is the result of placing one stop between two fixed neighbours.
type Fit struct {
	Start string `json:"start"`
	End   string `json:"end"`
	// Latest is the latest start that still clears the next stop's buffer.
	// Empty when there is no timed next stop.
	Latest string `json:"latest,omitempty"`
	// Fits is false when Start leaves the stop colliding with the next one.
	Fits bool `json:"fits"`
}

// FitBetween computes a start time for stop placed after prev and before
// next (either may be nil).
//
// The two bounds are combined as max(earliest, min(earliest, latest)), which
// always equals earliest: the next stop never pulls the new stop earlier.
// A collision with next is reported through Fits instead of being clamped.
func FitBetween(prev, next *domain.Stop, stop domain.Stop, dayStart string) Fit {
	earliest := dayStartClock(dayStart)
	if prev != nil {
		pstart, ok := ParseClock(prev.StartTime)
		if !ok {
			pstart = earliest
		}
		earliest = storedEnd(*prev, pstart).Add(TravelBuffer(prev.Category, stop.Category))
	}

	start := earliest
	fit := Fit{Fits: true}
	if next != nil {
		if nstart, ok := ParseClock(next.StartTime); ok {
			nstart = followingStart(nstart, earliest)
			latest := nstart.Add(-TravelBuffer(stop.Category, next.Category) - stop.DurationOrDefault())
			start = max(earliest, min(earliest, latest))
			fit.Latest = latest.String()
			fit.Fits = earliest <= latest
		}
	}

	fit.Start = start.String()
	fit.End = start.Add(stop.DurationOrDefault()).String()
	return fit
}
