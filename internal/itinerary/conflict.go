package itinerary

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

// maxDayMinutes is the longest earliest-start to latest-end span accepted for a day.
const maxDayMinutes = 14 * 60

// DetectConflicts scans a day's stops, sorted by order, for problems.
//
// Overlaps between adjacent stops come first, then stops running past
// midnight, then a single too_long_day conflict when the day spans more than
// 14 hours. Fewer than two stops never conflict. An empty slice means no conflicts.
func DetectConflicts(dayStops []domain.Stop, dayNumber int) []ScheduleConflict {
	conflicts := []ScheduleConflict{}
	if len(dayStops) < 2 {
		return conflicts
	}

	slots := observedSlots(dayStops)

	for i := 0; i+1 < len(dayStops); i++ {
		a, b := dayStops[i], dayStops[i+1]
		if slots[i].end <= slots[i+1].start {
			continue
		}
		resolution := ResolutionAutoAdjust
		if a.IsLocked || b.IsLocked {
			resolution = ResolutionManualReview
		}
		conflicts = append(conflicts, ScheduleConflict{
			Type:          ConflictOverlap,
			Day:           dayNumber,
			AffectedStops: []uuid.UUID{a.ID, b.ID},
			Description: fmt.Sprintf("%s ends at %s but %s starts at %s",
				label(a), slots[i].end, label(b), slots[i+1].start),
			SuggestedResolution: resolution,
		})
	}

	for i, s := range dayStops {
		if slots[i].end <= minutesPerDay {
			continue
		}
		conflicts = append(conflicts, ScheduleConflict{
			Type:                ConflictImpossibleTiming,
			Day:                 dayNumber,
			AffectedStops:       []uuid.UUID{s.ID},
			Description:         fmt.Sprintf("%s runs past midnight (ends %s the next day)", label(s), slots[i].end),
			SuggestedResolution: ResolutionManualReview,
		})
	}

	first, last := slots[0].start, slots[0].end
	for _, s := range slots[1:] {
		first, last = min(first, s.start), max(last, s.end)
	}
	if span := int(last - first); span > maxDayMinutes {
		ids := make([]uuid.UUID, len(dayStops))
		for i, s := range dayStops {
			ids[i] = s.ID
		}
		conflicts = append(conflicts, ScheduleConflict{
			Type:          ConflictTooLongDay,
			Day:           dayNumber,
			AffectedStops: ids,
			Description: fmt.Sprintf("Day %d runs %dh%02dm from %s to %s, over the %d hour limit",
				dayNumber, span/60, span%60, first, last, maxDayMinutes/60),
			SuggestedResolution: ResolutionSplitDay,
		})
	}

	return conflicts
}

// ResolveConflicts applies the caller's chosen resolution to a day.
//
// auto_adjust re-runs time propagation (reason conflict_resolution) and
// returns the adjustments plus whatever conflicts survive them. manual_review
// changes nothing and returns the conflicts unchanged. accept_as_is discards them.
func ResolveConflicts(dayStops []domain.Stop, dayNumber int, conflicts []ScheduleConflict, resolution Resolution, dayStart string) ([]TimeAdjustment, []ScheduleConflict) {
	switch resolution {
	case ResolutionAutoAdjust:
		adjustments := PropagateTimes(dayStops, PropagateOptions{DayStart: dayStart, Reason: ReasonConflictResolution})
		return adjustments, DetectConflicts(ApplyAdjustments(dayStops, adjustments), dayNumber)
	case ResolutionAcceptAsIs:
		return []TimeAdjustment{}, []ScheduleConflict{}
	default:
		return []TimeAdjustment{}, conflicts
	}
}

// observedSlots reads the stops' stored times onto a day timeline. A stop
// without a start follows the previous one after the travel buffer; the
// first such stop starts at 09:00.
func observedSlots(stops []domain.Stop) []slot {
	slots := make([]slot, len(stops))
	for i, s := range stops {
		start, ok := ParseClock(s.StartTime)
		switch {
		case i == 0 && !ok:
			start = dayStartClock("")
		case i > 0 && !ok:
			start = slots[i-1].end.Add(TravelBuffer(stops[i-1].Category, s.Category))
		case i > 0:
			start = followingStart(start, slots[i-1].end)
		}
		slots[i] = slot{start: start, end: storedEnd(s, start)}
	}
	return slots
}

func label(s domain.Stop) string {
	if s.Name != "" {
		return fmt.Sprintf("%q", s.Name)
	}
	return "stop " + s.ID.String()
}
