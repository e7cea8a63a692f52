package itinerary

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

// DayStops returns a copy of the stops on day, sorted by order.
// Stops sharing an order value keep their snapshot order.
func DayStops(stops []domain.Stop, day int) []domain.Stop {
	var out []domain.Stop
	for _, s := range stops {
		if s.Day == day {
			out = append(out, s)
		}
	}
	sortByOrder(out)
	return out
}

// Days returns the distinct day numbers present in stops, ascending.
func Days(stops []domain.Stop) []int {
	var days []int
	for _, s := range stops {
		days = append(days, s.Day)
	}
	slices.Sort(days)
	return slices.Compact(days)
}

// ApplyUpdates returns a copy of stops with the reorder batch applied.
// Updates naming unknown ids are ignored.
func ApplyUpdates(stops []domain.Stop, updates []StopUpdate) []domain.Stop {
	out := slices.Clone(stops)
	idx := indexByID(out)
	for _, u := range updates {
		i, ok := idx[u.ID]
		if !ok {
			continue
		}
		out[i].Order = u.Order
		if u.Day != nil {
			out[i].Day = *u.Day
		}
	}
	return out
}

// ApplyAdjustments returns a copy of stops with the time adjustments applied.
func ApplyAdjustments(stops []domain.Stop, adjustments []TimeAdjustment) []domain.Stop {
	out := slices.Clone(stops)
	idx := indexByID(out)
	for _, a := range adjustments {
		i, ok := idx[a.StopID]
		if !ok {
			continue
		}
		out[i].StartTime = a.NewStartTime
		out[i].EndTime = a.NewEndTime
	}
	return out
}

// CompactDay renumbers the stops of day to 0..n-1 in their current order and
// returns updates for the stops whose order changed.
func CompactDay(stops []domain.Stop, day int) []StopUpdate {
	return renumber(DayStops(stops, day), day)
}

// renumber assigns order = position to every stop in list and moves it to day.
// Only stops whose order or day actually changes produce an update.
func renumber(list []domain.Stop, day int) []StopUpdate {
	updates := []StopUpdate{}
	for i, s := range list {
		dayChanged := s.Day != day
		if s.Order == i && !dayChanged {
			continue
		}
		u := StopUpdate{ID: s.ID, Order: i}
		if dayChanged {
			d := day
			u.Day = &d
		}
		updates = append(updates, u)
	}
	return updates
}

func sortByOrder(stops []domain.Stop) {
	slices.SortStableFunc(stops, func(a, b domain.Stop) int {
		return cmp.Compare(a.Order, b.Order)
	})
}

func indexByID(stops []domain.Stop) map[uuid.UUID]int {
	idx := make(map[uuid.UUID]int, len(stops))
	for i, s := range stops {
		idx[s.ID] = i
	}
	return idx
}

func findStop(stops []domain.Stop, id uuid.UUID) (domain.Stop, bool) {
	for _, s := range stops {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Stop{}, false
}

func indexOf(stops []domain.Stop, id uuid.UUID) int {
	return slices.IndexFunc(stops, func(s domain.Stop) bool { return s.ID == id })
}
