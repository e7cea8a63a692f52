package itinerary

import (
	"math"
	"slices"

	"github.com/pkordes/tripplanner/internal/domain"
)

// Weights of the composite order score.
const (
	distanceWeight = 0.4
	varietyWeight  = 0.3
	timeFitWeight  = 0.3
)

// Variety deltas per transition between consecutive stops.
const (
	categoryChangeBonus  = 0.3
	heavyRepeatPenalty   = -0.5 // restaurant after restaurant, shop after shop
	defaultRepeatPenalty = -0.2
)

// OptimizeDayOrder returns the day's stops in a greedy nearest-best-next
// order with Order reassigned to each stop's position. Times are untouched;
// callers re-run PropagateTimes on the result.
//
// The first input stop is kept as the anchor. At each step every remaining
// candidate is scored as if appended next and the strictly highest score
// wins, so ties go to the earliest candidate. Two or fewer stops are
// returned unchanged. Time-of-day fit lays the day out from 09:00 when the
// anchor has no start; planners with a trip day start use optimizeDay.
func OptimizeDayOrder(dayStops []domain.Stop) []domain.Stop {
	return optimizeDay(dayStops, dayStartClock(""))
}

// optimizeDay is OptimizeDayOrder scoring time-of-day fit from dayStart, the
// same start PropagateTimes will later lay the chosen order out from.
func optimizeDay(dayStops []domain.Stop, dayStart Clock) []domain.Stop {
	if len(dayStops) <= 2 {
		return slices.Clone(dayStops)
	}

	result := []domain.Stop{dayStops[0]}
	remaining := slices.Clone(dayStops[1:])

	for len(remaining) > 0 {
		best, bestScore := 0, math.Inf(-1)
		for i, candidate := range remaining {
			tentative := append(result[:len(result):len(result)], candidate)
			if score := scoreOrder(tentative, dayStart); score > bestScore {
				best, bestScore = i, score
			}
		}
		result = append(result, remaining[best])
		remaining = slices.Delete(remaining, best, best+1)
	}

	for i := range result {
		result[i].Order = i
	}
	return result
}

// OptimizeTripItinerary runs OptimizeDayOrder on every day independently.
// The result holds the same stops, each on its original day, sorted by day
// then order.
func OptimizeTripItinerary(allStops []domain.Stop) []domain.Stop {
	out := make([]domain.Stop, 0, len(allStops))
	for _, day := range Days(allStops) {
		out = append(out, OptimizeDayOrder(DayStops(allStops, day))...)
	}
	return out
}

// scoreOrder is the composite score of a (tentative) visiting order.
func scoreOrder(order []domain.Stop, dayStart Clock) float64 {
	return distanceWeight*distanceScore(order) +
		varietyWeight*varietyScore(order) +
		timeFitWeight*timeFitScore(order, projectedStarts(order, dayStart))
}

// distanceScore maps total path length to (0, 1]; shorter is better.
func distanceScore(order []domain.Stop) float64 {
	return 1 / (1 + PathDistanceKm(order))
}

// varietyScore rewards category changes and penalises repeats, averaged by
// the number of stops.
func varietyScore(order []domain.Stop) float64 {
	if len(order) == 0 {
		return 0
	}
	var score float64
	for i := 1; i < len(order); i++ {
		prev, cur := order[i-1].Category, order[i].Category
		switch {
		case prev != cur:
			score += categoryChangeBonus
		case cur == domain.CategoryRestaurant || cur == domain.CategoryShop:
			score += heavyRepeatPenalty
		default:
			score += defaultRepeatPenalty
		}
	}
	return score / float64(len(order))
}

// timeFitScore averages how well each stop's start hour suits its category.
func timeFitScore(order []domain.Stop, starts []Clock) float64 {
	if len(order) == 0 {
		return 0
	}
	var score float64
	for i, s := range order {
		score += hourFit(s.Category, starts[i].Hour())
	}
	return score / float64(len(order))
}

// hourFit scores one category at one wall-clock hour.
func hourFit(c domain.Category, hour int) float64 {
	in := func(from, to int) bool { return hour >= from && hour < to }

	var fit float64
	switch {
	case (c == domain.CategoryAttraction || c == domain.CategoryActivity) && in(6, 11):
		fit = 1
	case (c == domain.CategoryRestaurant || c == domain.CategoryCafe) && in(11, 14):
		fit = 1
	case (c == domain.CategoryShop || c == domain.CategoryAttraction) && in(14, 18):
		fit = 1
	case (c == domain.CategoryRestaurant || c == domain.CategoryBar) && in(18, 22):
		fit = 1
	}
	if c == domain.CategoryRestaurant && !in(11, 14) && !in(17, 22) {
		fit -= 0.5
	}
	return fit
}

// projectedStarts lays the order out from the anchor's start (or dayStart) so
// time-of-day fit reflects the order being scored, not stale stored times.
func projectedStarts(order []domain.Stop, dayStart Clock) []Clock {
	slots := layout(order, dayStart)
	starts := make([]Clock, len(slots))
	for i, s := range slots {
		starts[i] = s.start
	}
	return starts
}
