package itinerary

import (
	"fmt"

	"github.com/pkordes/tripplanner/internal/domain"
)

// Thresholds for recommendations.
const (
	spreadOutDayKm = 15.0
	lowVariety     = 0.0
	poorTimeFit    = 0.3
)

// DayAnalysis scores a day as scheduled. It is informational only.
type DayAnalysis struct {
	Day             int      `json:"day"`
	StopCount       int      `json:"stop_count"`
	TotalDistanceKm float64  `json:"total_distance_km"`
	DistanceScore   float64  `json:"distance_score"`
	VarietyScore    float64  `json:"variety_score"`
	TimeFitScore    float64  `json:"time_fit_score"`
	Score           float64  `json:"score"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzeDay scores a day's stops, sorted by order, using their stored times
// and returns human-readable recommendations.
func AnalyzeDay(dayStops []domain.Stop, dayNumber int) DayAnalysis {
	a := DayAnalysis{
		Day:             dayNumber,
		StopCount:       len(dayStops),
		Recommendations: []string{},
	}
	if len(dayStops) == 0 {
		return a
	}

	slots := observedSlots(dayStops)
	starts := make([]Clock, len(slots))
	for i, s := range slots {
		starts[i] = s.start
	}

	a.TotalDistanceKm = PathDistanceKm(dayStops)
	a.DistanceScore = distanceScore(dayStops)
	a.VarietyScore = varietyScore(dayStops)
	a.TimeFitScore = timeFitScore(dayStops, starts)
	a.Score = distanceWeight*a.DistanceScore + varietyWeight*a.VarietyScore + timeFitWeight*a.TimeFitScore

	if a.TotalDistanceKm > spreadOutDayKm {
		a.Recommendations = append(a.Recommendations,
			fmt.Sprintf("Stops are spread over %.1f km; grouping nearby places would cut travel.", a.TotalDistanceKm))
	}
	if len(dayStops) > 1 && a.VarietyScore < lowVariety {
		a.Recommendations = append(a.Recommendations,
			"Several consecutive stops share a category; alternate sights, food and shopping.")
	}
	if a.TimeFitScore < poorTimeFit {
		a.Recommendations = append(a.Recommendations,
			"Some stops fall outside their usual hours; try optimizing the day order.")
	}
	if missing := len(dayStops) - len(RoutePath(dayStops)); missing > 0 {
		a.Recommendations = append(a.Recommendations,
			fmt.Sprintf("%d stop(s) have no coordinates and are left out of the distance estimate.", missing))
	}
	return a
}
