package itinerary

import (
	"math"

	"github.com/pkordes/tripplanner/internal/domain"
)

const earthRadiusKm = 6371.0

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HaversineKm returns the great-circle distance between a and b in kilometres.
func HaversineKm(a, b Coordinates) float64 {
	lat1, lat2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// RoutePath returns the coordinates of the stops that have them, in order.
// Stops without coordinates are skipped.
func RoutePath(dayStops []domain.Stop) []Coordinates {
	path := []Coordinates{}
	for _, s := range dayStops {
		if s.HasCoordinates() {
			path = append(path, Coordinates{Lat: *s.Latitude, Lng: *s.Longitude})
		}
	}
	return path
}

// PathDistanceKm sums the haversine legs between consecutive stops that have
// coordinates. Stops without coordinates contribute nothing.
func PathDistanceKm(stops []domain.Stop) float64 {
	path := RoutePath(stops)
	var total float64
	for i := 1; i < len(path); i++ {
		total += HaversineKm(path[i-1], path[i])
	}
	return total
}

// DayRoute is the drawable path of one day.
type DayRoute struct {
	Day        int           `json:"day"`
	Path       []Coordinates `json:"path"`
	DistanceKm float64       `json:"distance_km"`
	// Skipped counts stops left out for lack of coordinates.
	Skipped int `json:"skipped"`
}

// RouteForDay builds the route of a day's stops, sorted by order.
func RouteForDay(dayStops []domain.Stop, dayNumber int) DayRoute {
	path := RoutePath(dayStops)
	return DayRoute{
		Day:        dayNumber,
		Path:       path,
		DistanceKm: PathDistanceKm(dayStops),
		Skipped:    len(dayStops) - len(path),
	}
}
