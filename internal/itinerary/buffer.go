package itinerary

import "github.com/pkordes/tripplanner/internal/domain"

// DefaultBuffer is the transition time in minutes after a stop whose
// category has no entry in the exit table.
const DefaultBuffer = 10

// exitBuffers is the minimum time needed to leave a stop of each category.
var exitBuffers = map[domain.Category]int{
	domain.CategoryHotel:         30,
	domain.CategoryAccommodation: 30,
	domain.CategoryFlight:        30,
	domain.CategoryRestaurant:    15,
	domain.CategoryAttraction:    15,
	domain.CategoryActivity:      15,
	domain.CategoryTransport:     5,
}

// entryBuffers is the minimum lead time before arriving at a stop of each category.
var entryBuffers = map[domain.Category]int{
	domain.CategoryHotel:         30,
	domain.CategoryAccommodation: 30,
	domain.CategoryFlight:        60,
}

// TravelBuffer returns the minutes to leave between a stop of category prev
// and a following stop of category next.
func TravelBuffer(prev, next domain.Category) int {
	exit, ok := exitBuffers[prev]
	if !ok {
		exit = DefaultBuffer
	}
	return max(exit, entryBuffers[next])
}
