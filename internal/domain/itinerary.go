package domain

// ItineraryRow is one line of a trip's flat itinerary export: one row per
// stop, ordered by day then order, with trip fields repeated on every row.
type ItineraryRow struct {
	TripID    string
	TripName  string
	Day       int
	Order     int
	StopName  string
	Category  Category
	Location  string
	StartTime string
	EndTime   string
	Duration  int
	Locked    bool
	Notes     string
}
