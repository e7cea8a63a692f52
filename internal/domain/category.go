package domain

// Category classifies a stop. It drives travel buffers, variety scoring, and
// time-of-day fit.
type Category string

const (
	CategoryAttraction    Category = "attraction"
	CategoryRestaurant    Category = "restaurant"
	CategoryCafe          Category = "cafe"
	CategoryBar           Category = "bar"
	CategoryShop          Category = "shop"
	CategoryHotel         Category = "hotel"
	CategoryAccommodation Category = "accommodation"
	CategoryActivity      Category = "activity"
	CategoryTransport     Category = "transport"
	CategoryFlight        Category = "flight"
	CategoryTip           Category = "tip"
)

// Categories lists every known category in a stable order.
var Categories = []Category{
	CategoryAttraction, CategoryRestaurant, CategoryCafe, CategoryBar,
	CategoryShop, CategoryHotel, CategoryAccommodation, CategoryActivity,
	CategoryTransport, CategoryFlight, CategoryTip,
}

// Valid reports whether c is a known category. The empty category is valid
// and means "unspecified".
func (c Category) Valid() bool {
	if c == "" {
		return true
	}
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// IsLodging reports whether c is a hotel or accommodation stop.
func (c Category) IsLodging() bool {
	return c == CategoryHotel || c == CategoryAccommodation
}
