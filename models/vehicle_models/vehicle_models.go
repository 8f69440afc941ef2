package vehicle_models

// Vehicle types. Each type lives in its own collection (bikes, cars, scooty),
// mirroring the three parallel tables of the storage layer.
const (
	TypeBike   = "bike"
	TypeCar    = "car"
	TypeScooty = "scooty"
)

// ValidType reports whether t names a known vehicle collection.
func ValidType(t string) bool {
	return t == TypeBike || t == TypeCar || t == TypeScooty
}

// Vehicle is one rentable unit in the catalog. Price is per hour; booking
// math multiplies it by the booking duration in hours.
type Vehicle struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`     // bike | car | scooty
	Category    string  `json:"category"` // e.g. "Sports", "SUV"
	Price       float64 `json:"price"`    // per hour
	IsAvailable bool    `json:"isAvailable"`
	Status      string  `json:"status,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}
