package models

// Airport is one ranked match from the free-text location lookup.
type Airport struct {
	DisplayName string `json:"display_name"`
	EntityID    string `json:"entity_id"`
}

// FlightOffer is a single priced one-way flight within a leg's
// departure-hour window. Departure and arrival are the remote service's
// local timestamps ("2006-01-02T15:04:05").
type FlightOffer struct {
	Price     float64 `json:"price"`
	Departure string  `json:"departure"`
	Arrival   string  `json:"arrival"`
}

// DatePath assigns one departure date to each leg processed so far. A path
// of full itinerary length is a candidate complete trip awaiting pricing.
type DatePath []string

// Extend copies the path and appends a date; paths are shared between
// generator stages so in-place append would alias backing arrays.
func (p DatePath) Extend(date string) DatePath {
	out := make(DatePath, len(p), len(p)+1)
	copy(out, p)
	return append(out, date)
}

// PricedLeg is one leg of one DatePath resolved to its cheapest offer.
type PricedLeg struct {
	FromEntityID string  `json:"fromEntityId"`
	ToEntityID   string  `json:"toEntityId"`
	Date         string  `json:"date"`
	Price        float64 `json:"price"`
	Departure    string  `json:"departure"`
	Arrival      string  `json:"arrival"`
}

// CompleteItinerary exists only for DatePaths where every leg resolved to
// at least one offer. Total is the sum of leg prices.
type CompleteItinerary struct {
	Total float64     `json:"total"`
	Legs  []PricedLeg `json:"legs"`
}
