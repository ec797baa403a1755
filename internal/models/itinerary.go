package models

import (
	"github.com/Vasile-Andrei-Git/HolidayPlanner/pkg/dates"
)

// Leg is one directed origin→destination segment of a multi-stop trip.
// Stay durations are nights spent at the destination before the next leg
// departs; both are nil on the final-destination leg. The engine enriches
// Months and Flights in place as it discovers feasible dates.
type Leg struct {
	FromEntityID     string `json:"fromEntityId"`
	ToEntityID       string `json:"toEntityId"`
	FinalDestination bool   `json:"final_destination"`
	MinStayDuration  *int   `json:"min_stay_duration"`
	MaxStayDuration  *int   `json:"max_stay_duration"`
	MinDepartureHour string `json:"min_departure_hour"`
	MaxDepartureHour string `json:"max_departure_hour"`

	// Computed by the engine.
	Months  []dates.YearMonth        `json:"months,omitempty"`
	Flights map[string][]FlightOffer `json:"flights,omitempty"`
}

// Itinerary is the ordered list of legs; order defines travel order and
// stay-duration chaining.
type Itinerary []*Leg

func (it Itinerary) Validate() error {
	if len(it) == 0 {
		return ErrEmptyItinerary
	}

	for i, leg := range it {
		if leg.FromEntityID == "" {
			return ErrMissingOrigin
		}
		if leg.ToEntityID == "" {
			return ErrMissingDestination
		}

		if leg.FinalDestination != (i == len(it)-1) {
			return ErrFinalLegPosition
		}

		if leg.FinalDestination {
			if leg.MinStayDuration != nil || leg.MaxStayDuration != nil {
				return ErrStayOnFinalLeg
			}
		} else {
			if leg.MinStayDuration == nil || leg.MaxStayDuration == nil {
				return ErrMissingStayBounds
			}
			if *leg.MinStayDuration > *leg.MaxStayDuration {
				return ErrStayBoundsInverted
			}
			if *leg.MinStayDuration < 0 {
				return ErrNegativeStay
			}
		}

		if leg.MinDepartureHour == "" {
			leg.MinDepartureHour = "00:00:00"
		}
		if leg.MaxDepartureHour == "" {
			leg.MaxDepartureHour = "23:59:59"
		}
		lo, err := dates.ParseHour(leg.MinDepartureHour)
		if err != nil {
			return ErrBadDepartureHour
		}
		hi, err := dates.ParseHour(leg.MaxDepartureHour)
		if err != nil {
			return ErrBadDepartureHour
		}
		if !lo.Before(hi) {
			return ErrDepartureHoursInverted
		}
	}

	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrEmptyItinerary         ValidationError = "itinerary has no legs"
	ErrMissingOrigin          ValidationError = "leg origin is required"
	ErrMissingDestination     ValidationError = "leg destination is required"
	ErrFinalLegPosition       ValidationError = "exactly the last leg must be marked final destination"
	ErrStayOnFinalLeg         ValidationError = "final-destination leg must not carry stay bounds"
	ErrMissingStayBounds      ValidationError = "non-final leg requires min and max stay duration"
	ErrStayBoundsInverted     ValidationError = "min stay duration exceeds max stay duration"
	ErrNegativeStay           ValidationError = "stay duration must not be negative"
	ErrBadDepartureHour       ValidationError = "departure hour must use HH:MM:SS format"
	ErrDepartureHoursInverted ValidationError = "earliest departure hour must be before latest"
)
