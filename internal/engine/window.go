package engine

import (
	"time"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/models"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/pkg/dates"
)

// placeholderStayDays is what a leg without stay bounds (the final
// destination) contributes to summed stay costs. The single-day placeholder
// is a fixed, tested behavior carried over from the constraint propagation;
// do not change it to zero.
const placeholderStayDays = 1

func stayCost(legs models.Itinerary, pick func(*models.Leg) *int) int {
	total := 0
	for _, leg := range legs {
		if v := pick(leg); v != nil {
			total += *v
		} else {
			total += placeholderStayDays
		}
	}
	return total
}

func minStayCost(legs models.Itinerary) int {
	return stayCost(legs, func(l *models.Leg) *int { return l.MinStayDuration })
}

func maxStayCost(legs models.Itinerary) int {
	return stayCost(legs, func(l *models.Leg) *int { return l.MaxStayDuration })
}

// ComputeDateWindows propagates the global travel window through the
// per-leg stay constraints. Each leg gets its inclusive candidate date
// range materialized as explicit dates (keys of the Flights map, offers
// not yet resolved) plus the distinct months the range touches.
func ComputeDateWindows(window models.TripWindow, it models.Itinerary) error {
	start, err := dates.Parse(window.StartDate)
	if err != nil {
		return err
	}
	end, err := dates.Parse(window.EndDate)
	if err != nil {
		return err
	}

	for i, leg := range it {
		var from, to time.Time
		switch {
		case i == 0:
			from = start
			to = end.AddDate(0, 0, -minStayCost(it))
		case leg.MinStayDuration == nil:
			// Terminal leg: everything before it must fit ahead of it.
			from = start.AddDate(0, 0, minStayCost(it))
			to = end
		default:
			from = start.AddDate(0, 0, minStayCost(it[:i]))
			to = end.AddDate(0, 0, -maxStayCost(it[i+1:]))
		}

		candidates := dates.Range(from, to)
		leg.Months = dates.Months(candidates)
		leg.Flights = make(map[string][]models.FlightOffer, len(candidates))
		for _, d := range candidates {
			leg.Flights[d] = nil
		}
	}

	return nil
}
