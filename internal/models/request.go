package models

import (
	"time"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/pkg/dates"
)

// TripWindow is the global travel window: earliest departure date of the
// first leg and latest return date of the last.
type TripWindow struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Validate checks date formats, ordering and that neither bound lies in the
// past relative to now.
func (w TripWindow) Validate(now time.Time) error {
	if w.StartDate == "" {
		return ErrMissingStartDate
	}
	if w.EndDate == "" {
		return ErrMissingEndDate
	}

	start, err := dates.Parse(w.StartDate)
	if err != nil {
		return ErrBadDateFormat
	}
	end, err := dates.Parse(w.EndDate)
	if err != nil {
		return ErrBadDateFormat
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) || end.Before(today) {
		return ErrDateInPast
	}
	if end.Before(start) {
		return ErrWindowInverted
	}

	return nil
}

// FitsStayBounds checks that the itinerary's summed maximum stays fit inside
// the window. Absent bounds contribute nothing here; the placeholder day
// convention applies only to per-leg range computation.
func (w TripWindow) FitsStayBounds(it Itinerary) error {
	start, err := dates.Parse(w.StartDate)
	if err != nil {
		return ErrBadDateFormat
	}
	end, err := dates.Parse(w.EndDate)
	if err != nil {
		return ErrBadDateFormat
	}

	total := 0
	for _, leg := range it {
		if leg.MaxStayDuration != nil {
			total += *leg.MaxStayDuration
		}
	}

	if start.AddDate(0, 0, total).After(end) {
		return ErrStayExceedsWindow
	}
	return nil
}

// ResolveRequest is the HTTP body for a resolution run.
type ResolveRequest struct {
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Legs      Itinerary `json:"legs"`
}

func (r *ResolveRequest) Validate(now time.Time) error {
	w := TripWindow{StartDate: r.StartDate, EndDate: r.EndDate}
	if err := w.Validate(now); err != nil {
		return err
	}
	if err := r.Legs.Validate(); err != nil {
		return err
	}
	return w.FitsStayBounds(r.Legs)
}

const (
	ErrMissingStartDate  ValidationError = "start_date is required"
	ErrMissingEndDate    ValidationError = "end_date is required"
	ErrBadDateFormat     ValidationError = "dates must use YYYY-MM-DD format"
	ErrDateInPast        ValidationError = "travel dates must be today or later"
	ErrWindowInverted    ValidationError = "end_date is earlier than start_date"
	ErrStayExceedsWindow ValidationError = "summed max stay durations exceed the travel window"
)
