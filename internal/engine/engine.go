package engine

import (
	"context"
	"log"
	"time"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/models"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/obs"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/skyscanner"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/pkg/dates"
)

// SearchClient is the remote-search surface the engine consumes.
type SearchClient interface {
	AvailableDepartureDates(ctx context.Context, fromID, toID string, month dates.YearMonth) ([]string, error)
	FlightSearcher
}

// Engine runs one itinerary resolution: date-window propagation, calendar
// availability, combinatorial path expansion and priced selection.
type Engine struct {
	client  SearchClient
	metrics *obs.Metrics
	workers int
}

// Result is the run outcome: itineraries sorted ascending by total price.
type Result struct {
	Itineraries []models.CompleteItinerary
	Metadata    models.RunMetadata
}

func New(client SearchClient, metrics *obs.Metrics, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{client: client, metrics: metrics, workers: workers}
}

// Resolve assumes a validated itinerary and window. Legs are enriched in
// place (months, feasible dates) as discovery progresses.
func (e *Engine) Resolve(ctx context.Context, window models.TripWindow, it models.Itinerary) (*Result, error) {
	started := time.Now()

	if err := ComputeDateWindows(window, it); err != nil {
		return nil, err
	}

	for i, leg := range it {
		available := make(map[string]bool)
		for _, month := range leg.Months {
			ds, err := e.client.AvailableDepartureDates(ctx, leg.FromEntityID, leg.ToEntityID, month)
			if err != nil {
				return nil, err
			}
			for _, d := range ds {
				available[d] = true
			}
		}

		for d := range leg.Flights {
			if !available[d] {
				delete(leg.Flights, d)
			}
		}
		log.Printf("[engine] leg %d %s→%s: %d candidate dates with service",
			i, leg.FromEntityID, leg.ToEntityID, len(leg.Flights))
	}

	paths, err := ExpandDatePaths(it)
	if err != nil {
		return nil, err
	}
	log.Printf("[engine] generated %d candidate date paths", len(paths))
	if e.metrics != nil {
		e.metrics.SetPathsGenerated(len(paths))
	}

	sel := newSelector(e.client, e.workers)
	complete, dropped, err := sel.resolve(ctx, it, paths)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.SetItinerariesResolved(len(complete))
	}
	log.Printf("[engine] resolved %d complete itineraries (%d paths dropped)", len(complete), dropped)

	return &Result{
		Itineraries: complete,
		Metadata: models.RunMetadata{
			PathsGenerated:      len(paths),
			PathsDropped:        dropped,
			ItinerariesResolved: len(complete),
			SearchTimeMs:        time.Since(started).Milliseconds(),
		},
	}, nil
}

var _ SearchClient = (*skyscanner.Client)(nil)
