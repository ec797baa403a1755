package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/models"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/skyscanner"
)

// legDate identifies one flight lookup within a run; every DatePath sharing
// the pair reuses the same result.
type legDate struct {
	leg  int
	date string
}

type lookupResult struct {
	once   sync.Once
	priced models.PricedLeg
	found  bool
	err    error
}

// selector resolves DatePaths to priced flights. Lookups are memoized per
// (legIndex, date) for the lifetime of one run, independent of the cache
// store, so a pair known to have zero qualifying offers is never queried
// twice even across sibling paths.
type selector struct {
	client  FlightSearcher
	workers int

	mu   sync.Mutex
	memo map[legDate]*lookupResult
}

// FlightSearcher is the slice of the remote client the selector needs.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, q skyscanner.FlightQuery) ([]models.FlightOffer, error)
}

func newSelector(client FlightSearcher, workers int) *selector {
	if workers < 1 {
		workers = 1
	}
	return &selector{
		client:  client,
		workers: workers,
		memo:    make(map[legDate]*lookupResult),
	}
}

// resolve prices every full-length DatePath on a fixed pool of workers
// draining a shared queue and returns the surviving complete itineraries
// sorted ascending by total (stable on ties), plus the number of dropped
// paths.
func (s *selector) resolve(ctx context.Context, it models.Itinerary, paths []models.DatePath) ([]models.CompleteItinerary, int, error) {
	type pathResult struct {
		itinerary *models.CompleteItinerary
		err       error
	}

	results := make([]pathResult, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				itinerary, err := s.resolvePath(ctx, it, paths[i])
				results[i] = pathResult{itinerary: itinerary, err: err}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var complete []models.CompleteItinerary
	dropped := 0
	for _, r := range results {
		if r.err != nil {
			return nil, 0, r.err
		}
		if r.itinerary == nil {
			dropped++
			continue
		}
		complete = append(complete, *r.itinerary)
	}

	sort.SliceStable(complete, func(i, j int) bool {
		return complete[i].Total < complete[j].Total
	})

	return complete, dropped, nil
}

// resolvePath returns nil (no error) when any leg has no qualifying offer.
func (s *selector) resolvePath(ctx context.Context, it models.Itinerary, path models.DatePath) (*models.CompleteItinerary, error) {
	out := &models.CompleteItinerary{Legs: make([]models.PricedLeg, 0, len(path))}

	for i, date := range path {
		r := s.lookup(ctx, it[i], i, date)
		if r.err != nil {
			return nil, r.err
		}
		if !r.found {
			return nil, nil
		}
		out.Legs = append(out.Legs, r.priced)
		out.Total += r.priced.Price
	}

	return out, nil
}

func (s *selector) lookup(ctx context.Context, leg *models.Leg, index int, date string) *lookupResult {
	key := legDate{leg: index, date: date}

	s.mu.Lock()
	r, ok := s.memo[key]
	if !ok {
		r = &lookupResult{}
		s.memo[key] = r
	}
	s.mu.Unlock()

	r.once.Do(func() {
		offers, err := s.client.SearchFlights(ctx, skyscanner.FlightQuery{
			FromEntityID:     leg.FromEntityID,
			ToEntityID:       leg.ToEntityID,
			Date:             date,
			MinDepartureHour: leg.MinDepartureHour,
			MaxDepartureHour: leg.MaxDepartureHour,
		})
		if err != nil {
			r.err = err
			return
		}
		if len(offers) == 0 {
			return
		}

		cheapest := cheapestOffer(offers)
		r.found = true
		r.priced = models.PricedLeg{
			FromEntityID: leg.FromEntityID,
			ToEntityID:   leg.ToEntityID,
			Date:         date,
			Price:        cheapest.Price,
			Departure:    cheapest.Departure,
			Arrival:      cheapest.Arrival,
		}
	})

	return r
}

// cheapestOffer picks the minimum-price offer; ties go to the offer the
// remote service listed first.
func cheapestOffer(offers []models.FlightOffer) models.FlightOffer {
	sorted := make([]models.FlightOffer, len(offers))
	copy(sorted, offers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})
	return sorted[0]
}
