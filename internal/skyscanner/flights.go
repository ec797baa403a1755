package skyscanner

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/cache"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/models"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/pkg/dates"
)

// FlightQuery asks for one-way offers on a route and date, filtered to an
// inclusive departure-hour window. Empty hour bounds mean the whole day.
type FlightQuery struct {
	FromEntityID     string
	ToEntityID       string
	Date             string
	MinDepartureHour string
	MaxDepartureHour string
}

// flightSearchResponse mirrors the one-way search payload.
type flightSearchResponse struct {
	Data struct {
		Itineraries []flightItinerary `json:"itineraries"`
	} `json:"data"`
}

type flightItinerary struct {
	Price struct {
		Raw float64 `json:"raw"`
	} `json:"price"`
	Legs []struct {
		Departure string `json:"departure"`
		Arrival   string `json:"arrival"`
	} `json:"legs"`
}

// SearchFlights returns priced offers for the query. A search that exhausts
// the polling retry bound yields an empty result, indistinguishable from a
// route with no flights; its last payload is kept under the debug category
// for postmortem.
func (c *Client) SearchFlights(ctx context.Context, q FlightQuery) ([]models.FlightOffer, error) {
	params := url.Values{}
	params.Set("fromEntityId", q.FromEntityID)
	params.Set("toEntityId", q.ToEntityID)
	params.Set("departDate", q.Date)
	params.Set("adults", strconv.Itoa(c.cfg.Adults))
	params.Set("stops", c.cfg.Stops)

	key := cache.Key(q.FromEntityID, q.ToEntityID, q.Date, strconv.Itoa(c.cfg.Adults), c.cfg.Stops)

	payload, ok := c.store.Get(ctx, cache.CategoryFlights, key)
	if ok {
		if c.metrics != nil {
			c.metrics.IncCacheHit(string(cache.CategoryFlights))
		}
	} else {
		if c.metrics != nil {
			c.metrics.IncCacheMiss(string(cache.CategoryFlights))
		}

		var complete bool
		var err error
		payload, complete, err = c.runSearch(ctx, params)
		if err != nil {
			return nil, err
		}
		if !complete {
			_ = c.store.Put(ctx, cache.CategoryDebug, key, payload)
			if c.metrics != nil {
				c.metrics.IncSearchFailed()
			}
			return nil, nil
		}
		_ = c.store.Put(ctx, cache.CategoryFlights, key, payload)
	}

	var resp flightSearchResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &TransportError{Endpoint: endpointSearchOneWay, Err: err}
	}

	minHour := q.MinDepartureHour
	if minHour == "" {
		minHour = "00:00:00"
	}
	maxHour := q.MaxDepartureHour
	if maxHour == "" {
		maxHour = "23:59:59"
	}

	var offers []models.FlightOffer
	for _, it := range resp.Data.Itineraries {
		if len(it.Legs) == 0 {
			continue
		}
		inWindow, err := dates.HourInWindow(it.Legs[0].Departure, minHour, maxHour)
		if err != nil || !inWindow {
			continue
		}
		offers = append(offers, models.FlightOffer{
			Price:     it.Price.Raw,
			Departure: it.Legs[0].Departure,
			Arrival:   it.Legs[len(it.Legs)-1].Arrival,
		})
	}

	return offers, nil
}
