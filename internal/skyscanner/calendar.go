package skyscanner

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/cache"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/pkg/dates"
)

// priceCalendarResponse mirrors the price-calendar grid payload. Each grid
// cell that offers a direct connection references trace strings; field 4 of
// a trace (separator '*') is the departure date as YYYYMMDD.
type priceCalendarResponse struct {
	Data struct {
		PriceGrids struct {
			Grid [][]calendarCell `json:"Grid"`
		} `json:"PriceGrids"`
		Traces []string `json:"Traces"`
	} `json:"data"`
}

type calendarCell struct {
	Direct *struct {
		TraceRefs []int `json:"TraceRefs"`
	} `json:"Direct,omitempty"`
}

const traceDateField = 4

// AvailableDepartureDates returns the sorted dates within the month that
// have at least one direct departure on the route.
func (c *Client) AvailableDepartureDates(ctx context.Context, fromID, toID string, month dates.YearMonth) ([]string, error) {
	params := url.Values{}
	params.Set("fromEntityId", fromID)
	params.Set("toEntityId", toID)
	params.Set("yearMonth", month.String())

	key := cache.Key(fromID, toID, month.String())
	payload, err := c.cachedGet(ctx, cache.CategoryCalendar, key, func() ([]byte, bool, error) {
		body, err := c.getJSON(ctx, endpointPriceCalendar, params)
		return body, err == nil, err
	})
	if err != nil {
		return nil, err
	}

	var resp priceCalendarResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &TransportError{Endpoint: endpointPriceCalendar, Err: err}
	}

	traceRefs := make(map[int]bool)
	for _, row := range resp.Data.PriceGrids.Grid {
		for _, cell := range row {
			if cell.Direct == nil {
				continue
			}
			for _, ref := range cell.Direct.TraceRefs {
				traceRefs[ref] = true
			}
		}
	}

	seen := make(map[string]bool)
	for ref := range traceRefs {
		if ref < 0 || ref >= len(resp.Data.Traces) {
			continue
		}
		fields := strings.Split(resp.Data.Traces[ref], "*")
		if len(fields) <= traceDateField {
			continue
		}
		t, err := time.Parse("20060102", fields[traceDateField])
		if err != nil {
			continue
		}
		seen[t.Format(dates.Layout)] = true
	}

	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}
