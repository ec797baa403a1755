package skyscanner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/cache"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/pkg/dates"
)

// fakeAPI is a scriptable stand-in for the remote flight-search service.
type fakeAPI struct {
	mu       sync.Mutex
	requests map[string]int

	autoCompleteBody string
	calendarBody     string
	// searchScript returns the body for the nth one-way search request.
	searchScript func(n int) string
	// pollScript returns the body for the nth incomplete-search poll.
	pollScript func(n int) string

	server *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{requests: make(map[string]int)}

	mux := http.NewServeMux()
	mux.HandleFunc(endpointAutoComplete, func(w http.ResponseWriter, r *http.Request) {
		f.record(endpointAutoComplete)
		fmt.Fprint(w, f.autoCompleteBody)
	})
	mux.HandleFunc(endpointPriceCalendar, func(w http.ResponseWriter, r *http.Request) {
		f.record(endpointPriceCalendar)
		fmt.Fprint(w, f.calendarBody)
	})
	mux.HandleFunc(endpointSearchOneWay, func(w http.ResponseWriter, r *http.Request) {
		n := f.record(endpointSearchOneWay)
		fmt.Fprint(w, f.searchScript(n))
	})
	mux.HandleFunc(endpointSearchIncomplete, func(w http.ResponseWriter, r *http.Request) {
		n := f.record(endpointSearchIncomplete)
		fmt.Fprint(w, f.pollScript(n))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) record(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[endpoint]++
	return f.requests[endpoint]
}

func (f *fakeAPI) count(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[endpoint]
}

func newTestClient(t *testing.T, f *fakeAPI, store cache.Store) *Client {
	t.Helper()
	if store == nil {
		store = cache.NewNoOpCache()
	}
	return New(Config{
		BaseURL:      f.server.URL,
		APIKey:       "test-key",
		APIHost:      "test-host",
		PollInterval: time.Millisecond,
	}, store, nil, nil)
}

func completeSearchBody(prices ...float64) string {
	body := `{"data":{"context":{"status":"complete","sessionId":"s1"},"itineraries":[`
	for i, p := range prices {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"price":{"raw":%v},"legs":[{"departure":"2025-06-10T09:30:00","arrival":"2025-06-10T11:00:00"},{"departure":"2025-06-10T12:00:00","arrival":"2025-06-10T15:45:00"}]}`, p)
	}
	return body + `]}}`
}

const incompleteBody = `{"data":{"context":{"status":"incomplete","sessionId":"s1"},"itineraries":[]}}`

func TestLookupAirportsRankedAndCached(t *testing.T) {
	f := newFakeAPI(t)
	f.autoCompleteBody = `{"data":[
		{"presentation":{"suggestionTitle":"Paris Charles de Gaulle (CDG)"},"navigation":{"relevantFlightParams":{"skyId":"CDG"}}},
		{"presentation":{"suggestionTitle":"Paris Orly (ORY)"},"navigation":{"relevantFlightParams":{"skyId":"ORY"}}},
		{"presentation":{"suggestionTitle":"Paris (no params)"},"navigation":{"relevantFlightParams":{}}}
	]}`

	store, err := cache.NewFileStore(t.TempDir())
	require.NoError(t, err)
	client := newTestClient(t, f, store)
	ctx := context.Background()

	airports, err := client.LookupAirports(ctx, "  Paris ")
	require.NoError(t, err)
	require.Len(t, airports, 2)
	assert.Equal(t, "CDG", airports[0].EntityID)
	assert.Equal(t, "Paris Charles de Gaulle (CDG)", airports[0].DisplayName)
	assert.Equal(t, "ORY", airports[1].EntityID)

	// Second lookup is served from the airports cache.
	_, err = client.LookupAirports(ctx, "paris")
	require.NoError(t, err)
	assert.Equal(t, 1, f.count(endpointAutoComplete))
}

func TestAvailableDepartureDates(t *testing.T) {
	f := newFakeAPI(t)
	f.calendarBody = `{"data":{
		"PriceGrids":{"Grid":[[
			{"Direct":{"TraceRefs":[0]}},
			{"Indirect":{"TraceRefs":[1]}},
			{"Direct":{"TraceRefs":[2]}},
			{}
		]]},
		"Traces":[
			"a*b*c*d*20250612*x",
			"a*b*c*d*20250613*x",
			"a*b*c*d*20250610*x"
		]
	}}`

	client := newTestClient(t, f, nil)

	got, err := client.AvailableDepartureDates(context.Background(), "PAR", "TYO", dates.YearMonth{Year: 2025, Month: 6})
	require.NoError(t, err)
	// Only dates reachable through a Direct trace, sorted.
	assert.Equal(t, []string{"2025-06-10", "2025-06-12"}, got)
}

func TestSearchFlightsFiltersDepartureWindow(t *testing.T) {
	f := newFakeAPI(t)
	f.searchScript = func(n int) string {
		return `{"data":{"context":{"status":"complete","sessionId":"s1"},"itineraries":[
			{"price":{"raw":200},"legs":[{"departure":"2025-06-10T06:00:00","arrival":"2025-06-10T08:00:00"}]},
			{"price":{"raw":150},"legs":[{"departure":"2025-06-10T09:30:00","arrival":"2025-06-10T11:30:00"}]},
			{"price":{"raw":300},"legs":[{"departure":"2025-06-10T22:00:00","arrival":"2025-06-11T00:30:00"}]}
		]}}`
	}

	client := newTestClient(t, f, nil)

	offers, err := client.SearchFlights(context.Background(), FlightQuery{
		FromEntityID:     "PAR",
		ToEntityID:       "TYO",
		Date:             "2025-06-10",
		MinDepartureHour: "08:00:00",
		MaxDepartureHour: "18:00:00",
	})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, 150.0, offers[0].Price)
	assert.Equal(t, "2025-06-10T09:30:00", offers[0].Departure)
	assert.Equal(t, "2025-06-10T11:30:00", offers[0].Arrival)
}

func TestSearchFlightsUsesLastLegArrival(t *testing.T) {
	f := newFakeAPI(t)
	f.searchScript = func(n int) string { return completeSearchBody(180) }

	client := newTestClient(t, f, nil)

	offers, err := client.SearchFlights(context.Background(), FlightQuery{
		FromEntityID: "PAR", ToEntityID: "TYO", Date: "2025-06-10",
	})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "2025-06-10T09:30:00", offers[0].Departure)
	assert.Equal(t, "2025-06-10T15:45:00", offers[0].Arrival)
}

func TestSearchFlightsPollsUntilComplete(t *testing.T) {
	f := newFakeAPI(t)
	f.searchScript = func(n int) string { return incompleteBody }
	f.pollScript = func(n int) string {
		if n < 3 {
			return incompleteBody
		}
		return completeSearchBody(99.5)
	}

	store, err := cache.NewFileStore(t.TempDir())
	require.NoError(t, err)
	client := newTestClient(t, f, store)

	offers, err := client.SearchFlights(context.Background(), FlightQuery{
		FromEntityID: "PAR", ToEntityID: "TYO", Date: "2025-06-10",
	})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, 99.5, offers[0].Price)
	assert.Equal(t, 3, f.count(endpointSearchIncomplete))

	// The completed payload is cached: a second search issues no requests.
	_, err = client.SearchFlights(context.Background(), FlightQuery{
		FromEntityID: "PAR", ToEntityID: "TYO", Date: "2025-06-10",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.count(endpointSearchOneWay))
}

func TestSearchFlightsExhaustsRetryBound(t *testing.T) {
	f := newFakeAPI(t)
	f.searchScript = func(n int) string { return incompleteBody }
	f.pollScript = func(n int) string { return incompleteBody }

	store, err := cache.NewFileStore(t.TempDir())
	require.NoError(t, err)
	client := newTestClient(t, f, store)
	ctx := context.Background()

	offers, err := client.SearchFlights(ctx, FlightQuery{
		FromEntityID: "PAR", ToEntityID: "TYO", Date: "2025-06-10",
	})
	require.NoError(t, err, "an exhausted search degrades to no flights, not an error")
	assert.Empty(t, offers)

	// One initial request per hard round, six polls per session.
	assert.Equal(t, 3, f.count(endpointSearchOneWay))
	assert.Equal(t, 18, f.count(endpointSearchIncomplete))

	// The last payload is parked under the debug category for postmortem,
	// and nothing was cached as a flights result.
	key := cache.Key("PAR", "TYO", "2025-06-10", "1", "direct")
	_, ok := store.Get(ctx, cache.CategoryDebug, key)
	assert.True(t, ok)
	_, ok = store.Get(ctx, cache.CategoryFlights, key)
	assert.False(t, ok)
}

func TestSearchFlightsTransportErrorIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, PollInterval: time.Millisecond}, nil, nil, nil)

	_, err := client.SearchFlights(context.Background(), FlightQuery{
		FromEntityID: "PAR", ToEntityID: "TYO", Date: "2025-06-10",
	})
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusTooManyRequests, terr.StatusCode)
}
