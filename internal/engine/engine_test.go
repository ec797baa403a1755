package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/models"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/pkg/dates"
)

// fakeClient adds scripted calendar availability on top of fakeSearcher.
type fakeClient struct {
	*fakeSearcher
	available map[string][]string // "from>to@yyyy-mm" -> dates
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		fakeSearcher: newFakeSearcher(),
		available:    make(map[string][]string),
	}
}

func (f *fakeClient) setAvailable(from, to string, month dates.YearMonth, dateStrs ...string) {
	f.available[from+">"+to+"@"+month.String()] = dateStrs
}

func (f *fakeClient) AvailableDepartureDates(ctx context.Context, fromID, toID string, month dates.YearMonth) ([]string, error) {
	return f.available[fromID+">"+toID+"@"+month.String()], nil
}

func stayNights(t *testing.T, itin models.CompleteItinerary, i int) int {
	t.Helper()
	n, err := dates.DaysBetween(itin.Legs[i].Date, itin.Legs[i+1].Date)
	require.NoError(t, err)
	return n
}

func TestEngineResolveEndToEnd(t *testing.T) {
	f := newFakeClient()
	june := dates.YearMonth{Year: 2025, Month: 6}

	f.setAvailable("PAR", "TYO", june, "2025-06-01", "2025-06-02", "2025-06-25")
	f.setAvailable("TYO", "PAR", june, "2025-06-05", "2025-06-06", "2025-06-07")

	f.set("PAR", "TYO", "2025-06-01", models.FlightOffer{Price: 300, Departure: "2025-06-01T08:00:00", Arrival: "2025-06-01T18:00:00"})
	f.set("PAR", "TYO", "2025-06-02", models.FlightOffer{Price: 150, Departure: "2025-06-02T08:00:00", Arrival: "2025-06-02T18:00:00"})
	f.set("TYO", "PAR", "2025-06-05", models.FlightOffer{Price: 200, Departure: "2025-06-05T09:00:00", Arrival: "2025-06-05T19:00:00"})
	f.set("TYO", "PAR", "2025-06-06", models.FlightOffer{Price: 180, Departure: "2025-06-06T09:00:00", Arrival: "2025-06-06T19:00:00"})
	// 2025-06-07 has calendar service but zero priced offers.

	it := models.Itinerary{
		{FromEntityID: "PAR", ToEntityID: "TYO", MinStayDuration: intPtr(3), MaxStayDuration: intPtr(5)},
		{FromEntityID: "TYO", ToEntityID: "PAR", FinalDestination: true},
	}

	eng := New(f, nil, 4)
	result, err := eng.Resolve(context.Background(), window("2025-06-01", "2025-06-20"), it)
	require.NoError(t, err)

	// 2025-06-25 is outside leg 0's candidate range and must be ignored.
	assert.NotContains(t, it[0].Flights, "2025-06-25")

	// Five feasible paths; the one ending 06-07 drops at pricing.
	assert.Equal(t, 5, result.Metadata.PathsGenerated)
	assert.Equal(t, 1, result.Metadata.PathsDropped)
	require.Len(t, result.Itineraries, 4)
	assert.Equal(t, 4, result.Metadata.ItinerariesResolved)

	// Ascending by total, cheapest first: 06-02 + 06-06 = 330.
	best := result.Itineraries[0]
	assert.Equal(t, 330.0, best.Total)
	assert.Equal(t, "2025-06-02", best.Legs[0].Date)
	assert.Equal(t, "2025-06-06", best.Legs[1].Date)

	for i, itin := range result.Itineraries {
		if i > 0 {
			assert.LessOrEqual(t, result.Itineraries[i-1].Total, itin.Total)
		}

		// Totals equal the sum of leg prices.
		sum := 0.0
		for _, leg := range itin.Legs {
			sum += leg.Price
		}
		assert.Equal(t, itin.Total, sum)

		// Stay-duration invariant between adjacent legs.
		nights := stayNights(t, itin, 0)
		assert.GreaterOrEqual(t, nights, 3)
		assert.LessOrEqual(t, nights, 5)
	}
}

func TestEngineResolveNoSurvivorsIsNotAnError(t *testing.T) {
	f := newFakeClient()
	f.setAvailable("PAR", "TYO", dates.YearMonth{Year: 2025, Month: 6}, "2025-06-01")
	f.setAvailable("TYO", "PAR", dates.YearMonth{Year: 2025, Month: 6}, "2025-06-05")
	// No priced offers anywhere.

	it := models.Itinerary{
		{FromEntityID: "PAR", ToEntityID: "TYO", MinStayDuration: intPtr(3), MaxStayDuration: intPtr(5)},
		{FromEntityID: "TYO", ToEntityID: "PAR", FinalDestination: true},
	}

	eng := New(f, nil, 2)
	result, err := eng.Resolve(context.Background(), window("2025-06-01", "2025-06-20"), it)
	require.NoError(t, err)
	assert.Empty(t, result.Itineraries)
	assert.Equal(t, 1, result.Metadata.PathsDropped)
}
