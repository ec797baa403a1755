package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/models"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/pkg/dates"
)

func intPtr(n int) *int {
	return &n
}

func window(start, end string) models.TripWindow {
	return models.TripWindow{StartDate: start, EndDate: end}
}

func TestComputeDateWindowsSingleLeg(t *testing.T) {
	it := models.Itinerary{
		{FromEntityID: "PAR", ToEntityID: "TYO", FinalDestination: true},
	}

	require.NoError(t, ComputeDateWindows(window("2025-06-01", "2025-06-20"), it))

	// The absent stay contributes a one-day placeholder, so the last
	// candidate departure is June 19, not June 20.
	assert.Len(t, it[0].Flights, 19)
	assert.Contains(t, it[0].Flights, "2025-06-01")
	assert.Contains(t, it[0].Flights, "2025-06-19")
	assert.NotContains(t, it[0].Flights, "2025-06-20")
	assert.Equal(t, []dates.YearMonth{{Year: 2025, Month: 6}}, it[0].Months)
}

func TestComputeDateWindowsTwoLegs(t *testing.T) {
	it := models.Itinerary{
		{FromEntityID: "PAR", ToEntityID: "TYO", MinStayDuration: intPtr(3), MaxStayDuration: intPtr(5)},
		{FromEntityID: "TYO", ToEntityID: "PAR", FinalDestination: true},
	}

	require.NoError(t, ComputeDateWindows(window("2025-06-01", "2025-06-20"), it))

	// minCost = 3 (leg0) + 1 (placeholder) = 4.
	assert.Contains(t, it[0].Flights, "2025-06-01")
	assert.Contains(t, it[0].Flights, "2025-06-16")
	assert.NotContains(t, it[0].Flights, "2025-06-17")

	assert.NotContains(t, it[1].Flights, "2025-06-04")
	assert.Contains(t, it[1].Flights, "2025-06-05")
	assert.Contains(t, it[1].Flights, "2025-06-20")
}

func TestComputeDateWindowsMiddleLeg(t *testing.T) {
	it := models.Itinerary{
		{FromEntityID: "A", ToEntityID: "B", MinStayDuration: intPtr(2), MaxStayDuration: intPtr(3)},
		{FromEntityID: "B", ToEntityID: "C", MinStayDuration: intPtr(3), MaxStayDuration: intPtr(4)},
		{FromEntityID: "C", ToEntityID: "A", FinalDestination: true},
	}

	require.NoError(t, ComputeDateWindows(window("2025-06-01", "2025-06-20"), it))

	// Middle leg: lower bound shifts by the min stays before it (2), upper
	// bound by the max stays after it (placeholder 1).
	assert.NotContains(t, it[1].Flights, "2025-06-02")
	assert.Contains(t, it[1].Flights, "2025-06-03")
	assert.Contains(t, it[1].Flights, "2025-06-19")
	assert.NotContains(t, it[1].Flights, "2025-06-20")
}

func TestComputeDateWindowsCrossesMonths(t *testing.T) {
	it := models.Itinerary{
		{FromEntityID: "PAR", ToEntityID: "TYO", FinalDestination: true},
	}

	require.NoError(t, ComputeDateWindows(window("2025-06-25", "2025-07-05"), it))

	assert.Equal(t, []dates.YearMonth{{Year: 2025, Month: 6}, {Year: 2025, Month: 7}}, it[0].Months)
}

func TestComputeDateWindowsInitializesUnresolvedFlights(t *testing.T) {
	it := models.Itinerary{
		{FromEntityID: "PAR", ToEntityID: "TYO", FinalDestination: true},
	}

	require.NoError(t, ComputeDateWindows(window("2025-06-01", "2025-06-03"), it))

	for d, offers := range it[0].Flights {
		assert.Nil(t, offers, "date %s should start unresolved", d)
	}
}
