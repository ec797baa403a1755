package engine

import (
	"sort"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/models"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/pkg/dates"
)

// ExpandDatePaths expands the legs' available departure dates into every
// DatePath honoring the stay-duration bounds. Each available date of leg 0
// seeds one path; a path ending at date d reaches leg i+1 only on dates
// d+offset for offsets within [minStay(i), maxStay(i)]. Paths with no
// reachable next date are dead ends and dropped silently.
//
// The search space per transition is paths × (maxStay−minStay+1), not the
// cross-product of the legs' full date sets.
func ExpandDatePaths(it models.Itinerary) ([]models.DatePath, error) {
	if len(it) == 0 {
		return nil, nil
	}

	paths := make([]models.DatePath, 0, len(it[0].Flights))
	for _, d := range sortedDates(it[0].Flights) {
		paths = append(paths, models.DatePath{d})
	}

	for i := 0; i < len(it)-1; i++ {
		leg := it[i]
		next := it[i+1]

		minStay, maxStay := placeholderStayDays, placeholderStayDays
		if leg.MinStayDuration != nil {
			minStay = *leg.MinStayDuration
		}
		if leg.MaxStayDuration != nil {
			maxStay = *leg.MaxStayDuration
		}

		var extended []models.DatePath
		for _, path := range paths {
			last := path[len(path)-1]
			for offset := minStay; offset <= maxStay; offset++ {
				d, err := dates.AddDays(last, offset)
				if err != nil {
					return nil, err
				}
				if _, ok := next.Flights[d]; ok {
					extended = append(extended, path.Extend(d))
				}
			}
		}
		paths = extended
	}

	return paths, nil
}

func sortedDates(available map[string][]models.FlightOffer) []string {
	out := make([]string, 0, len(available))
	for d := range available {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
