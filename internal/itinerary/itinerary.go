// Package itinerary loads, validates and interactively authors the trip
// description the resolution engine consumes.
package itinerary

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/models"
)

// Load reads an itinerary description from a JSON file and validates it.
func Load(path string) (models.Itinerary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read itinerary: %w", err)
	}

	var it models.Itinerary
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("parse itinerary: %w", err)
	}
	if err := it.Validate(); err != nil {
		return nil, err
	}

	return it, nil
}
