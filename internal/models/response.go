package models

// RunMetadata summarizes one resolution run.
type RunMetadata struct {
	PathsGenerated      int   `json:"paths_generated"`
	PathsDropped        int   `json:"paths_dropped"`
	ItinerariesResolved int   `json:"itineraries_resolved"`
	SearchTimeMs        int64 `json:"search_time_ms"`
}

type ResolveCriteria struct {
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Legs      Itinerary `json:"legs"`
}

type ResolveResponse struct {
	Criteria    ResolveCriteria     `json:"criteria"`
	Metadata    RunMetadata         `json:"metadata"`
	Itineraries []CompleteItinerary `json:"itineraries"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
