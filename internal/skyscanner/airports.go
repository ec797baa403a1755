package skyscanner

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/cache"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/models"
)

// autoCompleteResponse mirrors the remote auto-complete payload.
type autoCompleteResponse struct {
	Data []autoCompleteEntry `json:"data"`
}

type autoCompleteEntry struct {
	Presentation struct {
		SuggestionTitle string `json:"suggestionTitle"`
	} `json:"presentation"`
	Navigation struct {
		RelevantFlightParams struct {
			SkyID string `json:"skyId"`
		} `json:"relevantFlightParams"`
	} `json:"navigation"`
}

// LookupAirports resolves free text to a ranked list of airports, in the
// order the remote service suggests them.
func (c *Client) LookupAirports(ctx context.Context, freeText string) ([]models.Airport, error) {
	query := strings.ToLower(strings.TrimSpace(freeText))

	params := url.Values{}
	params.Set("query", query)

	payload, err := c.cachedGet(ctx, cache.CategoryAirports, cache.Key(query), func() ([]byte, bool, error) {
		body, err := c.getJSON(ctx, endpointAutoComplete, params)
		return body, err == nil, err
	})
	if err != nil {
		return nil, err
	}

	var resp autoCompleteResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &TransportError{Endpoint: endpointAutoComplete, Err: err}
	}

	airports := make([]models.Airport, 0, len(resp.Data))
	for _, entry := range resp.Data {
		if entry.Navigation.RelevantFlightParams.SkyID == "" {
			continue
		}
		airports = append(airports, models.Airport{
			DisplayName: entry.Presentation.SuggestionTitle,
			EntityID:    entry.Navigation.RelevantFlightParams.SkyID,
		})
	}

	return airports, nil
}
