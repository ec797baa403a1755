package skyscanner

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

const (
	statusComplete = "complete"

	// A search gets maxSoftRetries polls per session; after that a fresh
	// session is started (hard retry). Exceeding maxHardRetries fails the
	// search, so total polling is bounded at
	// (maxHardRetries+1) × (maxSoftRetries+1) requests.
	maxSoftRetries = 5
	maxHardRetries = 2
)

// pollState tracks one slow-search call through the
// REQUESTED → POLLING → COMPLETE/FAILED protocol.
type pollState struct {
	sessionID string
	status    string
	soft      int
	hard      int
}

func (s *pollState) complete() bool {
	return s.status == statusComplete
}

// searchEnvelope mirrors only the completion context of a search payload;
// the itinerary body is parsed separately once the search completes.
type searchEnvelope struct {
	Data struct {
		Context struct {
			Status    string `json:"status"`
			SessionID string `json:"sessionId"`
		} `json:"context"`
	} `json:"data"`
}

// parseSearchContext extracts the completion status and session id. A
// payload without a context block is a finished synchronous response and is
// treated as complete.
func parseSearchContext(payload []byte) (status, sessionID string) {
	var env searchEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return statusComplete, ""
	}
	if env.Data.Context.Status == "" {
		return statusComplete, ""
	}
	return env.Data.Context.Status, env.Data.Context.SessionID
}

// runSearch issues the initial one-way search and, while the provider is
// still assembling results, polls the incomplete-search endpoint every
// PollInterval. It returns the last payload and whether the search reached
// completion; exhausting the retry bound is not an error.
func (c *Client) runSearch(ctx context.Context, params url.Values) ([]byte, bool, error) {
	payload, err := c.getJSON(ctx, endpointSearchOneWay, params)
	if err != nil {
		return nil, false, err
	}

	state := &pollState{}
	state.status, state.sessionID = parseSearchContext(payload)

	for !state.complete() {
		if err := c.sleep(ctx); err != nil {
			return nil, false, err
		}

		pollParams := url.Values{}
		pollParams.Set("sessionId", state.sessionID)
		pollParams.Set("stops", params.Get("stops"))

		payload, err = c.getJSON(ctx, endpointSearchIncomplete, pollParams)
		if err != nil {
			return nil, false, err
		}
		state.status, _ = parseSearchContext(payload)
		if state.complete() {
			break
		}

		state.soft++
		if c.metrics != nil {
			c.metrics.IncSoftRetry()
		}
		if state.soft > maxSoftRetries {
			state.hard++
			state.soft = 0
			if c.metrics != nil {
				c.metrics.IncHardRetry()
			}
			if state.hard > maxHardRetries {
				return payload, false, nil
			}

			// Fresh initial request; the provider hands out a new session.
			payload, err = c.getJSON(ctx, endpointSearchOneWay, params)
			if err != nil {
				return nil, false, err
			}
			state.status, state.sessionID = parseSearchContext(payload)
		}
	}

	return payload, true, nil
}

func (c *Client) sleep(ctx context.Context) error {
	select {
	case <-time.After(c.cfg.PollInterval):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
