package skyscanner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/cache"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/obs"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/ratelimit"
)

const (
	endpointAutoComplete     = "/flights/auto-complete"
	endpointPriceCalendar    = "/flights/price-calendar-web"
	endpointSearchOneWay     = "/flights/search-one-way"
	endpointSearchIncomplete = "/flights/search-incomplete"

	defaultTimeout      = 15 * time.Second
	defaultPollInterval = 2 * time.Second
)

// Config carries the remote flight-search service coordinates. Key and Host
// are the static RapidAPI credential pair sent on every request.
type Config struct {
	BaseURL string
	APIKey  string
	APIHost string

	Timeout      time.Duration
	PollInterval time.Duration
	Adults       int
	Stops        string
}

// Client queries the remote flight-search service cache-first. It never
// blocks indefinitely: slow searches are bounded by the soft/hard polling
// retry protocol.
type Client struct {
	cfg     Config
	http    *http.Client
	store   cache.Store
	limiter *ratelimit.EndpointLimiter
	metrics *obs.Metrics
}

func New(cfg Config, store cache.Store, limiter *ratelimit.EndpointLimiter, metrics *obs.Metrics) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Adults == 0 {
		cfg.Adults = 1
	}
	if cfg.Stops == "" {
		cfg.Stops = "direct"
	}
	if store == nil {
		store = cache.NewNoOpCache()
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		store:   store,
		limiter: limiter,
		metrics: metrics,
	}
}

// TransportError marks an HTTP-level failure on a non-polling call; these
// are fatal for the run and not retried outside the polling protocol.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, endpoint); err != nil {
			return nil, err
		}
	}
	if c.metrics != nil {
		c.metrics.IncAPIRequest(endpoint)
	}

	reqURL := c.cfg.BaseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-rapidapi-key", c.cfg.APIKey)
	req.Header.Set("x-rapidapi-host", c.cfg.APIHost)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	return body, nil
}

// cachedGet returns the live cached payload for (cat, key) or fetches a
// fresh one and stores it. fetch may decline caching (ok=false) without
// failing, which is how exhausted searches park their payload elsewhere.
func (c *Client) cachedGet(ctx context.Context, cat cache.Category, key string, fetch func() ([]byte, bool, error)) ([]byte, error) {
	if payload, ok := c.store.Get(ctx, cat, key); ok {
		if c.metrics != nil {
			c.metrics.IncCacheHit(string(cat))
		}
		return payload, nil
	}
	if c.metrics != nil {
		c.metrics.IncCacheMiss(string(cat))
	}

	payload, cacheable, err := fetch()
	if err != nil {
		return nil, err
	}
	if cacheable {
		_ = c.store.Put(ctx, cat, key, payload)
	}
	return payload, nil
}
