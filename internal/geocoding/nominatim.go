// Package geocoding resolves free-text stop locations to coordinates using a
// Nominatim-compatible search API.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkordes/tripplanner/internal/itinerary"
)

// DefaultUserAgent identifies the API to the geocoding service, which
// rejects anonymous clients.
const DefaultUserAgent = "tripplanner/1.0"

// Result is one resolved location.
type Result struct {
	Coords      itinerary.Coordinates
	DisplayName string
}

// Geocoder converts an address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Result, error)
	GeocodeWithRetry(ctx context.Context, address string, maxRetries int) (Result, error)
}

const reasonNoResults = "no results found"

// ErrGeocodingFailed is returned when an address cannot be geocoded.
type ErrGeocodingFailed struct {
	Address string
	Reason  string
}

func (e *ErrGeocodingFailed) Error() string {
	return fmt.Sprintf("geocoding failed for address %q: %s", e.Address, e.Reason)
}

// Options configures a Nominatim client. Zero values pick the defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	// Interval is the minimum gap between requests. Public Nominatim allows
	// one request per second.
	Interval time.Duration
	Client   *http.Client
}

// Nominatim is a rate-limited Geocoder.
type Nominatim struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *time.Ticker
}

type nominatimResponse struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatim builds a client for the service at opts.BaseURL. Call Close
// when done to release the rate limiter.
func NewNominatim(opts Options) *Nominatim {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Nominatim{
		baseURL:     opts.BaseURL,
		userAgent:   opts.UserAgent,
		httpClient:  opts.Client,
		rateLimiter: time.NewTicker(opts.Interval),
	}
}

// Close stops the rate limiter.
func (g *Nominatim) Close() {
	g.rateLimiter.Stop()
}

// Geocode returns the best match for address.
func (g *Nominatim) Geocode(ctx context.Context, address string) (Result, error) {
	select {
	case <-g.rateLimiter.C:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	queryURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", g.baseURL, url.QueryEscape(address))
	slog.DebugContext(ctx, "geocoding request", "address", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return Result{}, &ErrGeocodingFailed{Address: address, Reason: err.Error()}
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Result{}, &ErrGeocodingFailed{Address: address, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, &ErrGeocodingFailed{
			Address: address,
			Reason:  fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var results []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Result{}, &ErrGeocodingFailed{Address: address, Reason: err.Error()}
	}
	if len(results) == 0 {
		return Result{}, &ErrGeocodingFailed{Address: address, Reason: reasonNoResults}
	}

	best := results[0]
	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		return Result{}, &ErrGeocodingFailed{Address: address, Reason: "invalid latitude"}
	}
	lng, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		return Result{}, &ErrGeocodingFailed{Address: address, Reason: "invalid longitude"}
	}

	slog.DebugContext(ctx, "geocoding response", "address", address, "lat", lat, "lng", lng)
	return Result{
		Coords:      itinerary.Coordinates{Lat: lat, Lng: lng},
		DisplayName: best.DisplayName,
	}, nil
}

// GeocodeWithRetry calls Geocode up to maxRetries times with exponential
// backoff starting at one second. "No results" is not retried.
func (g *Nominatim) GeocodeWithRetry(ctx context.Context, address string, maxRetries int) (Result, error) {
	var lastErr error
	for i := 0; i < max(maxRetries, 1); i++ {
		result, err := g.Geocode(ctx, address)
		if err == nil {
			return result, nil
		}
		lastErr = err

		var failed *ErrGeocodingFailed
		if ctx.Err() != nil || (errors.As(err, &failed) && failed.Reason == reasonNoResults) {
			break
		}
		if i < maxRetries-1 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			slog.WarnContext(ctx, "geocoding retry", "address", address, "attempt", i+1, "backoff", backoff, "error", err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return Result{}, ctx.Err()
			}
		}
	}
	return Result{}, lastErr
}
