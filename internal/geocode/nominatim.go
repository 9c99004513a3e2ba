package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const nominatimBaseURL = "https://nominatim.openstreetmap.org"

// NominatimProvider geocodes through the OpenStreetMap Nominatim API. The
// public instance enforces an absolute one-request-per-second policy and
// requires an identifying User-Agent, both handled here.
type NominatimProvider struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

// NewNominatimProvider creates a Nominatim provider.
func NewNominatimProvider(timeout time.Duration, requestsPerSec float64) *NominatimProvider {
	return &NominatimProvider{
		baseURL:   nominatimBaseURL,
		userAgent: "bmnboston-listings/1.0",
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSec), 1),
	}
}

// NewNominatimProviderWithBaseURL creates a provider against a non-default
// endpoint, used for self-hosted instances and tests.
func NewNominatimProviderWithBaseURL(baseURL string, timeout time.Duration, requestsPerSec float64) *NominatimProvider {
	p := NewNominatimProvider(timeout, requestsPerSec)
	p.baseURL = baseURL
	return p
}

// Name implements Provider.
func (p *NominatimProvider) Name() string {
	return "nominatim"
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode implements Provider.
func (p *NominatimProvider) Geocode(ctx context.Context, query string) (*Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/search?%s", p.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in nominatim response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in nominatim response: %w", err)
	}

	return &Result{Latitude: lat, Longitude: lng}, nil
}
