package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const googleBaseURL = "https://maps.googleapis.com/maps/api/geocode"

// GoogleProvider geocodes through the Google Maps Geocoding API.
type GoogleProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewGoogleProvider creates a Google provider.
func NewGoogleProvider(apiKey string, timeout time.Duration) *GoogleProvider {
	return &GoogleProvider{
		baseURL: googleBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewGoogleProviderWithBaseURL creates a provider against a non-default
// endpoint, used in tests.
func NewGoogleProviderWithBaseURL(baseURL, apiKey string, timeout time.Duration) *GoogleProvider {
	p := NewGoogleProvider(apiKey, timeout)
	p.baseURL = baseURL
	return p
}

// Name implements Provider.
func (p *GoogleProvider) Name() string {
	return "google"
}

type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode implements Provider.
func (p *GoogleProvider) Geocode(ctx context.Context, query string) (*Result, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("google geocoding api key not configured")
	}

	params := url.Values{}
	params.Set("address", query)
	params.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/json?%s", p.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build google geocode request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google geocode returned status %d", resp.StatusCode)
	}

	var decoded googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode google geocode response: %w", err)
	}

	switch decoded.Status {
	case "OK":
		if len(decoded.Results) == 0 {
			return nil, ErrNoMatch
		}
		loc := decoded.Results[0].Geometry.Location
		return &Result{Latitude: loc.Lat, Longitude: loc.Lng}, nil
	case "ZERO_RESULTS":
		return nil, ErrNoMatch
	default:
		return nil, fmt.Errorf("google geocode status %s", decoded.Status)
	}
}
