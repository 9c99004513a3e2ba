// Package geocode resolves listing addresses to coordinates through external
// providers, with caching and a reduced-precision fallback.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoMatch is returned by a provider that responded but found nothing for
// the query.
var ErrNoMatch = errors.New("no geocoding match")

// ErrUnresolvable is returned by the resolver when every provider and the
// reduced-precision fallback failed.
var ErrUnresolvable = errors.New("address could not be resolved")

// Address is the structured input to geocoding.
type Address struct {
	StreetNumber string
	StreetName   string
	UnitNumber   string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// IsEmpty reports whether the address carries nothing usable for geocoding.
func (a Address) IsEmpty() bool {
	return a.StreetNumber == "" && a.StreetName == "" &&
		a.City == "" && a.PostalCode == ""
}

// FullString renders the complete single-line query for the providers.
func (a Address) FullString() string {
	var parts []string
	street := strings.TrimSpace(a.StreetNumber + " " + a.StreetName)
	if street != "" {
		parts = append(parts, street)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if a.State != "" {
		parts = append(parts, a.State)
	}
	if a.PostalCode != "" {
		parts = append(parts, a.PostalCode)
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	return strings.Join(parts, ", ")
}

// CityStateZipString renders the reduced-precision query used when the full
// street address fails to resolve. Empty when no locality parts are present.
func (a Address) CityStateZipString() string {
	var parts []string
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if a.State != "" {
		parts = append(parts, a.State)
	}
	if a.PostalCode != "" {
		parts = append(parts, a.PostalCode)
	}
	if len(parts) == 0 {
		return ""
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	return strings.Join(parts, ", ")
}

// Result is a resolved coordinate. Approximate marks coordinates that came
// from the reduced city/state/zip fallback rather than the full address.
type Result struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Approximate bool    `json:"approximate"`
}

// Provider geocodes a single-line query.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, query string) (*Result, error)
}

// Bounds is a geographic bounding box.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains reports whether the coordinate falls inside the box.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		lng >= b.MinLng && lng <= b.MaxLng
}

// EncodePoint renders a coordinate as a WKT point. Axis order is
// (longitude, latitude); getting this backwards places listings in the
// wrong hemisphere.
func EncodePoint(lat, lng float64) string {
	return fmt.Sprintf("POINT(%s %s)",
		strconv.FormatFloat(lng, 'f', -1, 64),
		strconv.FormatFloat(lat, 'f', -1, 64))
}
