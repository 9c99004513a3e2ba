package geocode

import (
	"context"
	"errors"

	"github.com/stevenovak55/bmnboston-sub015/internal/circuitbreaker"
	apperrors "github.com/stevenovak55/bmnboston-sub015/internal/errors"
	"github.com/stevenovak55/bmnboston-sub015/internal/logging"
)

// Cache is the subset of the cache service the resolver uses.
type Cache interface {
	GetGeocode(ctx context.Context, address string, dest any) (bool, error)
	SetGeocode(ctx context.Context, address string, value any) error
}

// Resolver runs the provider chain: cache, primary provider, secondary
// provider, then the same chain again on the reduced city/state/zip query
// with results marked approximate. Only successful resolutions are ever
// cached, so transient provider outages cannot poison the cache.
type Resolver struct {
	providers []Provider
	breakers  map[string]*circuitbreaker.CircuitBreaker
	cache     Cache
	logger    *logging.Logger
	bounds    Bounds
	hasBounds bool
}

// NewResolver creates a resolver. Providers are tried in order.
func NewResolver(cache Cache, logger *logging.Logger, providers ...Provider) *Resolver {
	breakers := make(map[string]*circuitbreaker.CircuitBreaker, len(providers))
	for _, p := range providers {
		breakers[p.Name()] = circuitbreaker.NewCircuitBreaker(
			circuitbreaker.DefaultConfig("geocode-"+p.Name()), logger)
	}
	return &Resolver{
		providers: providers,
		breakers:  breakers,
		cache:     cache,
		logger:    logger,
	}
}

// SetServiceArea configures the bounding box consulted by InServiceArea.
// Results outside the box are logged but still returned; the service area
// is advisory, not an acceptance filter.
func (r *Resolver) SetServiceArea(bounds Bounds) {
	r.bounds = bounds
	r.hasBounds = true
}

// InServiceArea reports whether the coordinate falls inside the configured
// service area. Without a configured area every coordinate qualifies.
func (r *Resolver) InServiceArea(lat, lng float64) bool {
	if !r.hasBounds {
		return true
	}
	return r.bounds.Contains(lat, lng)
}

// Resolve geocodes the address. A reduced-precision result carries
// Approximate=true. ErrUnresolvable means the caller should fall back to
// its own default coordinate; that default is never written to the cache.
func (r *Resolver) Resolve(ctx context.Context, addr Address) (*Result, error) {
	if addr.IsEmpty() {
		return nil, apperrors.NewValidationError("address", "no address parts to geocode")
	}

	if result, ok := r.resolveQuery(ctx, addr.FullString(), false); ok {
		return result, nil
	}

	reduced := addr.CityStateZipString()
	if reduced != "" && reduced != addr.FullString() {
		if result, ok := r.resolveQuery(ctx, reduced, true); ok {
			return result, nil
		}
	}

	return nil, apperrors.NewGeocodingFailedError(addr.FullString(), ErrUnresolvable)
}

// resolveQuery runs cache-then-providers for one query string.
func (r *Resolver) resolveQuery(ctx context.Context, query string, approximate bool) (*Result, bool) {
	var cached Result
	found, err := r.cache.GetGeocode(ctx, query, &cached)
	if err != nil {
		// Cache trouble is never fatal to geocoding.
		r.logger.WithError(err).Warn("Geocode cache lookup failed")
	}
	if found {
		return &cached, true
	}

	for _, provider := range r.providers {
		result, err := r.callProvider(ctx, provider, query)
		if err != nil {
			if !errors.Is(err, ErrNoMatch) {
				r.logger.WithError(err).
					WithField("provider", provider.Name()).
					Warn("Geocoding provider failed")
			}
			continue
		}

		result.Approximate = approximate
		if !r.InServiceArea(result.Latitude, result.Longitude) {
			r.logger.WithFields(map[string]any{
				"provider":  provider.Name(),
				"latitude":  result.Latitude,
				"longitude": result.Longitude,
			}).Warn("Geocoded coordinate falls outside the service area")
		}
		if err := r.cache.SetGeocode(ctx, query, result); err != nil {
			r.logger.WithError(err).Warn("Failed to cache geocode result")
		}
		return result, true
	}
	return nil, false
}

func (r *Resolver) callProvider(ctx context.Context, provider Provider, query string) (*Result, error) {
	var result *Result
	err := r.breakers[provider.Name()].Execute(ctx, func() error {
		var callErr error
		result, callErr = provider.Geocode(ctx, query)
		if errors.Is(callErr, ErrNoMatch) {
			// An empty result set is a provider answer, not a provider
			// failure; it must not trip the breaker.
			result = nil
			return nil
		}
		return callErr
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrNoMatch
	}
	return result, nil
}
