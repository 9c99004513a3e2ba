package storage

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/stevenovak55/bmnboston-sub015/internal/errors"
)

// Cache key prefixes
const (
	keyListingPublic     = "listing:%s:public"
	keyListingPrivileged = "listing:%s:privileged"
	keyGeocode           = "geocode:%s"
)

// CacheService provides typed caching on top of RedisCache. Values are
// JSON-encoded; a cache miss is reported as (false, nil) so callers can
// fall through to the database without inspecting errors.
type CacheService struct {
	cache      *RedisCache
	listingTTL time.Duration
	geocodeTTL time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(cache *RedisCache, listingTTL, geocodeTTL time.Duration) *CacheService {
	return &CacheService{
		cache:      cache,
		listingTTL: listingTTL,
		geocodeTTL: geocodeTTL,
	}
}

// ListingKey builds the cache key for a public listing view.
func ListingKey(listingKey string, privileged bool) string {
	if privileged {
		return fmt.Sprintf(keyListingPrivileged, listingKey)
	}
	return fmt.Sprintf(keyListingPublic, listingKey)
}

// GeocodeKey builds the cache key for a resolved address. The address
// string is hashed so arbitrary punctuation never leaks into key space.
func GeocodeKey(address string) string {
	sum := sha1.Sum([]byte(address))
	return fmt.Sprintf(keyGeocode, fmt.Sprintf("%x", sum))
}

// GetListing retrieves a cached listing view into dest.
func (c *CacheService) GetListing(ctx context.Context, listingKey string, privileged bool, dest any) (bool, error) {
	return c.getJSON(ctx, ListingKey(listingKey, privileged), dest)
}

// SetListing caches a listing view.
func (c *CacheService) SetListing(ctx context.Context, listingKey string, privileged bool, value any) error {
	return c.setJSON(ctx, ListingKey(listingKey, privileged), value, c.listingTTL)
}

// InvalidateListing removes both visibility variants for a listing.
func (c *CacheService) InvalidateListing(ctx context.Context, listingKey string) error {
	err := c.cache.Del(ctx,
		ListingKey(listingKey, false),
		ListingKey(listingKey, true),
	)
	if err != nil {
		return apperrors.NewCacheError(fmt.Sprintf("invalidate %s", listingKey), err)
	}
	return nil
}

// GetGeocode retrieves a cached geocoding result into dest.
func (c *CacheService) GetGeocode(ctx context.Context, address string, dest any) (bool, error) {
	return c.getJSON(ctx, GeocodeKey(address), dest)
}

// SetGeocode caches a geocoding result.
func (c *CacheService) SetGeocode(ctx context.Context, address string, value any) error {
	return c.setJSON(ctx, GeocodeKey(address), value, c.geocodeTTL)
}

func (c *CacheService) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.cache.Get(ctx, key)
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewCacheError(fmt.Sprintf("get %s", key), err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, apperrors.NewCacheError(fmt.Sprintf("unmarshal %s", key), err)
	}
	return true, nil
}

func (c *CacheService) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewCacheError(fmt.Sprintf("marshal %s", key), err)
	}
	if err := c.cache.Set(ctx, key, data, ttl); err != nil {
		return apperrors.NewCacheError(fmt.Sprintf("set %s", key), err)
	}
	return nil
}
