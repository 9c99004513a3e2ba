package storage

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stevenovak55/bmnboston-sub015/internal/errors"
)

func newTestCacheService(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheService(NewRedisCacheFromClient(client), 5*time.Minute, 7*24*time.Hour), mr
}

func TestCacheServiceListing(t *testing.T) {
	svc, _ := newTestCacheService(t)
	ctx := testContext(t)

	type view struct {
		Key   string  `json:"key"`
		Price float64 `json:"price"`
	}

	t.Run("miss then hit", func(t *testing.T) {
		var got view
		found, err := svc.GetListing(ctx, "EL123", false, &got)
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, svc.SetListing(ctx, "EL123", false, view{Key: "EL123", Price: 450000}))

		found, err = svc.GetListing(ctx, "EL123", false, &got)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "EL123", got.Key)
		assert.Equal(t, float64(450000), got.Price)
	})

	t.Run("visibility variants are independent keys", func(t *testing.T) {
		require.NoError(t, svc.SetListing(ctx, "EL456", true, view{Key: "privileged"}))

		var got view
		found, err := svc.GetListing(ctx, "EL456", false, &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("invalidate removes both variants", func(t *testing.T) {
		require.NoError(t, svc.SetListing(ctx, "EL789", false, view{Key: "pub"}))
		require.NoError(t, svc.SetListing(ctx, "EL789", true, view{Key: "priv"}))

		require.NoError(t, svc.InvalidateListing(ctx, "EL789"))

		var got view
		for _, privileged := range []bool{false, true} {
			found, err := svc.GetListing(ctx, "EL789", privileged, &got)
			require.NoError(t, err)
			assert.False(t, found)
		}
	})
}

func TestCacheServiceGeocode(t *testing.T) {
	svc, mr := newTestCacheService(t)
	ctx := testContext(t)

	type point struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	address := "10 Elm St, Reading, MA 01867"

	require.NoError(t, svc.SetGeocode(ctx, address, point{Lat: 42.5255, Lng: -71.0958}))

	var got point
	found, err := svc.GetGeocode(ctx, address, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, 42.5255, got.Lat, 1e-9)
	assert.InDelta(t, -71.0958, got.Lng, 1e-9)

	t.Run("expires after the configured TTL", func(t *testing.T) {
		mr.FastForward(7*24*time.Hour + time.Second)

		found, err := svc.GetGeocode(ctx, address, &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("key is hashed, not raw address", func(t *testing.T) {
		key := GeocodeKey(address)
		assert.NotContains(t, key, "Elm")
		assert.Contains(t, key, "geocode:")
	})
}

func TestCacheServiceCategorizesFailures(t *testing.T) {
	svc, mr := newTestCacheService(t)
	ctx := testContext(t)
	mr.Close()

	var got map[string]any
	_, err := svc.GetListing(ctx, "EL123", false, &got)
	require.Error(t, err)

	var catErr *apperrors.CategorizedError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, apperrors.CategoryCache, catErr.Category)
}
