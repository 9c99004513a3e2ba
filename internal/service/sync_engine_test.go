package service

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stevenovak55/bmnboston-sub015/internal/errors"
	"github.com/stevenovak55/bmnboston-sub015/internal/geocode"
	"github.com/stevenovak55/bmnboston-sub015/internal/models"
	"github.com/stevenovak55/bmnboston-sub015/internal/storage"
	"github.com/stevenovak55/bmnboston-sub015/internal/types"
)

func testListing() *models.Listing {
	total := 2.5
	area := 1500.0
	return &models.Listing{
		ListingID:       123,
		ListingKey:      "ELtest000000000000000000000000",
		PropertyType:    types.PropertyTypeResidential,
		PropertySubType: "Condo",
		StandardStatus:  types.StatusActive,
		ListPrice:       450000,
		StreetNumber:    "10",
		StreetName:      "Elm St",
		City:            "Reading",
		StateOrProvince: "MA",
		PostalCode:      "01867",
		BathroomsTotal:  &total,
		BuildingArea:    &area,
		CreatedAt:       time.Now().UTC(),
	}
}

func newSyncEngine(db *fakeDB, geocoder *fakeGeocoder) (*SyncEngine, *recordingSubscriber) {
	recorder := &recordingSubscriber{}
	dispatcher := NewDispatcher(testLogger(), recorder)
	engine := NewSyncEngine(db, storage.NewTableStore(), geocoder, dispatcher,
		42.3601, -71.0589, "USA", "/listing", testLogger())
	return engine, recorder
}

func TestSyncWritesEveryTable(t *testing.T) {
	db := &fakeDB{}
	geocoder := &fakeGeocoder{result: &geocode.Result{Latitude: 42.5255, Longitude: -71.0958}}
	engine, recorder := newSyncEngine(db, geocoder)

	listing := testListing()
	require.NoError(t, engine.Sync(testContext(t), listing))

	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
	assert.False(t, db.txs[0].rolledBack)

	for _, table := range storage.SyncTables {
		assert.NotEmpty(t, db.callsMatching("INSERT INTO "+table.Name+" ("),
			"expected an insert for %s", table.Name)
	}

	t.Run("derived fields recomputed", func(t *testing.T) {
		require.NotNil(t, listing.PricePerSqFt)
		assert.InDelta(t, 300.0, *listing.PricePerSqFt, 1e-9)
		require.NotNil(t, listing.BathroomsFull)
		assert.Equal(t, 2, *listing.BathroomsFull)
		require.NotNil(t, listing.BathroomsHalf)
		assert.Equal(t, 1, *listing.BathroomsHalf)
		assert.Equal(t, "10 Elm St, Reading, MA 01867", listing.UnparsedAddress)
	})

	t.Run("resolved coordinates applied", func(t *testing.T) {
		require.NotNil(t, listing.Latitude)
		assert.InDelta(t, 42.5255, *listing.Latitude, 1e-9)
		assert.False(t, listing.CoordinatesApproximate)
	})

	t.Run("change event published after commit", func(t *testing.T) {
		engine.dispatcher.Wait()
		events := recorder.recorded()
		require.Len(t, events, 1)
		assert.Equal(t, int64(123), events[0].ListingID)
		assert.Equal(t, "/listing/123/", events[0].DetailPath)
		assert.False(t, events[0].Deleted)
	})
}

func TestSyncRollsBackOnTableFailure(t *testing.T) {
	db := &fakeDB{}
	db.execFunc = failOnTable(storage.TableLocations.Name)
	geocoder := &fakeGeocoder{result: &geocode.Result{Latitude: 42.5, Longitude: -71.1}}
	engine, recorder := newSyncEngine(db, geocoder)

	err := engine.Sync(testContext(t), testListing())
	require.Error(t, err)

	var catErr *apperrors.CategorizedError
	require.True(t, errors.As(err, &catErr))
	assert.Equal(t, apperrors.CategorySync, catErr.Category)

	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)

	engine.dispatcher.Wait()
	assert.Empty(t, recorder.recorded(), "no event may fire for a rolled-back sync")
}

func TestSyncFallsBackToDefaultCoordinate(t *testing.T) {
	db := &fakeDB{}
	geocoder := &fakeGeocoder{err: geocode.ErrUnresolvable}
	engine, _ := newSyncEngine(db, geocoder)

	listing := testListing()
	require.NoError(t, engine.Sync(testContext(t), listing))

	require.NotNil(t, listing.Latitude)
	assert.InDelta(t, 42.3601, *listing.Latitude, 1e-9)
	assert.InDelta(t, -71.0589, *listing.Longitude, 1e-9)
	assert.True(t, listing.CoordinatesApproximate)
}

func TestSyncSkipsGeocodingWhenCoordinatesSupplied(t *testing.T) {
	db := &fakeDB{}
	geocoder := &fakeGeocoder{err: geocode.ErrUnresolvable}
	engine, _ := newSyncEngine(db, geocoder)

	lat, lng := 42.52, -71.09
	listing := testListing()
	listing.Latitude = &lat
	listing.Longitude = &lng

	require.NoError(t, engine.Sync(testContext(t), listing))
	assert.Zero(t, geocoder.calls)
	assert.False(t, listing.CoordinatesApproximate)
}

func TestSyncGeocodesWithConfiguredCountry(t *testing.T) {
	db := &fakeDB{}
	geocoder := &fakeGeocoder{result: &geocode.Result{Latitude: 42.5, Longitude: -71.1}}
	engine, _ := newSyncEngine(db, geocoder)

	require.NoError(t, engine.Sync(testContext(t), testListing()))
	assert.Equal(t, "10", geocoder.lastAddr.StreetNumber)
	assert.Equal(t, "USA", geocoder.lastAddr.Country)
}

func TestSyncRetriesGeocodingAfterFallback(t *testing.T) {
	defaultCoordinate := func() *models.Listing {
		lat, lng := 42.3601, -71.0589
		listing := testListing()
		listing.Latitude = &lat
		listing.Longitude = &lng
		listing.CoordinatesApproximate = true
		return listing
	}

	t.Run("recovered provider replaces the fallback coordinate", func(t *testing.T) {
		db := &fakeDB{}
		geocoder := &fakeGeocoder{result: &geocode.Result{Latitude: 42.5255, Longitude: -71.0958}}
		engine, _ := newSyncEngine(db, geocoder)

		listing := defaultCoordinate()
		require.NoError(t, engine.Sync(testContext(t), listing))

		assert.Equal(t, 1, geocoder.calls)
		require.NotNil(t, listing.Latitude)
		assert.InDelta(t, 42.5255, *listing.Latitude, 1e-9)
		assert.InDelta(t, -71.0958, *listing.Longitude, 1e-9)
		assert.False(t, listing.CoordinatesApproximate)
	})

	t.Run("keeps the fallback while the provider stays down", func(t *testing.T) {
		db := &fakeDB{}
		geocoder := &fakeGeocoder{err: geocode.ErrUnresolvable}
		engine, _ := newSyncEngine(db, geocoder)

		listing := defaultCoordinate()
		require.NoError(t, engine.Sync(testContext(t), listing))

		assert.Equal(t, 1, geocoder.calls)
		assert.InDelta(t, 42.3601, *listing.Latitude, 1e-9)
		assert.True(t, listing.CoordinatesApproximate)
	})

	t.Run("a resolved coordinate is never re-geocoded", func(t *testing.T) {
		db := &fakeDB{}
		geocoder := &fakeGeocoder{result: &geocode.Result{Latitude: 40.0, Longitude: -70.0}}
		engine, _ := newSyncEngine(db, geocoder)

		lat, lng := 42.52, -71.09
		listing := testListing()
		listing.Latitude = &lat
		listing.Longitude = &lng

		require.NoError(t, engine.Sync(testContext(t), listing))
		assert.Zero(t, geocoder.calls)
		assert.InDelta(t, 42.52, *listing.Latitude, 1e-9)
	})
}

func TestSyncSummaryUsesExternalSubType(t *testing.T) {
	db := &fakeDB{}
	geocoder := &fakeGeocoder{result: &geocode.Result{Latitude: 42.5, Longitude: -71.1}}
	engine, _ := newSyncEngine(db, geocoder)

	require.NoError(t, engine.Sync(testContext(t), testListing()))

	inserts := db.callsMatching("INSERT INTO " + storage.TableSummaries.Name + " (")
	require.Len(t, inserts, 1)

	// Insert args are [id, columns...] in declared column order.
	subTypeArg := inserts[0].args[1+columnIndex(storage.TableSummaries, "property_sub_type")]
	assert.Equal(t, "Condominium", subTypeArg)

	t.Run("primary table keeps the internal vocabulary", func(t *testing.T) {
		inserts := db.callsMatching("INSERT INTO " + storage.TableListings.Name + " (")
		require.Len(t, inserts, 1)
		subTypeArg := inserts[0].args[1+columnIndex(storage.TableListings, "property_sub_type")]
		assert.Equal(t, "Condo", subTypeArg)
	})
}

func TestSyncLocationRowEncodesGeoPoint(t *testing.T) {
	db := &fakeDB{}
	geocoder := &fakeGeocoder{result: &geocode.Result{Latitude: 42.3601, Longitude: -71.0589}}
	engine, _ := newSyncEngine(db, geocoder)

	require.NoError(t, engine.Sync(testContext(t), testListing()))

	inserts := db.callsMatching("INSERT INTO " + storage.TableLocations.Name + " (")
	require.Len(t, inserts, 1)
	pointArg := inserts[0].args[1+columnIndex(storage.TableLocations, "geo_point")]
	assert.Equal(t, "POINT(-71.0589 42.3601)", pointArg)
}

func TestDelete(t *testing.T) {
	t.Run("removes every table and publishes a delete event", func(t *testing.T) {
		db := &fakeDB{}
		engine, recorder := newSyncEngine(db, &fakeGeocoder{})

		require.NoError(t, engine.Delete(testContext(t), 123, "ELabc"))

		for _, table := range storage.SyncTables {
			assert.NotEmpty(t, db.callsMatching("DELETE FROM "+table.Name+" "))
		}
		assert.NotEmpty(t, db.callsMatching("DELETE FROM el_listing_photos"))

		engine.dispatcher.Wait()
		events := recorder.recorded()
		require.Len(t, events, 1)
		assert.True(t, events[0].Deleted)
	})

	t.Run("missing primary row reports not found", func(t *testing.T) {
		db := &fakeDB{}
		db.execFunc = func(string, []any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		engine, _ := newSyncEngine(db, &fakeGeocoder{})

		err := engine.Delete(testContext(t), 999, "ELmissing")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("keeps going when one table fails", func(t *testing.T) {
		db := &fakeDB{}
		db.execFunc = failOnTable(storage.TableFeatures.Name)
		engine, _ := newSyncEngine(db, &fakeGeocoder{})

		require.NoError(t, engine.Delete(testContext(t), 123, "ELabc"))
		assert.NotEmpty(t, db.callsMatching("DELETE FROM "+storage.TableListings.Name+" "))
	})
}

func TestRefreshMediaSummary(t *testing.T) {
	db := &fakeDB{}
	db.rowFunc = func(string, []any) pgx.Row { return scanBool(true) }
	engine, recorder := newSyncEngine(db, &fakeGeocoder{})

	url := "https://cdn.example.com/photo.jpg"
	require.NoError(t, engine.RefreshMediaSummary(testContext(t), 123, "ELabc", 4, &url))

	updates := db.callsMatching("UPDATE " + storage.TableSummaries.Name + " ")
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0].sql, "photo_count")
	assert.Contains(t, updates[0].sql, "main_photo_url")

	engine.dispatcher.Wait()
	assert.Len(t, recorder.recorded(), 1)
}

func columnIndex(spec storage.TableSpec, column string) int {
	for i, col := range spec.Columns {
		if col == column {
			return i
		}
	}
	return -1
}
