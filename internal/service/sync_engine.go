package service

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/stevenovak55/bmnboston-sub015/internal/errors"
	"github.com/stevenovak55/bmnboston-sub015/internal/geocode"
	"github.com/stevenovak55/bmnboston-sub015/internal/logging"
	"github.com/stevenovak55/bmnboston-sub015/internal/models"
	"github.com/stevenovak55/bmnboston-sub015/internal/normalize"
	"github.com/stevenovak55/bmnboston-sub015/internal/storage"
)

// DB is the transactional surface the write path needs.
type DB interface {
	storage.Querier
	BeginTx(ctx context.Context) (storage.Tx, error)
}

// Geocoder resolves addresses to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, addr geocode.Address) (*geocode.Result, error)
}

// SyncEngine fans a listing out across the denormalized tables. The fan-out
// is all-or-nothing: one transaction covers every table, and a failure on
// any of them rolls the whole write back.
type SyncEngine struct {
	db         DB
	store      *storage.TableStore
	geocoder   Geocoder
	dispatcher *Dispatcher
	defaultLat float64
	defaultLng float64
	country    string
	detailBase string
	logger     *logging.Logger
}

// NewSyncEngine creates a sync engine.
func NewSyncEngine(db DB, store *storage.TableStore, geocoder Geocoder, dispatcher *Dispatcher, defaultLat, defaultLng float64, country, detailBase string, logger *logging.Logger) *SyncEngine {
	return &SyncEngine{
		db:         db,
		store:      store,
		geocoder:   geocoder,
		dispatcher: dispatcher,
		defaultLat: defaultLat,
		defaultLng: defaultLng,
		country:    country,
		detailBase: detailBase,
		logger:     logger,
	}
}

// DetailPath builds the canonical detail-page path for a listing id.
func (e *SyncEngine) DetailPath(id int64) string {
	return fmt.Sprintf("%s/%d/", e.detailBase, id)
}

// Sync writes the listing's full state to every table. Coordinates are
// resolved before the transaction opens so slow providers never hold locks;
// an unresolvable address falls back to the configured default coordinate,
// marked approximate. Derived fields are recomputed on every call.
func (e *SyncEngine) Sync(ctx context.Context, listing *models.Listing) error {
	e.resolveCoordinates(ctx, listing)
	e.deriveFields(listing)
	listing.ModifiedAt = time.Now().UTC()

	tx, err := e.db.BeginTx(ctx)
	if err != nil {
		return apperrors.NewStorageError("failed to begin sync transaction", err)
	}

	for _, table := range storage.SyncTables {
		row := e.buildRow(table, listing)
		if err := e.store.UpsertRow(ctx, tx, table, listing.ListingID, row); err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				e.logger.WithError(rbErr).Error("Rollback failed after sync error")
			}
			return apperrors.NewSyncFailedError(table.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewStorageError("failed to commit sync transaction", err)
	}

	e.dispatcher.Publish(ListingChanged{
		ListingID:  listing.ListingID,
		ListingKey: listing.ListingKey,
		DetailPath: e.DetailPath(listing.ListingID),
	})
	return nil
}

// Delete removes the listing's rows from every table. Deletion is
// deliberately not transactional: each table is attempted independently and
// a failure on one never blocks the others, so repeated calls converge on a
// clean state.
func (e *SyncEngine) Delete(ctx context.Context, listingID int64, listingKey string) error {
	primaryDeleted := int64(0)
	// Primary table last, so a partially-deleted listing still resolves.
	for i := len(storage.SyncTables) - 1; i >= 0; i-- {
		table := storage.SyncTables[i]
		deleted, err := e.store.DeleteRow(ctx, e.db, table.Name, listingID)
		if err != nil {
			e.logger.WithError(err).
				WithField("table", table.Name).
				Warn("Failed to delete listing row, continuing with remaining tables")
			continue
		}
		if table.Name == storage.TableListings.Name {
			primaryDeleted = deleted
		}
	}

	if _, err := e.store.DeleteRow(ctx, e.db, storage.PhotosTable, listingID); err != nil {
		e.logger.WithError(err).Warn("Failed to delete listing photos")
	}

	if primaryDeleted == 0 {
		return apperrors.NewNotFoundError("listing", listingID)
	}

	e.dispatcher.Publish(ListingChanged{
		ListingID:  listingID,
		ListingKey: listingKey,
		DetailPath: e.DetailPath(listingID),
		Deleted:    true,
	})
	return nil
}

// RefreshMediaSummary mirrors the media aggregates into the summary table
// without running a full sync.
func (e *SyncEngine) RefreshMediaSummary(ctx context.Context, listingID int64, listingKey string, photoCount int, mainPhotoURL *string) error {
	row := storage.Row{
		"photo_count":    photoCount,
		"main_photo_url": mainPhotoURL,
		"modified_at":    time.Now().UTC(),
	}
	if err := e.store.UpsertRow(ctx, e.db, storage.TableSummaries, listingID, row); err != nil {
		return apperrors.NewSyncFailedError(storage.TableSummaries.Name, err)
	}

	e.dispatcher.Publish(ListingChanged{
		ListingID:  listingID,
		ListingKey: listingKey,
		DetailPath: e.DetailPath(listingID),
	})
	return nil
}

// resolveCoordinates fills in latitude/longitude when the caller did not
// supply them. Geocoding failure is never fatal to a sync; the default
// coordinate is used instead and flagged approximate, and the default is
// never cached so a later sync retries the real resolution.
func (e *SyncEngine) resolveCoordinates(ctx context.Context, listing *models.Listing) {
	if listing.Latitude != nil && listing.Longitude != nil && !e.hasDefaultCoordinate(listing) {
		return
	}

	addr := geocode.Address{
		StreetNumber: listing.StreetNumber,
		StreetName:   listing.StreetName,
		City:         listing.City,
		State:        listing.StateOrProvince,
		PostalCode:   listing.PostalCode,
		Country:      e.country,
	}

	result, err := e.geocoder.Resolve(ctx, addr)
	if err != nil {
		e.logger.WithError(err).
			WithField("listingId", listing.ListingID).
			Warn("Geocoding failed, using default coordinate")
		lat, lng := e.defaultLat, e.defaultLng
		listing.Latitude = &lat
		listing.Longitude = &lng
		listing.CoordinatesApproximate = true
		return
	}

	listing.Latitude = &result.Latitude
	listing.Longitude = &result.Longitude
	listing.CoordinatesApproximate = result.Approximate
}

// hasDefaultCoordinate reports whether the listing carries the fallback
// coordinate from an earlier failed resolution. Such a coordinate is a
// placeholder, not a resolution, so the next sync tries geocoding again.
func (e *SyncEngine) hasDefaultCoordinate(listing *models.Listing) bool {
	return listing.CoordinatesApproximate &&
		listing.Latitude != nil && *listing.Latitude == e.defaultLat &&
		listing.Longitude != nil && *listing.Longitude == e.defaultLng
}

// deriveFields recomputes every derived value from the current state.
func (e *SyncEngine) deriveFields(listing *models.Listing) {
	baths := normalize.NormalizeBathrooms(normalize.Bathrooms{
		Full:  listing.BathroomsFull,
		Half:  listing.BathroomsHalf,
		Total: listing.BathroomsTotal,
	})
	listing.BathroomsFull = baths.Full
	listing.BathroomsHalf = baths.Half
	listing.BathroomsTotal = baths.Total

	lot := normalize.NormalizeLotSize(normalize.LotSize{
		Acres:      listing.LotSizeAcres,
		SquareFeet: listing.LotSizeSquareFeet,
	})
	listing.LotSizeAcres = lot.Acres
	listing.LotSizeSquareFeet = lot.SquareFeet

	listing.PricePerSqFt = normalize.PricePerSquareFoot(listing.ListPrice, listing.BuildingArea)
	listing.DaysOnMarket = normalize.DaysOnMarket(listing.ListingContractDate, listing.OffMarketDate, time.Now().UTC())
	listing.UnparsedAddress = normalize.UnparsedAddress(
		listing.StreetNumber, listing.StreetName, derefPtr(listing.UnitNumber),
		listing.City, listing.StateOrProvince, listing.PostalCode,
	)
}

// buildRow maps the listing onto one table's column set. Every owned column
// is supplied, so a sync always writes the listing's full current state and
// cleared fields overwrite stale values with NULL.
func (e *SyncEngine) buildRow(table storage.TableSpec, listing *models.Listing) storage.Row {
	switch table.Name {
	case storage.TableListings.Name:
		return storage.Row{
			"listing_key":           listing.ListingKey,
			"property_type":         string(listing.PropertyType),
			"property_sub_type":     listing.PropertySubType,
			"standard_status":       string(listing.StandardStatus),
			"list_price":            listing.ListPrice,
			"original_list_price":   listing.OriginalListPrice,
			"listing_contract_date": listing.ListingContractDate,
			"off_market_date":       listing.OffMarketDate,
			"list_agent_id":         listing.ListAgentID,
			"public_remarks":        listing.PublicRemarks,
			"created_at":            listing.CreatedAt,
			"modified_at":           listing.ModifiedAt,
		}

	case storage.TableSummaries.Name:
		return storage.Row{
			"listing_key":       listing.ListingKey,
			"property_type":     string(listing.PropertyType),
			"property_sub_type": normalize.ExternalSubType(listing.PropertySubType),
			"standard_status":   string(listing.StandardStatus),
			"list_price":        listing.ListPrice,
			"city":              listing.City,
			"state_or_province": listing.StateOrProvince,
			"postal_code":       listing.PostalCode,
			"unparsed_address":  listing.UnparsedAddress,
			"bedrooms":          listing.Bedrooms,
			"bathrooms_total":   listing.BathroomsTotal,
			"building_area":     listing.BuildingArea,
			"lot_size_acres":    listing.LotSizeAcres,
			"latitude":          listing.Latitude,
			"longitude":         listing.Longitude,
			"days_on_market":    listing.DaysOnMarket,
			"price_per_sqft":    listing.PricePerSqFt,
			"main_photo_url":    listing.MainPhotoURL,
			"photo_count":       listing.PhotoCount,
			"modified_at":       listing.ModifiedAt,
		}

	case storage.TableDetails.Name:
		return storage.Row{
			"bedrooms":        listing.Bedrooms,
			"bathrooms_full":  listing.BathroomsFull,
			"bathrooms_half":  listing.BathroomsHalf,
			"bathrooms_total": listing.BathroomsTotal,
			"building_area":   listing.BuildingArea,
			"lot_size_acres":  listing.LotSizeAcres,
			"lot_size_sqft":   listing.LotSizeSquareFeet,
			"year_built":      listing.YearBuilt,
			"stories":         listing.Stories,
			"garage_spaces":   listing.GarageSpaces,
			"parking_total":   listing.ParkingTotal,
		}

	case storage.TableLocations.Name:
		row := storage.Row{
			"street_number":           listing.StreetNumber,
			"street_name":             listing.StreetName,
			"unit_number":             listing.UnitNumber,
			"city":                    listing.City,
			"state_or_province":       listing.StateOrProvince,
			"postal_code":             listing.PostalCode,
			"county":                  listing.County,
			"subdivision":             listing.Subdivision,
			"unparsed_address":        listing.UnparsedAddress,
			"latitude":                listing.Latitude,
			"longitude":               listing.Longitude,
			"coordinates_approximate": listing.CoordinatesApproximate,
			"geo_point":               nil,
		}
		if listing.Latitude != nil && listing.Longitude != nil {
			row["geo_point"] = geocode.EncodePoint(*listing.Latitude, *listing.Longitude)
		}
		return row

	case storage.TableFeatures.Name:
		return storage.Row{
			"heating":                storage.JoinSet(listing.Heating),
			"cooling":                storage.JoinSet(listing.Cooling),
			"flooring":               storage.JoinSet(listing.Flooring),
			"construction_materials": storage.JoinSet(listing.ConstructionMaterials),
			"roof":                   storage.JoinSet(listing.Roof),
			"water_source":           storage.JoinSet(listing.WaterSource),
			"sewer":                  storage.JoinSet(listing.Sewer),
			"appliances":             storage.JoinSet(listing.Appliances),
			"interior_features":      storage.JoinSet(listing.InteriorFeatures),
			"exterior_features":      storage.JoinSet(listing.ExteriorFeatures),
			"community_features":     storage.JoinSet(listing.CommunityFeatures),
			"pool_features":          storage.JoinSet(listing.PoolFeatures),
			"parking_features":       storage.JoinSet(listing.ParkingFeatures),
			"laundry_features":       storage.JoinSet(listing.LaundryFeatures),
			"fireplace_features":     storage.JoinSet(listing.FireplaceFeatures),
		}

	case storage.TableFinancials.Name:
		return storage.Row{
			"list_price":                listing.ListPrice,
			"original_list_price":       listing.OriginalListPrice,
			"price_per_sqft":            listing.PricePerSqFt,
			"tax_annual_amount":         listing.TaxAnnualAmount,
			"tax_year":                  listing.TaxYear,
			"association_yn":            listing.AssociationYN,
			"association_fee":           listing.AssociationFee,
			"association_fee_frequency": listing.AssociationFeeFrequency,
			"association_fee_includes":  storage.JoinSet(listing.AssociationFeeIncludes),
		}
	}

	return storage.Row{}
}

func derefPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
