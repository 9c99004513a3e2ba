package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/stevenovak55/bmnboston-sub015/internal/errors"
	"github.com/stevenovak55/bmnboston-sub015/internal/models"
	"github.com/stevenovak55/bmnboston-sub015/internal/types"
)

// JoinSet encodes a multi-value attribute as the comma-delimited column
// format. Empty slices map to NULL so absent and empty are the same thing.
func JoinSet(values []string) any {
	if len(values) == 0 {
		return nil
	}
	return strings.Join(values, ",")
}

// SplitSet decodes a comma-delimited column back into a slice.
func SplitSet(column *string) []string {
	if column == nil || *column == "" {
		return nil
	}
	return strings.Split(*column, ",")
}

// ListingFilter holds the optional predicates for the list query. Zero
// values mean "no constraint".
type ListingFilter struct {
	City           string
	PropertyType   string
	StandardStatus string
	MinPrice       float64
	MaxPrice       float64
	MinBedrooms    int
	// Bounding box, applied only when all four corners are set.
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
	Limit  int
	Offset int
}

// EffectiveLimit clamps the page size to [1, 200], defaulting to 50.
func (f ListingFilter) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > 200 {
		return 50
	}
	return f.Limit
}

// whereClause renders the filter's predicates as a WHERE fragment with
// positional args. Returns the empty string when nothing is constrained.
func (f ListingFilter) whereClause() (string, []any, int) {
	var conditions []string
	var args []any
	pos := 1

	addCondition := func(clause string, value any) {
		conditions = append(conditions, fmt.Sprintf(clause, pos))
		args = append(args, value)
		pos++
	}

	if f.City != "" {
		addCondition("city = $%d", f.City)
	}
	if f.PropertyType != "" {
		addCondition("property_type = $%d", f.PropertyType)
	}
	if f.StandardStatus != "" {
		addCondition("standard_status = $%d", f.StandardStatus)
	}
	if f.MinPrice > 0 {
		addCondition("list_price >= $%d", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		addCondition("list_price <= $%d", f.MaxPrice)
	}
	if f.MinBedrooms > 0 {
		addCondition("bedrooms >= $%d", f.MinBedrooms)
	}
	if f.MinLat != 0 && f.MaxLat != 0 && f.MinLng != 0 && f.MaxLng != 0 {
		addCondition("latitude >= $%d", f.MinLat)
		addCondition("latitude <= $%d", f.MaxLat)
		addCondition("longitude >= $%d", f.MinLng)
		addCondition("longitude <= $%d", f.MaxLng)
	}

	if len(conditions) == 0 {
		return "", nil, pos
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, pos
}

// ListingRepository reads listings back out of the denormalized tables. All
// writes go through the sync engine; this type is read-only on purpose.
type ListingRepository struct {
	db *PostgresDB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *PostgresDB) *ListingRepository {
	return &ListingRepository{db: db}
}

// ResolveKey maps an opaque listing key back to its numeric id.
func (r *ListingRepository) ResolveKey(ctx context.Context, listingKey string) (int64, error) {
	var id int64
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE listing_key = $1`, PrimaryKeyColumn, TableListings.Name)
	err := r.db.QueryRow(ctx, query, listingKey).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.NewNotFoundError("listing", 0)
	}
	if err != nil {
		return 0, apperrors.NewStorageError("failed to resolve listing key", err)
	}
	return id, nil
}

// KeyForID maps a numeric id to its opaque listing key.
func (r *ListingRepository) KeyForID(ctx context.Context, id int64) (string, error) {
	var key string
	query := fmt.Sprintf(`SELECT listing_key FROM %s WHERE %s = $1`, TableListings.Name, PrimaryKeyColumn)
	err := r.db.QueryRow(ctx, query, id).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.NewNotFoundError("listing", id)
	}
	if err != nil {
		return "", apperrors.NewStorageError("failed to resolve listing id", err)
	}
	return key, nil
}

// GetListing assembles the unified listing from its per-table rows. The
// primary table row is mandatory; every sub-table row is optional, so a
// listing written by an older schema version still reads back cleanly.
func (r *ListingRepository) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	listing, err := r.loadPrimary(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, load := range []func(context.Context, *models.Listing) error{
		r.loadDetails,
		r.loadLocation,
		r.loadFeatures,
		r.loadFinancials,
		r.loadSummary,
	} {
		if err := load(ctx, listing); err != nil {
			return nil, err
		}
	}
	return listing, nil
}

func (r *ListingRepository) loadPrimary(ctx context.Context, id int64) (*models.Listing, error) {
	query := fmt.Sprintf(`
		SELECT listing_key, property_type, property_sub_type, standard_status,
		       list_price, original_list_price, listing_contract_date,
		       off_market_date, list_agent_id, public_remarks,
		       created_at, modified_at
		FROM %s WHERE %s = $1`, TableListings.Name, PrimaryKeyColumn)

	listing := &models.Listing{ListingID: id}
	var propertyType, standardStatus string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&listing.ListingKey,
		&propertyType,
		&listing.PropertySubType,
		&standardStatus,
		&listing.ListPrice,
		&listing.OriginalListPrice,
		&listing.ListingContractDate,
		&listing.OffMarketDate,
		&listing.ListAgentID,
		&listing.PublicRemarks,
		&listing.CreatedAt,
		&listing.ModifiedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("listing", id)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to load listing", err)
	}
	listing.PropertyType = types.PropertyType(propertyType)
	listing.StandardStatus = types.StandardStatus(standardStatus)
	return listing, nil
}

func (r *ListingRepository) loadDetails(ctx context.Context, listing *models.Listing) error {
	query := fmt.Sprintf(`
		SELECT bedrooms, bathrooms_full, bathrooms_half, bathrooms_total,
		       building_area, lot_size_acres, lot_size_sqft, year_built,
		       stories, garage_spaces, parking_total
		FROM %s WHERE %s = $1`, TableDetails.Name, PrimaryKeyColumn)

	err := r.db.QueryRow(ctx, query, listing.ListingID).Scan(
		&listing.Bedrooms,
		&listing.BathroomsFull,
		&listing.BathroomsHalf,
		&listing.BathroomsTotal,
		&listing.BuildingArea,
		&listing.LotSizeAcres,
		&listing.LotSizeSquareFeet,
		&listing.YearBuilt,
		&listing.Stories,
		&listing.GarageSpaces,
		&listing.ParkingTotal,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return apperrors.NewStorageError("failed to load listing details", err)
	}
	return nil
}

func (r *ListingRepository) loadLocation(ctx context.Context, listing *models.Listing) error {
	query := fmt.Sprintf(`
		SELECT street_number, street_name, unit_number, city,
		       state_or_province, postal_code, county, subdivision,
		       unparsed_address, latitude, longitude, coordinates_approximate
		FROM %s WHERE %s = $1`, TableLocations.Name, PrimaryKeyColumn)

	var streetNumber, streetName, city, state, postalCode, unparsed *string
	err := r.db.QueryRow(ctx, query, listing.ListingID).Scan(
		&streetNumber,
		&streetName,
		&listing.UnitNumber,
		&city,
		&state,
		&postalCode,
		&listing.County,
		&listing.Subdivision,
		&unparsed,
		&listing.Latitude,
		&listing.Longitude,
		&listing.CoordinatesApproximate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return apperrors.NewStorageError("failed to load listing location", err)
	}
	listing.StreetNumber = deref(streetNumber)
	listing.StreetName = deref(streetName)
	listing.City = deref(city)
	listing.StateOrProvince = deref(state)
	listing.PostalCode = deref(postalCode)
	listing.UnparsedAddress = deref(unparsed)
	return nil
}

func (r *ListingRepository) loadFeatures(ctx context.Context, listing *models.Listing) error {
	query := fmt.Sprintf(`
		SELECT heating, cooling, flooring, construction_materials, roof,
		       water_source, sewer, appliances, interior_features,
		       exterior_features, community_features, pool_features,
		       parking_features, laundry_features, fireplace_features
		FROM %s WHERE %s = $1`, TableFeatures.Name, PrimaryKeyColumn)

	cols := make([]*string, len(TableFeatures.Columns))
	dests := make([]any, len(cols))
	for i := range cols {
		dests[i] = &cols[i]
	}
	err := r.db.QueryRow(ctx, query, listing.ListingID).Scan(dests...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return apperrors.NewStorageError("failed to load listing features", err)
	}

	sets := []*[]string{
		&listing.Heating, &listing.Cooling, &listing.Flooring,
		&listing.ConstructionMaterials, &listing.Roof, &listing.WaterSource,
		&listing.Sewer, &listing.Appliances, &listing.InteriorFeatures,
		&listing.ExteriorFeatures, &listing.CommunityFeatures,
		&listing.PoolFeatures, &listing.ParkingFeatures,
		&listing.LaundryFeatures, &listing.FireplaceFeatures,
	}
	for i, target := range sets {
		*target = SplitSet(cols[i])
	}
	return nil
}

func (r *ListingRepository) loadFinancials(ctx context.Context, listing *models.Listing) error {
	query := fmt.Sprintf(`
		SELECT tax_annual_amount, tax_year, association_yn, association_fee,
		       association_fee_frequency, association_fee_includes
		FROM %s WHERE %s = $1`, TableFinancials.Name, PrimaryKeyColumn)

	var feeIncludes *string
	err := r.db.QueryRow(ctx, query, listing.ListingID).Scan(
		&listing.TaxAnnualAmount,
		&listing.TaxYear,
		&listing.AssociationYN,
		&listing.AssociationFee,
		&listing.AssociationFeeFrequency,
		&feeIncludes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return apperrors.NewStorageError("failed to load listing financials", err)
	}
	listing.AssociationFeeIncludes = SplitSet(feeIncludes)
	return nil
}

func (r *ListingRepository) loadSummary(ctx context.Context, listing *models.Listing) error {
	query := fmt.Sprintf(`
		SELECT days_on_market, price_per_sqft, main_photo_url, photo_count
		FROM %s WHERE %s = $1`, TableSummaries.Name, PrimaryKeyColumn)

	err := r.db.QueryRow(ctx, query, listing.ListingID).Scan(
		&listing.DaysOnMarket,
		&listing.PricePerSqFt,
		&listing.MainPhotoURL,
		&listing.PhotoCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return apperrors.NewStorageError("failed to load listing summary", err)
	}
	return nil
}

// ListSummaries queries the denormalized summary table with the supplied
// filter. The bounding-box predicate runs against the latitude/longitude
// columns so it composes with the other filters.
func (r *ListingRepository) ListSummaries(ctx context.Context, filter ListingFilter) ([]models.ListingSummary, error) {
	where, args, pos := filter.whereClause()

	query := fmt.Sprintf(`
		SELECT %s, listing_key, property_type, property_sub_type,
		       standard_status, list_price, city, state_or_province,
		       postal_code, unparsed_address, bedrooms, bathrooms_total,
		       building_area, latitude, longitude, days_on_market,
		       price_per_sqft, main_photo_url, photo_count
		FROM %s`, PrimaryKeyColumn, TableSummaries.Name)

	query += where
	query += " ORDER BY modified_at DESC, " + PrimaryKeyColumn + " DESC"

	query += fmt.Sprintf(" LIMIT $%d", pos)
	args = append(args, filter.EffectiveLimit())
	pos++
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list summaries", err)
	}
	defer rows.Close()

	var summaries []models.ListingSummary
	for rows.Next() {
		var s models.ListingSummary
		if err := rows.Scan(
			&s.ListingID, &s.ListingKey, &s.PropertyType, &s.PropertySubType,
			&s.StandardStatus, &s.ListPrice, &s.City, &s.StateOrProvince,
			&s.PostalCode, &s.UnparsedAddress, &s.Bedrooms, &s.BathroomsTotal,
			&s.BuildingArea, &s.Latitude, &s.Longitude, &s.DaysOnMarket,
			&s.PricePerSqFt, &s.MainPhotoURL, &s.PhotoCount,
		); err != nil {
			return nil, apperrors.NewStorageError("failed to scan summary row", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate summaries", err)
	}
	return summaries, nil
}

// CountSummaries counts the rows the same filter would match, ignoring
// pagination. Pairs with ListSummaries to report totals on paged responses.
func (r *ListingRepository) CountSummaries(ctx context.Context, filter ListingFilter) (int64, error) {
	where, args, _ := filter.whereClause()
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, TableSummaries.Name) + where

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, apperrors.NewStorageError("failed to count summaries", err)
	}
	return total, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
