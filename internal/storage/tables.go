package storage

// TableSpec names one physical listing table, its archive shadow and the
// columns it owns. The listing_id primary key column is implicit and never
// listed. Column ownership is the per-table contract the sync engine writes
// by: an update touches only columns from the owning table's set.
type TableSpec struct {
	Name    string
	Archive string
	Columns []string
}

// PrimaryKeyColumn is the shared primary key column of every listing table.
const PrimaryKeyColumn = "listing_id"

// TableListings is the primary table; a listing exists iff it has a row here.
var TableListings = TableSpec{
	Name:    "el_listings",
	Archive: "el_listings_archive",
	Columns: []string{
		"listing_key",
		"property_type",
		"property_sub_type",
		"standard_status",
		"list_price",
		"original_list_price",
		"listing_contract_date",
		"off_market_date",
		"list_agent_id",
		"public_remarks",
		"created_at",
		"modified_at",
	},
}

// TableSummaries is the wide denormalized table the search layer reads.
// property_sub_type here carries the external-compatible vocabulary.
var TableSummaries = TableSpec{
	Name:    "el_listing_summaries",
	Archive: "el_listing_summaries_archive",
	Columns: []string{
		"listing_key",
		"property_type",
		"property_sub_type",
		"standard_status",
		"list_price",
		"city",
		"state_or_province",
		"postal_code",
		"unparsed_address",
		"bedrooms",
		"bathrooms_total",
		"building_area",
		"lot_size_acres",
		"latitude",
		"longitude",
		"days_on_market",
		"price_per_sqft",
		"main_photo_url",
		"photo_count",
		"modified_at",
	},
}

// TableDetails owns the physical specification columns.
var TableDetails = TableSpec{
	Name:    "el_listing_details",
	Archive: "el_listing_details_archive",
	Columns: []string{
		"bedrooms",
		"bathrooms_full",
		"bathrooms_half",
		"bathrooms_total",
		"building_area",
		"lot_size_acres",
		"lot_size_sqft",
		"year_built",
		"stories",
		"garage_spaces",
		"parking_total",
	},
}

// TableLocations owns the address and coordinate columns. geo_point stores
// the coordinate in (longitude, latitude) axis order.
var TableLocations = TableSpec{
	Name:    "el_listing_locations",
	Archive: "el_listing_locations_archive",
	Columns: []string{
		"street_number",
		"street_name",
		"unit_number",
		"city",
		"state_or_province",
		"postal_code",
		"county",
		"subdivision",
		"unparsed_address",
		"latitude",
		"longitude",
		"coordinates_approximate",
		"geo_point",
	},
}

// TableFeatures owns the descriptive multi-value attribute columns, each
// stored as a comma-delimited set.
var TableFeatures = TableSpec{
	Name:    "el_listing_features",
	Archive: "el_listing_features_archive",
	Columns: []string{
		"heating",
		"cooling",
		"flooring",
		"construction_materials",
		"roof",
		"water_source",
		"sewer",
		"appliances",
		"interior_features",
		"exterior_features",
		"community_features",
		"pool_features",
		"parking_features",
		"laundry_features",
		"fireplace_features",
	},
}

// TableFinancials owns tax and association columns.
var TableFinancials = TableSpec{
	Name:    "el_listing_financials",
	Archive: "el_listing_financials_archive",
	Columns: []string{
		"list_price",
		"original_list_price",
		"price_per_sqft",
		"tax_annual_amount",
		"tax_year",
		"association_yn",
		"association_fee",
		"association_fee_frequency",
		"association_fee_includes",
	},
}

// PhotosTable is the media table. It is not part of the sync fan-out; photo
// rows are retagged between active and archive sources instead of moved.
const PhotosTable = "el_listing_photos"

// IDSequenceTable backs the id allocator.
const IDSequenceTable = "el_listing_ids"

// SyncTables lists every table the sync engine fans a listing out to, primary
// table first. A listing's presence across them is all-or-nothing.
var SyncTables = []TableSpec{
	TableListings,
	TableSummaries,
	TableDetails,
	TableLocations,
	TableFeatures,
	TableFinancials,
}
