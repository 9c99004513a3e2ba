package models

import "time"

// ListingView is the flattened read model assembled by re-joining the
// denormalized tables. Consumers depend on a stable shape: optional fields
// are pointers without omitempty so absent values serialize as explicit
// nulls rather than disappearing keys.
type ListingView struct {
	ListingID  int64  `json:"listingId"`
	ListingKey string `json:"listingKey"`

	PropertyType            string  `json:"propertyType"`
	PropertySubType         string  `json:"propertySubType"`
	PropertySubTypeExternal string  `json:"propertySubTypeExternal"`
	StandardStatus          string  `json:"standardStatus"`
	ListPrice               float64 `json:"listPrice"`

	OriginalListPrice *float64 `json:"originalListPrice"`
	TaxAnnualAmount   *float64 `json:"taxAnnualAmount"`
	TaxYear           *int     `json:"taxYear"`

	AssociationYN           bool     `json:"associationYN"`
	AssociationFee          *float64 `json:"associationFee"`
	AssociationFeeFrequency *string  `json:"associationFeeFrequency"`
	AssociationFeeIncludes  []string `json:"associationFeeIncludes"`

	StreetNumber    string  `json:"streetNumber"`
	StreetName      string  `json:"streetName"`
	UnitNumber      *string `json:"unitNumber"`
	City            string  `json:"city"`
	StateOrProvince string  `json:"stateOrProvince"`
	PostalCode      string  `json:"postalCode"`
	County          *string `json:"county"`
	Subdivision     *string `json:"subdivision"`
	UnparsedAddress string  `json:"unparsedAddress"`

	Latitude               *float64 `json:"latitude"`
	Longitude              *float64 `json:"longitude"`
	CoordinatesApproximate bool     `json:"coordinatesApproximate"`

	Bedrooms       *int     `json:"bedrooms"`
	BathroomsFull  *int     `json:"bathroomsFull"`
	BathroomsHalf  *int     `json:"bathroomsHalf"`
	BathroomsTotal *float64 `json:"bathroomsTotal"`
	BuildingArea   *float64 `json:"buildingArea"`
	LotSizeAcres   *float64 `json:"lotSizeAcres"`
	// LotSizeSquareFeet is a read-side convenience derived from the stored
	// acres value when the sqft column itself is empty.
	LotSizeSquareFeet *float64 `json:"lotSizeSquareFeet"`
	YearBuilt         *int     `json:"yearBuilt"`
	Stories           *int     `json:"stories"`
	GarageSpaces      *int     `json:"garageSpaces"`
	ParkingTotal      *int     `json:"parkingTotal"`

	Heating               []string `json:"heating"`
	Cooling               []string `json:"cooling"`
	Flooring              []string `json:"flooring"`
	ConstructionMaterials []string `json:"constructionMaterials"`
	Roof                  []string `json:"roof"`
	WaterSource           []string `json:"waterSource"`
	Sewer                 []string `json:"sewer"`
	Appliances            []string `json:"appliances"`
	InteriorFeatures      []string `json:"interiorFeatures"`
	ExteriorFeatures      []string `json:"exteriorFeatures"`
	CommunityFeatures     []string `json:"communityFeatures"`
	PoolFeatures          []string `json:"poolFeatures"`
	ParkingFeatures       []string `json:"parkingFeatures"`
	LaundryFeatures       []string `json:"laundryFeatures"`
	FireplaceFeatures     []string `json:"fireplaceFeatures"`

	ListingContractDate *time.Time `json:"listingContractDate"`
	OffMarketDate       *time.Time `json:"offMarketDate"`
	DaysOnMarket        *int       `json:"daysOnMarket"`
	PricePerSqFt        *float64   `json:"pricePerSqFt"`

	MainPhotoURL *string `json:"mainPhotoUrl"`
	PhotoCount   int     `json:"photoCount"`

	PublicRemarks *string `json:"publicRemarks"`
	ListAgentID   *string `json:"listAgentId"`

	// DetailURL is the canonical detail-page path built from the id.
	DetailURL string `json:"detailUrl"`
}

// ListingSummary is one row of the denormalized summary table, the shape the
// list/search endpoint returns.
type ListingSummary struct {
	ListingID       int64    `json:"listingId"`
	ListingKey      string   `json:"listingKey"`
	PropertyType    string   `json:"propertyType"`
	PropertySubType string   `json:"propertySubType"`
	StandardStatus  string   `json:"standardStatus"`
	ListPrice       float64  `json:"listPrice"`
	City            string   `json:"city"`
	StateOrProvince string   `json:"stateOrProvince"`
	PostalCode      string   `json:"postalCode"`
	UnparsedAddress string   `json:"unparsedAddress"`
	Bedrooms        *int     `json:"bedrooms"`
	BathroomsTotal  *float64 `json:"bathroomsTotal"`
	BuildingArea    *float64 `json:"buildingArea"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	DaysOnMarket    *int     `json:"daysOnMarket"`
	PricePerSqFt    *float64 `json:"pricePerSqFt"`
	MainPhotoURL    *string  `json:"mainPhotoUrl"`
	PhotoCount      int      `json:"photoCount"`
}
