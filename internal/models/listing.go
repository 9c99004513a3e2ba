// Package models defines the persistence-facing data structures for listings
// and their media.
package models

import (
	"time"

	"github.com/stevenovak55/bmnboston-sub015/internal/types"
)

// Listing is the unified in-memory representation of a listing. Persistence
// splits it across six denormalized tables; the sync engine owns that fan-out
// and this struct stays the single source for per-table row mapping.
// Pointer fields are optional and map to NULL columns.
type Listing struct {
	ListingID  int64  `json:"listingId"`
	ListingKey string `json:"listingKey"`

	PropertyType    types.PropertyType   `json:"propertyType"`
	PropertySubType string               `json:"propertySubType"`
	StandardStatus  types.StandardStatus `json:"standardStatus"`

	ListPrice         float64  `json:"listPrice"`
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

	// UnparsedAddress is derived from the street/city/state/zip parts.
	UnparsedAddress string `json:"unparsedAddress"`

	Latitude               *float64 `json:"latitude"`
	Longitude              *float64 `json:"longitude"`
	CoordinatesApproximate bool     `json:"coordinatesApproximate"`

	Bedrooms          *int     `json:"bedrooms"`
	BathroomsFull     *int     `json:"bathroomsFull"`
	BathroomsHalf     *int     `json:"bathroomsHalf"`
	BathroomsTotal    *float64 `json:"bathroomsTotal"`
	BuildingArea      *float64 `json:"buildingArea"`
	LotSizeAcres      *float64 `json:"lotSizeAcres"`
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

	// Derived aggregates, recomputed on every sync.
	DaysOnMarket *int     `json:"daysOnMarket"`
	PricePerSqFt *float64 `json:"pricePerSqFt"`

	// Mirrored from the media subsystem.
	MainPhotoURL *string `json:"mainPhotoUrl"`
	PhotoCount   int     `json:"photoCount"`

	PublicRemarks *string `json:"publicRemarks"`
	ListAgentID   *string `json:"listAgentId"`

	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}
