package types

import (
	"fmt"
	"time"
)

// ListingInput is the typed boundary payload for creating or updating a
// listing. Every field is optional at the type level; Validate enforces
// required-field presence for creates and enum membership for whatever was
// supplied. Pointer fields distinguish "absent" from zero values so partial
// updates only touch what the caller sent.
type ListingInput struct {
	PropertyType    *string `json:"propertyType,omitempty"`
	PropertySubType *string `json:"propertySubType,omitempty"`
	StandardStatus  *string `json:"standardStatus,omitempty"`

	ListPrice         *float64 `json:"listPrice,omitempty"`
	OriginalListPrice *float64 `json:"originalListPrice,omitempty"`
	TaxAnnualAmount   *float64 `json:"taxAnnualAmount,omitempty"`
	TaxYear           *int     `json:"taxYear,omitempty"`

	AssociationYN           *bool    `json:"associationYN,omitempty"`
	AssociationFee          *float64 `json:"associationFee,omitempty"`
	AssociationFeeFrequency *string  `json:"associationFeeFrequency,omitempty"`
	AssociationFeeIncludes  []string `json:"associationFeeIncludes,omitempty"`

	StreetNumber    *string  `json:"streetNumber,omitempty"`
	StreetName      *string  `json:"streetName,omitempty"`
	UnitNumber      *string  `json:"unitNumber,omitempty"`
	City            *string  `json:"city,omitempty"`
	StateOrProvince *string  `json:"stateOrProvince,omitempty"`
	PostalCode      *string  `json:"postalCode,omitempty"`
	County          *string  `json:"county,omitempty"`
	Subdivision     *string  `json:"subdivision,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`

	Bedrooms          *int     `json:"bedrooms,omitempty"`
	BathroomsFull     *int     `json:"bathroomsFull,omitempty"`
	BathroomsHalf     *int     `json:"bathroomsHalf,omitempty"`
	BathroomsTotal    *float64 `json:"bathroomsTotal,omitempty"`
	BuildingArea      *float64 `json:"buildingArea,omitempty"`
	LotSizeAcres      *float64 `json:"lotSizeAcres,omitempty"`
	LotSizeSquareFeet *float64 `json:"lotSizeSquareFeet,omitempty"`
	YearBuilt         *int     `json:"yearBuilt,omitempty"`
	Stories           *int     `json:"stories,omitempty"`
	GarageSpaces      *int     `json:"garageSpaces,omitempty"`
	ParkingTotal      *int     `json:"parkingTotal,omitempty"`

	Heating               []string `json:"heating,omitempty"`
	Cooling               []string `json:"cooling,omitempty"`
	Flooring              []string `json:"flooring,omitempty"`
	ConstructionMaterials []string `json:"constructionMaterials,omitempty"`
	Roof                  []string `json:"roof,omitempty"`
	WaterSource           []string `json:"waterSource,omitempty"`
	Sewer                 []string `json:"sewer,omitempty"`
	Appliances            []string `json:"appliances,omitempty"`
	InteriorFeatures      []string `json:"interiorFeatures,omitempty"`
	ExteriorFeatures      []string `json:"exteriorFeatures,omitempty"`
	CommunityFeatures     []string `json:"communityFeatures,omitempty"`
	PoolFeatures          []string `json:"poolFeatures,omitempty"`
	ParkingFeatures       []string `json:"parkingFeatures,omitempty"`
	LaundryFeatures       []string `json:"laundryFeatures,omitempty"`
	FireplaceFeatures     []string `json:"fireplaceFeatures,omitempty"`

	ListingContractDate *time.Time `json:"listingContractDate,omitempty"`
	PublicRemarks       *string    `json:"publicRemarks,omitempty"`
	ListAgentID         *string    `json:"listAgentId,omitempty"`
}

// Validate checks the input before it reaches the sync engine. When forCreate
// is true the required fields (property type, list price, street, city, state,
// postal code) must be present; otherwise only supplied fields are checked.
func (in *ListingInput) Validate(forCreate bool) error {
	if forCreate {
		if in.PropertyType == nil {
			return validationError("propertyType", "is required")
		}
		if in.ListPrice == nil {
			return validationError("listPrice", "is required")
		}
		for field, v := range map[string]*string{
			"streetNumber": in.StreetNumber,
			"streetName":   in.StreetName,
			"city":         in.City,
			"postalCode":   in.PostalCode,
		} {
			if v == nil || *v == "" {
				return validationError(field, "is required")
			}
		}
		if in.StateOrProvince == nil {
			return validationError("stateOrProvince", "is required")
		}
	}

	if in.PropertyType != nil && !IsValidPropertyType(*in.PropertyType) {
		return validationError("propertyType", fmt.Sprintf("unknown value %q", *in.PropertyType))
	}
	if in.StandardStatus != nil && !IsValidStatus(*in.StandardStatus) {
		return validationError("standardStatus", fmt.Sprintf("unknown value %q", *in.StandardStatus))
	}
	if in.ListPrice != nil && *in.ListPrice <= 0 {
		return validationError("listPrice", "must be greater than zero")
	}
	if in.StateOrProvince != nil && len(*in.StateOrProvince) != 2 {
		return validationError("stateOrProvince", "must be a 2-letter state code")
	}
	if in.BathroomsFull != nil && *in.BathroomsFull < 0 {
		return validationError("bathroomsFull", "must not be negative")
	}
	if in.BathroomsHalf != nil && *in.BathroomsHalf < 0 {
		return validationError("bathroomsHalf", "must not be negative")
	}
	return nil
}

func validationError(field, reason string) *ServiceError {
	return &ServiceError{
		Code:    "VALIDATION_FAILED",
		Message: fmt.Sprintf("invalid field %q: %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}
