package service

import (
	"fmt"
	"math"

	"github.com/stevenovak55/bmnboston-sub015/internal/models"
	"github.com/stevenovak55/bmnboston-sub015/internal/normalize"
)

// Formatter flattens a listing into the stable response shape. The view's
// optional fields serialize as explicit nulls, and a listing missing some
// of its sub-table rows still formats cleanly with those fields null.
type Formatter struct {
	detailBase string
}

// NewFormatter creates a formatter.
func NewFormatter(detailBase string) *Formatter {
	return &Formatter{detailBase: detailBase}
}

// Format builds the flat view for one listing.
func (f *Formatter) Format(listing *models.Listing) *models.ListingView {
	view := &models.ListingView{
		ListingID:  listing.ListingID,
		ListingKey: listing.ListingKey,

		PropertyType:            string(listing.PropertyType),
		PropertySubType:         listing.PropertySubType,
		PropertySubTypeExternal: normalize.ExternalSubType(listing.PropertySubType),
		StandardStatus:          string(listing.StandardStatus),
		ListPrice:               listing.ListPrice,

		OriginalListPrice: listing.OriginalListPrice,
		TaxAnnualAmount:   listing.TaxAnnualAmount,
		TaxYear:           listing.TaxYear,

		AssociationYN:           listing.AssociationYN,
		AssociationFee:          listing.AssociationFee,
		AssociationFeeFrequency: listing.AssociationFeeFrequency,
		AssociationFeeIncludes:  listing.AssociationFeeIncludes,

		StreetNumber:    listing.StreetNumber,
		StreetName:      listing.StreetName,
		UnitNumber:      listing.UnitNumber,
		City:            listing.City,
		StateOrProvince: listing.StateOrProvince,
		PostalCode:      listing.PostalCode,
		County:          listing.County,
		Subdivision:     listing.Subdivision,
		UnparsedAddress: listing.UnparsedAddress,

		Latitude:               listing.Latitude,
		Longitude:              listing.Longitude,
		CoordinatesApproximate: listing.CoordinatesApproximate,

		Bedrooms:          listing.Bedrooms,
		BathroomsFull:     listing.BathroomsFull,
		BathroomsHalf:     listing.BathroomsHalf,
		BathroomsTotal:    listing.BathroomsTotal,
		BuildingArea:      listing.BuildingArea,
		LotSizeAcres:      listing.LotSizeAcres,
		LotSizeSquareFeet: lotSquareFeet(listing),
		YearBuilt:         listing.YearBuilt,
		Stories:           listing.Stories,
		GarageSpaces:      listing.GarageSpaces,
		ParkingTotal:      listing.ParkingTotal,

		Heating:               listing.Heating,
		Cooling:               listing.Cooling,
		Flooring:              listing.Flooring,
		ConstructionMaterials: listing.ConstructionMaterials,
		Roof:                  listing.Roof,
		WaterSource:           listing.WaterSource,
		Sewer:                 listing.Sewer,
		Appliances:            listing.Appliances,
		InteriorFeatures:      listing.InteriorFeatures,
		ExteriorFeatures:      listing.ExteriorFeatures,
		CommunityFeatures:     listing.CommunityFeatures,
		PoolFeatures:          listing.PoolFeatures,
		ParkingFeatures:       listing.ParkingFeatures,
		LaundryFeatures:       listing.LaundryFeatures,
		FireplaceFeatures:     listing.FireplaceFeatures,

		ListingContractDate: listing.ListingContractDate,
		OffMarketDate:       listing.OffMarketDate,
		DaysOnMarket:        listing.DaysOnMarket,
		PricePerSqFt:        listing.PricePerSqFt,

		MainPhotoURL: listing.MainPhotoURL,
		PhotoCount:   listing.PhotoCount,

		PublicRemarks: listing.PublicRemarks,
		ListAgentID:   listing.ListAgentID,

		DetailURL: fmt.Sprintf("%s/%d/", f.detailBase, listing.ListingID),
	}
	return view
}

// lotSquareFeet prefers the stored sqft value and derives it from acres
// when the details row predates the sqft column.
func lotSquareFeet(listing *models.Listing) *float64 {
	if listing.LotSizeSquareFeet != nil {
		return listing.LotSizeSquareFeet
	}
	if listing.LotSizeAcres == nil {
		return nil
	}
	sqft := math.Round(*listing.LotSizeAcres * normalize.SquareFeetPerAcre)
	return &sqft
}
