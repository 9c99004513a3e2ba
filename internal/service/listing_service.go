package service

import (
	"context"
	"time"

	"github.com/stevenovak55/bmnboston-sub015/internal/logging"
	"github.com/stevenovak55/bmnboston-sub015/internal/models"
	"github.com/stevenovak55/bmnboston-sub015/internal/storage"
	"github.com/stevenovak55/bmnboston-sub015/internal/types"
)

// ListingStore is the read-side repository surface.
type ListingStore interface {
	GetListing(ctx context.Context, id int64) (*models.Listing, error)
	KeyForID(ctx context.Context, id int64) (string, error)
	ResolveKey(ctx context.Context, listingKey string) (int64, error)
	ListSummaries(ctx context.Context, filter storage.ListingFilter) ([]models.ListingSummary, error)
	CountSummaries(ctx context.Context, filter storage.ListingFilter) (int64, error)
}

// Allocator issues listing ids.
type Allocator interface {
	Allocate(ctx context.Context) (int64, error)
}

// Syncer is the write surface of the sync engine.
type Syncer interface {
	Sync(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, listingID int64, listingKey string) error
}

// Archiver moves listings to the archive tables.
type Archiver interface {
	Archive(ctx context.Context, listingID int64, listingKey string) error
}

// ViewCache caches formatted listing views.
type ViewCache interface {
	GetListing(ctx context.Context, listingKey string, privileged bool, dest any) (bool, error)
	SetListing(ctx context.Context, listingKey string, privileged bool, value any) error
}

// ListingService orchestrates the listing lifecycle: create, update,
// archive-or-delete and the read paths.
type ListingService struct {
	repo      ListingStore
	allocator Allocator
	syncer    Syncer
	archiver  Archiver
	formatter *Formatter
	cache     ViewCache
	logger    *logging.Logger
}

// NewListingService creates a listing service.
func NewListingService(repo ListingStore, allocator Allocator, syncer Syncer, archiver Archiver, formatter *Formatter, cache ViewCache, logger *logging.Logger) *ListingService {
	return &ListingService{
		repo:      repo,
		allocator: allocator,
		syncer:    syncer,
		archiver:  archiver,
		formatter: formatter,
		cache:     cache,
		logger:    logger,
	}
}

// Create allocates an identity and writes a new listing. The listing key is
// derived once here and never changes afterwards.
func (s *ListingService) Create(ctx context.Context, input *types.ListingInput) (*models.ListingView, error) {
	if err := input.Validate(true); err != nil {
		return nil, err
	}

	id, err := s.allocator.Allocate(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	listing := &models.Listing{
		ListingID:      id,
		StandardStatus: types.StatusActive,
		CreatedAt:      now,
	}
	applyInput(listing, input)
	if agent := derefPtr(listing.ListAgentID); agent != "" {
		listing.ListingKey = storage.DeriveKey(id, now, agent)
	} else {
		listing.ListingKey = storage.StableKey(id)
	}

	if err := s.syncer.Sync(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"listingId":  id,
		"listingKey": listing.ListingKey,
	}).Info("Listing created")

	return s.formatter.Format(listing), nil
}

// Update merges the supplied fields over the stored state and re-syncs.
// Merge is last-writer-wins per field: a field the caller sent replaces the
// stored value outright, and fields the caller omitted are untouched. When
// the update moves the listing from a live status into Closed, the listing
// is archived exactly once as part of the same call.
func (s *ListingService) Update(ctx context.Context, id int64, input *types.ListingInput) (*models.ListingView, error) {
	if err := input.Validate(false); err != nil {
		return nil, err
	}

	listing, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}

	previousStatus := listing.StandardStatus
	applyInput(listing, input)

	// Closing a listing records when it left the market so days_on_market
	// stops advancing from this sync onward.
	closing := !previousStatus.IsTerminal() && listing.StandardStatus.IsTerminal()
	if closing && listing.OffMarketDate == nil {
		now := time.Now().UTC()
		listing.OffMarketDate = &now
	}

	if err := s.syncer.Sync(ctx, listing); err != nil {
		return nil, err
	}

	// Archive only on the transition into a terminal status. An update that
	// leaves an already-closed listing closed must not archive again.
	if closing {
		if err := s.archiver.Archive(ctx, id, listing.ListingKey); err != nil {
			return nil, err
		}
		s.logger.WithField("listingId", id).Info("Listing archived on close")
	}

	return s.formatter.Format(listing), nil
}

// ArchiveOrDelete retires a listing. Archiving moves its rows to the
// archive tables and keeps history; deletion removes it outright and is
// permanent.
func (s *ListingService) ArchiveOrDelete(ctx context.Context, id int64, archive bool) error {
	key, err := s.repo.KeyForID(ctx, id)
	if err != nil {
		return err
	}

	if archive {
		return s.archiver.Archive(ctx, id, key)
	}
	return s.syncer.Delete(ctx, id, key)
}

// Get returns the formatted view for a listing, served from cache when
// possible.
func (s *ListingService) Get(ctx context.Context, id int64, privileged bool) (*models.ListingView, error) {
	key, err := s.repo.KeyForID(ctx, id)
	if err != nil {
		return nil, err
	}

	var cached models.ListingView
	found, err := s.cache.GetListing(ctx, key, privileged, &cached)
	if err != nil {
		s.logger.WithError(err).Warn("Listing cache lookup failed")
	}
	if found {
		return &cached, nil
	}

	listing, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}

	view := s.formatter.Format(listing)
	if !privileged {
		view.ListAgentID = nil
	}
	if err := s.cache.SetListing(ctx, key, privileged, view); err != nil {
		s.logger.WithError(err).Warn("Failed to cache listing view")
	}
	return view, nil
}

// GetByKey resolves an opaque listing key and returns the view.
func (s *ListingService) GetByKey(ctx context.Context, listingKey string, privileged bool) (*models.ListingView, error) {
	id, err := s.repo.ResolveKey(ctx, listingKey)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id, privileged)
}

// ListingPage is one page of summary results with the unpaged total.
type ListingPage struct {
	Listings []models.ListingSummary `json:"listings"`
	Total    int64                   `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
}

// List queries the summary table and reports the total match count so
// callers can page.
func (s *ListingService) List(ctx context.Context, filter storage.ListingFilter) (*ListingPage, error) {
	summaries, err := s.repo.ListSummaries(ctx, filter)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []models.ListingSummary{}
	}

	total, err := s.repo.CountSummaries(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListingPage{
		Listings: summaries,
		Total:    total,
		Limit:    filter.EffectiveLimit(),
		Offset:   filter.Offset,
	}, nil
}

// applyInput merges supplied input fields over the listing, last writer
// wins per field.
func applyInput(listing *models.Listing, input *types.ListingInput) {
	if input.PropertyType != nil {
		listing.PropertyType = types.PropertyType(*input.PropertyType)
	}
	if input.PropertySubType != nil {
		listing.PropertySubType = *input.PropertySubType
	}
	if input.StandardStatus != nil {
		listing.StandardStatus = types.StandardStatus(*input.StandardStatus)
	}
	if input.ListPrice != nil {
		listing.ListPrice = *input.ListPrice
	}
	if input.OriginalListPrice != nil {
		listing.OriginalListPrice = input.OriginalListPrice
	}
	if input.TaxAnnualAmount != nil {
		listing.TaxAnnualAmount = input.TaxAnnualAmount
	}
	if input.TaxYear != nil {
		listing.TaxYear = input.TaxYear
	}
	if input.AssociationYN != nil {
		listing.AssociationYN = *input.AssociationYN
	}
	if input.AssociationFee != nil {
		listing.AssociationFee = input.AssociationFee
	}
	if input.AssociationFeeFrequency != nil {
		listing.AssociationFeeFrequency = input.AssociationFeeFrequency
	}
	if input.AssociationFeeIncludes != nil {
		listing.AssociationFeeIncludes = input.AssociationFeeIncludes
	}

	if input.StreetNumber != nil {
		listing.StreetNumber = *input.StreetNumber
	}
	if input.StreetName != nil {
		listing.StreetName = *input.StreetName
	}
	if input.UnitNumber != nil {
		listing.UnitNumber = input.UnitNumber
	}
	if input.City != nil {
		listing.City = *input.City
	}
	if input.StateOrProvince != nil {
		listing.StateOrProvince = *input.StateOrProvince
	}
	if input.PostalCode != nil {
		listing.PostalCode = *input.PostalCode
	}
	if input.County != nil {
		listing.County = input.County
	}
	if input.Subdivision != nil {
		listing.Subdivision = input.Subdivision
	}
	if input.Latitude != nil {
		listing.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		listing.Longitude = input.Longitude
	}
	if addressChanged(input) && (input.Latitude == nil || input.Longitude == nil) {
		// The stored coordinate belongs to the old address; drop it so the
		// next sync re-geocodes.
		listing.Latitude = input.Latitude
		listing.Longitude = input.Longitude
		listing.CoordinatesApproximate = false
	}

	if input.Bedrooms != nil {
		listing.Bedrooms = input.Bedrooms
	}
	if input.BathroomsFull != nil {
		listing.BathroomsFull = input.BathroomsFull
	}
	if input.BathroomsHalf != nil {
		listing.BathroomsHalf = input.BathroomsHalf
	}
	if input.BathroomsTotal != nil {
		listing.BathroomsTotal = input.BathroomsTotal
	}
	if input.BathroomsFull != nil || input.BathroomsHalf != nil {
		// A supplied full/half pair overrides any stale stored total.
		if input.BathroomsTotal == nil {
			listing.BathroomsTotal = nil
		}
	}
	if input.BuildingArea != nil {
		listing.BuildingArea = input.BuildingArea
	}
	if input.LotSizeAcres != nil {
		listing.LotSizeAcres = input.LotSizeAcres
		if input.LotSizeSquareFeet == nil {
			listing.LotSizeSquareFeet = nil
		}
	}
	if input.LotSizeSquareFeet != nil {
		listing.LotSizeSquareFeet = input.LotSizeSquareFeet
	}
	if input.YearBuilt != nil {
		listing.YearBuilt = input.YearBuilt
	}
	if input.Stories != nil {
		listing.Stories = input.Stories
	}
	if input.GarageSpaces != nil {
		listing.GarageSpaces = input.GarageSpaces
	}
	if input.ParkingTotal != nil {
		listing.ParkingTotal = input.ParkingTotal
	}

	if input.Heating != nil {
		listing.Heating = input.Heating
	}
	if input.Cooling != nil {
		listing.Cooling = input.Cooling
	}
	if input.Flooring != nil {
		listing.Flooring = input.Flooring
	}
	if input.ConstructionMaterials != nil {
		listing.ConstructionMaterials = input.ConstructionMaterials
	}
	if input.Roof != nil {
		listing.Roof = input.Roof
	}
	if input.WaterSource != nil {
		listing.WaterSource = input.WaterSource
	}
	if input.Sewer != nil {
		listing.Sewer = input.Sewer
	}
	if input.Appliances != nil {
		listing.Appliances = input.Appliances
	}
	if input.InteriorFeatures != nil {
		listing.InteriorFeatures = input.InteriorFeatures
	}
	if input.ExteriorFeatures != nil {
		listing.ExteriorFeatures = input.ExteriorFeatures
	}
	if input.CommunityFeatures != nil {
		listing.CommunityFeatures = input.CommunityFeatures
	}
	if input.PoolFeatures != nil {
		listing.PoolFeatures = input.PoolFeatures
	}
	if input.ParkingFeatures != nil {
		listing.ParkingFeatures = input.ParkingFeatures
	}
	if input.LaundryFeatures != nil {
		listing.LaundryFeatures = input.LaundryFeatures
	}
	if input.FireplaceFeatures != nil {
		listing.FireplaceFeatures = input.FireplaceFeatures
	}

	if input.ListingContractDate != nil {
		listing.ListingContractDate = input.ListingContractDate
	}
	if input.PublicRemarks != nil {
		listing.PublicRemarks = input.PublicRemarks
	}
	if input.ListAgentID != nil {
		listing.ListAgentID = input.ListAgentID
	}
}

func addressChanged(input *types.ListingInput) bool {
	return input.StreetNumber != nil || input.StreetName != nil ||
		input.City != nil || input.PostalCode != nil
}
