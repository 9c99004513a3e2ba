package service

import (
	"context"

	apperrors "github.com/stevenovak55/bmnboston-sub015/internal/errors"
	"github.com/stevenovak55/bmnboston-sub015/internal/logging"
	"github.com/stevenovak55/bmnboston-sub015/internal/models"
	"github.com/stevenovak55/bmnboston-sub015/internal/types"
)

// PhotoStore is the media repository surface.
type PhotoStore interface {
	Add(ctx context.Context, listingID int64, url string, orderIndex int, source types.PhotoSource) (*models.Photo, error)
	Get(ctx context.Context, photoID string) (*models.Photo, error)
	List(ctx context.Context, listingID int64, source types.PhotoSource) ([]models.Photo, error)
	Delete(ctx context.Context, photoID string) error
	UpdateOrder(ctx context.Context, photoID string, orderIndex int) error
	MediaSummary(ctx context.Context, listingID int64) (int, *string, error)
}

// MediaSyncer mirrors media aggregates into the summary table.
type MediaSyncer interface {
	RefreshMediaSummary(ctx context.Context, listingID int64, listingKey string, photoCount int, mainPhotoURL *string) error
}

// KeyResolver maps listing ids to keys.
type KeyResolver interface {
	KeyForID(ctx context.Context, id int64) (string, error)
}

// MediaService manages listing photos. The primary photo is whichever row
// sits at order index zero; there is no separate primary flag to drift out
// of sync.
type MediaService struct {
	photos PhotoStore
	syncer MediaSyncer
	keys   KeyResolver
	logger *logging.Logger
}

// NewMediaService creates a media service.
func NewMediaService(photos PhotoStore, syncer MediaSyncer, keys KeyResolver, logger *logging.Logger) *MediaService {
	return &MediaService{
		photos: photos,
		syncer: syncer,
		keys:   keys,
		logger: logger,
	}
}

// AddPhoto appends a photo to the end of the listing's active set.
func (s *MediaService) AddPhoto(ctx context.Context, listingID int64, url string) (*models.Photo, error) {
	if url == "" {
		return nil, apperrors.NewValidationError("url", "is required")
	}
	if _, err := s.keys.KeyForID(ctx, listingID); err != nil {
		return nil, err
	}

	existing, err := s.photos.List(ctx, listingID, types.PhotoSourceActive)
	if err != nil {
		return nil, err
	}

	photo, err := s.photos.Add(ctx, listingID, url, len(existing), types.PhotoSourceActive)
	if err != nil {
		return nil, err
	}

	if err := s.refreshSummary(ctx, listingID); err != nil {
		return nil, err
	}
	return photo, nil
}

// ListPhotos returns the active photos in display order.
func (s *MediaService) ListPhotos(ctx context.Context, listingID int64) ([]models.Photo, error) {
	photos, err := s.photos.List(ctx, listingID, types.PhotoSourceActive)
	if err != nil {
		return nil, err
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	return photos, nil
}

// DeletePhoto removes a photo and closes the ordering gap it leaves. When
// the primary photo is deleted, the next photo in order becomes primary by
// virtue of moving to index zero.
func (s *MediaService) DeletePhoto(ctx context.Context, photoID string) error {
	photo, err := s.photos.Get(ctx, photoID)
	if err != nil {
		return err
	}

	if err := s.photos.Delete(ctx, photoID); err != nil {
		return err
	}

	remaining, err := s.photos.List(ctx, photo.ListingID, types.PhotoSourceActive)
	if err != nil {
		return err
	}
	for _, move := range CompactOrder(remaining) {
		if err := s.photos.UpdateOrder(ctx, move.PhotoID, move.OrderIndex); err != nil {
			return err
		}
	}

	return s.refreshSummary(ctx, photo.ListingID)
}

// ReorderPhotos applies a full explicit ordering. Every active photo id
// must appear exactly once.
func (s *MediaService) ReorderPhotos(ctx context.Context, listingID int64, photoIDs []string) error {
	existing, err := s.photos.List(ctx, listingID, types.PhotoSourceActive)
	if err != nil {
		return err
	}
	if len(photoIDs) != len(existing) {
		return apperrors.NewValidationError("photoIds", "must list every photo exactly once")
	}

	known := make(map[string]bool, len(existing))
	for _, photo := range existing {
		known[photo.PhotoID] = true
	}
	for _, photoID := range photoIDs {
		if !known[photoID] {
			return apperrors.NewValidationError("photoIds", "unknown photo id "+photoID)
		}
		delete(known, photoID)
	}

	for index, photoID := range photoIDs {
		if err := s.photos.UpdateOrder(ctx, photoID, index); err != nil {
			return err
		}
	}

	return s.refreshSummary(ctx, listingID)
}

// OrderMove is one positional correction produced by CompactOrder.
type OrderMove struct {
	PhotoID    string
	OrderIndex int
}

// CompactOrder computes the moves needed to close gaps in a photo ordering,
// preserving relative order. Photos already at the right index produce no
// move.
func CompactOrder(photos []models.Photo) []OrderMove {
	var moves []OrderMove
	for i, photo := range photos {
		if photo.OrderIndex != i {
			moves = append(moves, OrderMove{PhotoID: photo.PhotoID, OrderIndex: i})
		}
	}
	return moves
}

func (s *MediaService) refreshSummary(ctx context.Context, listingID int64) error {
	key, err := s.keys.KeyForID(ctx, listingID)
	if err != nil {
		return err
	}
	count, mainURL, err := s.photos.MediaSummary(ctx, listingID)
	if err != nil {
		return err
	}
	return s.syncer.RefreshMediaSummary(ctx, listingID, key, count, mainURL)
}
