package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stevenovak55/bmnboston-sub015/internal/errors"
	"github.com/stevenovak55/bmnboston-sub015/internal/models"
	"github.com/stevenovak55/bmnboston-sub015/internal/types"
)

type fakePhotoStore struct {
	photos map[string]*models.Photo
	nextID int
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{photos: map[string]*models.Photo{}}
}

func (f *fakePhotoStore) Add(_ context.Context, listingID int64, url string, orderIndex int, source types.PhotoSource) (*models.Photo, error) {
	f.nextID++
	photo := &models.Photo{
		PhotoID:    fmt.Sprintf("photo-%d", f.nextID),
		ListingID:  listingID,
		URL:        url,
		OrderIndex: orderIndex,
		Source:     source,
		CreatedAt:  time.Now().UTC(),
	}
	f.photos[photo.PhotoID] = photo
	return photo, nil
}

func (f *fakePhotoStore) Get(_ context.Context, photoID string) (*models.Photo, error) {
	photo, ok := f.photos[photoID]
	if !ok {
		return nil, apperrors.NewNotFoundError("photo", 0)
	}
	copied := *photo
	return &copied, nil
}

func (f *fakePhotoStore) List(_ context.Context, listingID int64, source types.PhotoSource) ([]models.Photo, error) {
	var photos []models.Photo
	for _, photo := range f.photos {
		if photo.ListingID == listingID && photo.Source == source {
			photos = append(photos, *photo)
		}
	}
	sort.Slice(photos, func(i, j int) bool { return photos[i].OrderIndex < photos[j].OrderIndex })
	return photos, nil
}

func (f *fakePhotoStore) Delete(_ context.Context, photoID string) error {
	if _, ok := f.photos[photoID]; !ok {
		return apperrors.NewNotFoundError("photo", 0)
	}
	delete(f.photos, photoID)
	return nil
}

func (f *fakePhotoStore) UpdateOrder(_ context.Context, photoID string, orderIndex int) error {
	photo, ok := f.photos[photoID]
	if !ok {
		return apperrors.NewNotFoundError("photo", 0)
	}
	photo.OrderIndex = orderIndex
	return nil
}

func (f *fakePhotoStore) MediaSummary(ctx context.Context, listingID int64) (int, *string, error) {
	photos, _ := f.List(ctx, listingID, types.PhotoSourceActive)
	if len(photos) == 0 {
		return 0, nil, nil
	}
	return len(photos), &photos[0].URL, nil
}

type refreshCall struct {
	listingID  int64
	photoCount int
	mainURL    *string
}

type fakeMediaSyncer struct {
	refreshes []refreshCall
}

func (f *fakeMediaSyncer) RefreshMediaSummary(_ context.Context, listingID int64, _ string, photoCount int, mainPhotoURL *string) error {
	f.refreshes = append(f.refreshes, refreshCall{listingID: listingID, photoCount: photoCount, mainURL: mainPhotoURL})
	return nil
}

type fakeKeyResolver struct{ known map[int64]string }

func (f *fakeKeyResolver) KeyForID(_ context.Context, id int64) (string, error) {
	key, ok := f.known[id]
	if !ok {
		return "", apperrors.NewNotFoundError("listing", id)
	}
	return key, nil
}

type mediaFixture struct {
	service *MediaService
	photos  *fakePhotoStore
	syncer  *fakeMediaSyncer
}

func newMediaFixture() *mediaFixture {
	photos := newFakePhotoStore()
	syncer := &fakeMediaSyncer{}
	keys := &fakeKeyResolver{known: map[int64]string{123: "ELabc"}}
	return &mediaFixture{
		service: NewMediaService(photos, syncer, keys, testLogger()),
		photos:  photos,
		syncer:  syncer,
	}
}

func (fix *mediaFixture) seed(t *testing.T, urls ...string) []models.Photo {
	t.Helper()
	for _, url := range urls {
		_, err := fix.service.AddPhoto(testContext(t), 123, url)
		require.NoError(t, err)
	}
	photos, err := fix.service.ListPhotos(testContext(t), 123)
	require.NoError(t, err)
	return photos
}

func TestAddPhoto(t *testing.T) {
	fix := newMediaFixture()

	first, err := fix.service.AddPhoto(testContext(t), 123, "https://cdn.example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, 0, first.OrderIndex)

	second, err := fix.service.AddPhoto(testContext(t), 123, "https://cdn.example.com/b.jpg")
	require.NoError(t, err)
	assert.Equal(t, 1, second.OrderIndex, "new photos append at the end")

	t.Run("summary mirror refreshed per add", func(t *testing.T) {
		require.Len(t, fix.syncer.refreshes, 2)
		last := fix.syncer.refreshes[1]
		assert.Equal(t, 2, last.photoCount)
		require.NotNil(t, last.mainURL)
		assert.Equal(t, "https://cdn.example.com/a.jpg", *last.mainURL)
	})

	t.Run("rejects unknown listing", func(t *testing.T) {
		_, err := fix.service.AddPhoto(testContext(t), 404, "https://cdn.example.com/x.jpg")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("rejects empty url", func(t *testing.T) {
		_, err := fix.service.AddPhoto(testContext(t), 123, "")
		require.Error(t, err)
	})
}

func TestDeletePhotoPromotesNextPrimary(t *testing.T) {
	fix := newMediaFixture()
	photos := fix.seed(t, "https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg", "https://cdn.example.com/c.jpg")

	// Delete the primary; the old second photo must become primary.
	require.NoError(t, fix.service.DeletePhoto(testContext(t), photos[0].PhotoID))

	remaining, err := fix.service.ListPhotos(testContext(t), 123)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "https://cdn.example.com/b.jpg", remaining[0].URL)
	assert.Equal(t, 0, remaining[0].OrderIndex)
	assert.Equal(t, 1, remaining[1].OrderIndex)

	last := fix.syncer.refreshes[len(fix.syncer.refreshes)-1]
	assert.Equal(t, 2, last.photoCount)
	require.NotNil(t, last.mainURL)
	assert.Equal(t, "https://cdn.example.com/b.jpg", *last.mainURL)
}

func TestDeleteLastPhotoClearsSummary(t *testing.T) {
	fix := newMediaFixture()
	photos := fix.seed(t, "https://cdn.example.com/only.jpg")

	require.NoError(t, fix.service.DeletePhoto(testContext(t), photos[0].PhotoID))

	last := fix.syncer.refreshes[len(fix.syncer.refreshes)-1]
	assert.Zero(t, last.photoCount)
	assert.Nil(t, last.mainURL)
}

func TestReorderPhotos(t *testing.T) {
	fix := newMediaFixture()
	photos := fix.seed(t, "https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg", "https://cdn.example.com/c.jpg")

	t.Run("applies the explicit order", func(t *testing.T) {
		newOrder := []string{photos[2].PhotoID, photos[0].PhotoID, photos[1].PhotoID}
		require.NoError(t, fix.service.ReorderPhotos(testContext(t), 123, newOrder))

		reordered, err := fix.service.ListPhotos(testContext(t), 123)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/c.jpg", reordered[0].URL)
	})

	t.Run("rejects partial orderings", func(t *testing.T) {
		err := fix.service.ReorderPhotos(testContext(t), 123, []string{photos[0].PhotoID})
		require.Error(t, err)
	})

	t.Run("rejects unknown photo ids", func(t *testing.T) {
		err := fix.service.ReorderPhotos(testContext(t), 123,
			[]string{photos[0].PhotoID, photos[1].PhotoID, "photo-999"})
		require.Error(t, err)
	})
}

func TestCompactOrder(t *testing.T) {
	photos := []models.Photo{
		{PhotoID: "a", OrderIndex: 1},
		{PhotoID: "b", OrderIndex: 4},
		{PhotoID: "c", OrderIndex: 5},
	}

	moves := CompactOrder(photos)
	assert.Equal(t, []OrderMove{
		{PhotoID: "a", OrderIndex: 0},
		{PhotoID: "b", OrderIndex: 1},
		{PhotoID: "c", OrderIndex: 2},
	}, moves)

	t.Run("already compact produces no moves", func(t *testing.T) {
		compact := []models.Photo{{PhotoID: "a", OrderIndex: 0}, {PhotoID: "b", OrderIndex: 1}}
		assert.Empty(t, CompactOrder(compact))
	})
}
