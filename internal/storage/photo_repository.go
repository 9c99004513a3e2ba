package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/stevenovak55/bmnboston-sub015/internal/errors"
	"github.com/stevenovak55/bmnboston-sub015/internal/models"
	"github.com/stevenovak55/bmnboston-sub015/internal/types"
)

// PhotoRepository manages the media rows for listings. Photos live outside
// the sync fan-out; ordering is positional and the row at index zero is the
// primary photo.
type PhotoRepository struct {
	db *PostgresDB
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *PostgresDB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Add inserts a photo at the given order index with a fresh id.
func (r *PhotoRepository) Add(ctx context.Context, listingID int64, url string, orderIndex int, source types.PhotoSource) (*models.Photo, error) {
	photo := &models.Photo{
		PhotoID:    uuid.New().String(),
		ListingID:  listingID,
		URL:        url,
		OrderIndex: orderIndex,
		Source:     source,
		CreatedAt:  time.Now().UTC(),
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (photo_id, %s, url, order_index, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, PhotosTable, PrimaryKeyColumn)

	if _, err := r.db.Exec(ctx, query,
		photo.PhotoID, photo.ListingID, photo.URL,
		photo.OrderIndex, string(photo.Source), photo.CreatedAt,
	); err != nil {
		return nil, apperrors.NewStorageError("failed to add photo", err)
	}
	return photo, nil
}

// Get loads a single photo by id.
func (r *PhotoRepository) Get(ctx context.Context, photoID string) (*models.Photo, error) {
	query := fmt.Sprintf(`
		SELECT photo_id, %s, url, order_index, source, created_at
		FROM %s WHERE photo_id = $1`, PrimaryKeyColumn, PhotosTable)

	var photo models.Photo
	var source string
	err := r.db.QueryRow(ctx, query, photoID).Scan(
		&photo.PhotoID, &photo.ListingID, &photo.URL,
		&photo.OrderIndex, &source, &photo.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("photo", 0)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to load photo", err)
	}
	photo.Source = types.PhotoSource(source)
	return &photo, nil
}

// List returns the photos for a listing with the given source tag, ordered
// by position.
func (r *PhotoRepository) List(ctx context.Context, listingID int64, source types.PhotoSource) ([]models.Photo, error) {
	query := fmt.Sprintf(`
		SELECT photo_id, %s, url, order_index, source, created_at
		FROM %s WHERE %s = $1 AND source = $2
		ORDER BY order_index ASC`, PrimaryKeyColumn, PhotosTable, PrimaryKeyColumn)

	rows, err := r.db.Pool().Query(ctx, query, listingID, string(source))
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list photos", err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var photo models.Photo
		var src string
		if err := rows.Scan(
			&photo.PhotoID, &photo.ListingID, &photo.URL,
			&photo.OrderIndex, &src, &photo.CreatedAt,
		); err != nil {
			return nil, apperrors.NewStorageError("failed to scan photo row", err)
		}
		photo.Source = types.PhotoSource(src)
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate photos", err)
	}
	return photos, nil
}

// Delete removes a photo by id.
func (r *PhotoRepository) Delete(ctx context.Context, photoID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE photo_id = $1`, PhotosTable)
	tag, err := r.db.Exec(ctx, query, photoID)
	if err != nil {
		return apperrors.NewStorageError("failed to delete photo", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("photo", 0)
	}
	return nil
}

// UpdateOrder sets the order index of a single photo.
func (r *PhotoRepository) UpdateOrder(ctx context.Context, photoID string, orderIndex int) error {
	query := fmt.Sprintf(`UPDATE %s SET order_index = $1 WHERE photo_id = $2`, PhotosTable)
	tag, err := r.db.Exec(ctx, query, orderIndex, photoID)
	if err != nil {
		return apperrors.NewStorageError("failed to update photo order", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("photo", 0)
	}
	return nil
}

// MediaSummary reports the active photo count and the primary photo URL, if
// any, for mirroring into the summary table.
func (r *PhotoRepository) MediaSummary(ctx context.Context, listingID int64) (int, *string, error) {
	var count int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1 AND source = $2`, PhotosTable, PrimaryKeyColumn)
	if err := r.db.QueryRow(ctx, countQuery, listingID, string(types.PhotoSourceActive)).Scan(&count); err != nil {
		return 0, nil, apperrors.NewStorageError("failed to count photos", err)
	}

	var mainURL *string
	urlQuery := fmt.Sprintf(`
		SELECT url FROM %s WHERE %s = $1 AND source = $2
		ORDER BY order_index ASC LIMIT 1`, PhotosTable, PrimaryKeyColumn)
	err := r.db.QueryRow(ctx, urlQuery, listingID, string(types.PhotoSourceActive)).Scan(&mainURL)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, nil, apperrors.NewStorageError("failed to load main photo", err)
	}
	return count, mainURL, nil
}
