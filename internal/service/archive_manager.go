package service

import (
	"context"

	apperrors "github.com/stevenovak55/bmnboston-sub015/internal/errors"
	"github.com/stevenovak55/bmnboston-sub015/internal/logging"
	"github.com/stevenovak55/bmnboston-sub015/internal/storage"
	"github.com/stevenovak55/bmnboston-sub015/internal/types"
)

// ArchiveManager moves listings from the active tables into their archive
// shadows. One transaction covers every copy and delete plus the photo
// retag, so a listing is never visible in both table sets or in neither.
type ArchiveManager struct {
	db         DB
	store      *storage.TableStore
	dispatcher *Dispatcher
	detailPath func(int64) string
	logger     *logging.Logger
}

// NewArchiveManager creates an archive manager.
func NewArchiveManager(db DB, store *storage.TableStore, dispatcher *Dispatcher, detailPath func(int64) string, logger *logging.Logger) *ArchiveManager {
	return &ArchiveManager{
		db:         db,
		store:      store,
		dispatcher: dispatcher,
		detailPath: detailPath,
		logger:     logger,
	}
}

// Archive copies every table row into its archive shadow and removes the
// active row, then retags the photos. Photo rows are relabeled in place
// rather than copied because the photo files themselves do not move.
func (m *ArchiveManager) Archive(ctx context.Context, listingID int64, listingKey string) error {
	tx, err := m.db.BeginTx(ctx)
	if err != nil {
		return apperrors.NewStorageError("failed to begin archive transaction", err)
	}

	archived := int64(0)
	for _, table := range storage.SyncTables {
		copied, err := m.store.CopyRowToArchive(ctx, tx, table, listingID)
		if err != nil {
			m.rollback(ctx, tx)
			return apperrors.NewArchiveFailedError(table.Name, err)
		}
		if table.Name == storage.TableListings.Name && copied == 0 {
			m.rollback(ctx, tx)
			return apperrors.NewNotFoundError("listing", listingID)
		}
		archived += copied

		if _, err := m.store.DeleteRow(ctx, tx, table.Name, listingID); err != nil {
			m.rollback(ctx, tx)
			return apperrors.NewArchiveFailedError(table.Name, err)
		}
	}

	retagged, err := m.store.RetagPhotos(ctx, tx, listingID,
		string(types.PhotoSourceActive), string(types.PhotoSourceArchive))
	if err != nil {
		m.rollback(ctx, tx)
		return apperrors.NewArchiveFailedError(storage.PhotosTable, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewStorageError("failed to commit archive transaction", err)
	}

	m.logger.WithFields(map[string]interface{}{
		"listingId":      listingID,
		"rowsArchived":   archived,
		"photosRetagged": retagged,
	}).Info("Listing archived")

	m.dispatcher.Publish(ListingChanged{
		ListingID:  listingID,
		ListingKey: listingKey,
		DetailPath: m.detailPath(listingID),
	})
	return nil
}

func (m *ArchiveManager) rollback(ctx context.Context, tx storage.Tx) {
	if err := tx.Rollback(ctx); err != nil {
		m.logger.WithError(err).Error("Rollback failed after archive error")
	}
}
