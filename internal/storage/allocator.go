package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	apperrors "github.com/stevenovak55/bmnboston-sub015/internal/errors"
)

// IDAllocator issues monotonically increasing listing ids from the internal
// id band. Allocation is a single round trip against the store's
// auto-increment primitive; the application never reads-then-increments,
// so concurrent allocations cannot collide.
type IDAllocator struct {
	db Querier
	// externalThreshold separates the internal id band from the externally
	// imported MLS id space. Ids below the threshold are internal; ids at or
	// above it belong to the import pipeline and must never be issued here.
	externalThreshold int64
}

// NewIDAllocator creates an id allocator.
func NewIDAllocator(db Querier, externalThreshold int64) *IDAllocator {
	return &IDAllocator{
		db:                db,
		externalThreshold: externalThreshold,
	}
}

// Allocate issues the next listing id. The id is produced by the sequence
// table's auto-increment column in one statement, so it is atomic and
// strictly increasing across concurrent callers.
func (a *IDAllocator) Allocate(ctx context.Context) (int64, error) {
	var id int64
	query := fmt.Sprintf(`INSERT INTO %s (allocated_at) VALUES (now()) RETURNING id`, IDSequenceTable)
	if err := a.db.QueryRow(ctx, query).Scan(&id); err != nil {
		return 0, apperrors.NewAllocationFailedError(err)
	}

	// The internal band is exhausted if the sequence ever reaches the
	// external threshold; issuing such an id would misclassify the listing
	// as externally imported.
	if id >= a.externalThreshold {
		return 0, apperrors.NewAllocationFailedError(
			fmt.Errorf("sequence value %d crossed the external id threshold %d", id, a.externalThreshold))
	}
	return id, nil
}

// IsInternalID reports whether the id belongs to the internally-originated
// band. This threshold comparison is the sole signal used to classify a
// listing as internal vs externally imported.
func (a *IDAllocator) IsInternalID(id int64) bool {
	return id < a.externalThreshold
}

// DeriveKey derives the opaque stable listing key from the id, the creation
// instant and the originating agent. The key is persisted at creation time
// and used in cache keys and external-facing URLs.
func DeriveKey(id int64, createdAt time.Time, agentID string) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%d:%d:%s", id, createdAt.UnixNano(), agentID)))
	return "EL" + hex.EncodeToString(sum[:])[:30]
}

// StableKey derives a deterministic key from the id alone, for downstream
// consumers that do not have the originating context.
func StableKey(id int64) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("el-listing:%d", id)))
	return "EL" + hex.EncodeToString(sum[:])[:30]
}
