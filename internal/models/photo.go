package models

import (
	"time"

	"github.com/stevenovak55/bmnboston-sub015/internal/types"
)

// Photo represents one media item attached to a listing. Photos carry an
// explicit order index; the photo at index 0 is the implicit primary photo.
// The primary is never stored as a flag, it is recomputed from ordering on
// every insert, delete and reorder.
type Photo struct {
	PhotoID    string            `json:"photoId"`
	ListingID  int64             `json:"listingId"`
	URL        string            `json:"url"`
	OrderIndex int               `json:"orderIndex"`
	Source     types.PhotoSource `json:"source"`
	CreatedAt  time.Time         `json:"createdAt"`
}
