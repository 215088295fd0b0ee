package outbound

import (
	"context"

	"github.com/imagestudio/server/internal/model"
)

// KeyValueStorePort defines the external key/value store boundary the
// gallery collection is persisted to.
type KeyValueStorePort interface {
	// Get returns the value stored under key. found is false when no
	// value is stored.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error
}

// GalleryStorePort persists the full record collection. Saves are
// whole-collection overwrites; the collection stays small enough that
// incremental writes are not worth their complexity.
type GalleryStorePort interface {
	// Load reads the stored collection. A missing value yields an
	// empty, non-nil slice.
	Load(ctx context.Context) ([]model.ImageRecord, error)

	// Save serializes and writes the entire collection.
	Save(ctx context.Context, records []model.ImageRecord) error
}
