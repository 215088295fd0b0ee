// Package persistence stores the gallery collection in an external
// key/value store as a single JSON array under a fixed key.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/imagestudio/server/internal/model"
	"github.com/imagestudio/server/internal/port/outbound"
	apperrors "github.com/imagestudio/server/internal/shared/errors"
	"github.com/imagestudio/server/internal/utils/metrics"
)

// GalleryStore persists the whole record collection on every save.
type GalleryStore struct {
	kv      outbound.KeyValueStorePort
	key     string
	logger  *zap.Logger
	metrics *metrics.Metrics
}

var _ outbound.GalleryStorePort = (*GalleryStore)(nil)

// NewGalleryStore creates a new GalleryStore writing under key.
func NewGalleryStore(kv outbound.KeyValueStorePort, key string, logger *zap.Logger, m *metrics.Metrics) *GalleryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryStore{kv: kv, key: key, logger: logger, metrics: m}
}

// Load reads the stored collection. A missing value yields an empty
// collection; a present but undecodable value fails with
// ErrCorruptState so the caller can warn and start empty instead of
// crashing.
func (s *GalleryStore) Load(ctx context.Context) ([]model.ImageRecord, error) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if s.metrics != nil {
		s.metrics.RecordStorageOp("load", err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	if !found {
		return []model.ImageRecord{}, nil
	}

	var records []model.ImageRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.Warn("stored gallery collection is not valid JSON",
			zap.String("key", s.key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCorruptState, err)
	}
	if records == nil {
		records = []model.ImageRecord{}
	}
	return records, nil
}

// Save serializes and writes the entire collection, overwriting any
// prior value.
func (s *GalleryStore) Save(ctx context.Context, records []model.ImageRecord) error {
	if records == nil {
		records = []model.ImageRecord{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal gallery collection: %w", err)
	}

	err = s.kv.Set(ctx, s.key, string(data))
	if s.metrics != nil {
		s.metrics.RecordStorageOp("save", err)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}
