// Package gallery owns the canonical in-memory record collection.
// It is the single writer: every mutation is applied under the lock,
// persisted whole via the injected store, and announced on the event
// bus so observers subscribe instead of polling.
package gallery

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/imagestudio/server/internal/infra/events"
	"github.com/imagestudio/server/internal/model"
	"github.com/imagestudio/server/internal/port/outbound"
	"github.com/imagestudio/server/internal/utils/metrics"
)

// Domain implements the gallery state controller.
type Domain struct {
	mu      sync.RWMutex
	records []model.ImageRecord

	store   outbound.GalleryStorePort
	bus     *events.Bus
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewDomain creates a new gallery domain.
func NewDomain(store outbound.GalleryStorePort, bus *events.Bus, logger *zap.Logger, m *metrics.Metrics) *Domain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Domain{
		records: []model.ImageRecord{},
		store:   store,
		bus:     bus,
		logger:  logger,
		metrics: m,
	}
}

// Restore loads the persisted collection into memory. A corrupt or
// unavailable store is not fatal: the gallery starts empty and the
// error is returned so the caller can surface a warning.
func (d *Domain) Restore(ctx context.Context) error {
	records, err := d.store.Load(ctx)
	if err != nil {
		d.logger.Warn("could not load saved images, starting with an empty gallery",
			zap.Error(err),
		)
		return err
	}

	d.mu.Lock()
	d.records = records
	d.mu.Unlock()

	d.logger.Info("gallery restored", zap.Int("records", len(records)))
	return nil
}

// AddBatch prepends the given records, preserving their relative
// order, so the collection stays newest-first. The returned error is a
// persistence warning: the records are in memory regardless.
func (d *Domain) AddBatch(ctx context.Context, batch []model.ImageRecord) error {
	if len(batch) == 0 {
		return nil
	}

	d.mu.Lock()
	d.records = append(append([]model.ImageRecord{}, batch...), d.records...)
	size := len(d.records)
	d.mu.Unlock()

	if d.metrics != nil {
		d.metrics.RecordGalleryMutation("add_batch", size)
	}
	err := d.save(ctx)

	if d.bus != nil {
		ids := make([]string, len(batch))
		for i, rec := range batch {
			ids[i] = rec.ID
		}
		d.bus.Publish(events.NewGalleryBatchAddedEvent(ids, size))
	}
	return err
}

// ToggleFavorite flips the favorite flag on the record with the given
// id. An unknown id is a no-op, not an error.
func (d *Domain) ToggleFavorite(ctx context.Context, id string) (model.ImageRecord, bool, error) {
	d.mu.Lock()
	var (
		updated model.ImageRecord
		found   bool
	)
	for i := range d.records {
		if d.records[i].ID == id {
			d.records[i].IsFavorite = !d.records[i].IsFavorite
			updated = d.records[i]
			found = true
			break
		}
	}
	size := len(d.records)
	d.mu.Unlock()

	if !found {
		return model.ImageRecord{}, false, nil
	}

	if d.metrics != nil {
		d.metrics.RecordGalleryMutation("toggle_favorite", size)
	}
	err := d.save(ctx)

	if d.bus != nil {
		d.bus.Publish(events.NewGalleryRecordUpdatedEvent(id, updated.IsFavorite))
	}
	return updated, true, err
}

// Delete removes the record with the given id. An unknown id is a
// no-op, not an error.
func (d *Domain) Delete(ctx context.Context, id string) (bool, error) {
	d.mu.Lock()
	found := false
	for i := range d.records {
		if d.records[i].ID == id {
			d.records = append(d.records[:i], d.records[i+1:]...)
			found = true
			break
		}
	}
	size := len(d.records)
	d.mu.Unlock()

	if !found {
		return false, nil
	}

	if d.metrics != nil {
		d.metrics.RecordGalleryMutation("delete", size)
	}
	err := d.save(ctx)

	if d.bus != nil {
		d.bus.Publish(events.NewGalleryRecordDeletedEvent(id, size))
	}
	return true, err
}

// FilteredView returns the records whose model matches the filter and
// whose prompt contains searchTerm, compared case-insensitively. It is
// a pure derivation: an empty searchTerm matches everything and
// all=true matches every model.
func (d *Domain) FilteredView(searchTerm string, modelFilter model.ModelType, all bool) []model.ImageRecord {
	needle := strings.ToLower(searchTerm)

	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]model.ImageRecord, 0, len(d.records))
	for _, rec := range d.records {
		if !all && rec.Model != modelFilter {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(rec.Prompt), needle) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Records returns a copy of the full collection, newest first.
func (d *Domain) Records() []model.ImageRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]model.ImageRecord{}, d.records...)
}

// Count returns the current collection size.
func (d *Domain) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}

// save persists the whole collection. Failures are warnings: the
// in-memory state stays authoritative for the session.
func (d *Domain) save(ctx context.Context) error {
	if err := d.store.Save(ctx, d.Records()); err != nil {
		d.logger.Warn("could not save gallery collection", zap.Error(err))
		return err
	}
	return nil
}
