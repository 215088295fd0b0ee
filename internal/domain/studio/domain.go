// Package studio orchestrates image generation and edit requests. It
// validates submissions, dispatches them to the upstream generator and
// merges successful results into the gallery.
package studio

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/imagestudio/server/internal/domain/gallery"
	"github.com/imagestudio/server/internal/model"
	"github.com/imagestudio/server/internal/port/outbound"
	apperrors "github.com/imagestudio/server/internal/shared/errors"
	"github.com/imagestudio/server/internal/utils/metrics"
)

// SubmitCommand carries one generation or edit request.
type SubmitCommand struct {
	Prompt      string
	Model       model.ModelType
	AspectRatio model.AspectRatio
	Resolution  int
	Quality     int
	Count       int

	// SourceImage and SourceMIMEType are set for edit requests only.
	SourceImage    []byte
	SourceMIMEType string
}

// Status is a snapshot of the orchestrator state.
type Status struct {
	IsBusy    bool
	LastError string
}

// Domain coordinates submissions against the generator and the gallery.
type Domain struct {
	generator outbound.ImageGeneratorPort
	gallery   *gallery.Domain
	maxBatch  int
	logger    *zap.Logger
	metrics   *metrics.Metrics

	mu        sync.RWMutex
	busy      bool
	lastError string
}

// NewDomain creates the studio orchestrator. maxBatch bounds the number
// of images per generation request; values outside [1,4] fall back to 4.
func NewDomain(generator outbound.ImageGeneratorPort, g *gallery.Domain, maxBatch int, logger *zap.Logger, m *metrics.Metrics) *Domain {
	if maxBatch < 1 || maxBatch > 4 {
		maxBatch = 4
	}
	return &Domain{
		generator: generator,
		gallery:   g,
		maxBatch:  maxBatch,
		logger:    logger,
		metrics:   m,
	}
}

// Submit validates the command, runs it against the upstream model and
// merges the resulting records into the gallery. Validation failures are
// reported before any upstream call and do not touch the orchestrator
// error state. The busy flag is advisory: concurrent submissions are not
// serialized, each runs to completion independently.
func (d *Domain) Submit(ctx context.Context, cmd SubmitCommand) ([]model.ImageRecord, error) {
	if err := d.validate(cmd); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}

	d.mu.Lock()
	d.busy = true
	d.lastError = ""
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.busy = false
		d.mu.Unlock()
	}()

	start := time.Now()
	records, err := d.dispatch(ctx, cmd)
	if err != nil {
		if d.metrics != nil {
			d.metrics.RecordGenerationRequest(string(cmd.Model), "error", time.Since(start))
		}
		d.logger.Error("generation request failed",
			zap.String("model", string(cmd.Model)),
			zap.Error(err))
		d.mu.Lock()
		d.lastError = err.Error()
		d.mu.Unlock()
		return nil, err
	}
	if d.metrics != nil {
		d.metrics.RecordGenerationRequest(string(cmd.Model), "success", time.Since(start))
	}

	if err := d.gallery.AddBatch(ctx, records); err != nil {
		// Results are already in memory; persistence is retried on the
		// next mutation. Surface the condition without failing the request.
		d.mu.Lock()
		d.lastError = "Could not save new images."
		d.mu.Unlock()
	}

	d.logger.Info("generation request completed",
		zap.String("model", string(cmd.Model)),
		zap.Int("count", len(records)),
		zap.Duration("duration", time.Since(start)))
	return records, nil
}

func (d *Domain) dispatch(ctx context.Context, cmd SubmitCommand) ([]model.ImageRecord, error) {
	now := time.Now()

	if cmd.Model == model.ModelNanobanana {
		src, err := d.generator.EditImage(ctx, cmd.SourceImage, cmd.SourceMIMEType, cmd.Prompt)
		if err != nil {
			return nil, err
		}
		return []model.ImageRecord{model.NewEditedRecord(src, cmd.Prompt, now)}, nil
	}

	sources, err := d.generator.GenerateBatch(ctx, cmd.Model, cmd.Prompt, cmd.AspectRatio, cmd.Count)
	if err != nil {
		return nil, err
	}
	records := make([]model.ImageRecord, 0, len(sources))
	for _, src := range sources {
		records = append(records, model.NewGeneratedRecord(src, cmd.Prompt, cmd.Model, cmd.AspectRatio, cmd.Resolution, cmd.Quality, now))
	}
	return records, nil
}

// Status reports whether a submission is in flight and the last failure
// message, cleared at the start of each new submission.
func (d *Domain) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Status{IsBusy: d.busy, LastError: d.lastError}
}

func (d *Domain) validate(cmd SubmitCommand) error {
	if cmd.Prompt == "" {
		return ErrPromptRequired
	}
	if !cmd.Model.Valid() {
		return ErrInvalidModel
	}
	if cmd.Model == model.ModelNanobanana {
		if len(cmd.SourceImage) == 0 {
			return ErrSourceImageRequired
		}
		return nil
	}
	if !cmd.AspectRatio.Valid() {
		return ErrInvalidAspectRatio
	}
	if cmd.Count < 1 || cmd.Count > d.maxBatch {
		return ErrInvalidCount
	}
	return nil
}
