package model

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"
)

// ModelType identifies the generation backend that produced an image.
type ModelType string

const (
	ModelImagen     ModelType = "Imagen"
	ModelImagenFast ModelType = "Imagen Fast"
	ModelNanobanana ModelType = "Nanobanana"
)

// Valid reports whether the model type is one of the known backends.
func (m ModelType) Valid() bool {
	switch m {
	case ModelImagen, ModelImagenFast, ModelNanobanana:
		return true
	}
	return false
}

// IsGeneration reports whether the model produces images from text alone.
// Nanobanana is the edit backend and requires a source image instead.
func (m ModelType) IsGeneration() bool {
	return m == ModelImagen || m == ModelImagenFast
}

// AspectRatio represents a supported output aspect ratio.
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
	AspectStandard  AspectRatio = "4:3"
	AspectTall      AspectRatio = "3:4"
)

// Valid reports whether the aspect ratio is in the supported set.
func (a AspectRatio) Valid() bool {
	switch a {
	case AspectSquare, AspectLandscape, AspectPortrait, AspectStandard, AspectTall:
		return true
	}
	return false
}

// ImageRecord represents one generated or edited image in the gallery.
// JSON field names match the collection format persisted by earlier
// releases, so an exported collection loads unchanged.
type ImageRecord struct {
	ID          string      `json:"id"`
	Src         string      `json:"src"` // data URI, always decodable by a standard viewer
	Prompt      string      `json:"prompt"`
	Model       ModelType   `json:"model"`
	Timestamp   string      `json:"timestamp"` // ISO-8601, set once at creation
	IsFavorite  bool        `json:"isFavorite"`
	AspectRatio AspectRatio `json:"aspectRatio"`
	Resolution  *int        `json:"resolution,omitempty"` // generation models only
	Quality     *int        `json:"quality,omitempty"`    // generation models only
}

// idSeq disambiguates records created within the same millisecond.
var idSeq atomic.Uint64

// NewRecordID returns a collection-unique id of the form
// "<epoch-millis>-<seq>".
func NewRecordID(now time.Time) string {
	return fmt.Sprintf("%d-%d", now.UnixMilli(), idSeq.Add(1))
}

// NewGeneratedRecord creates a record for one output of a batch
// generation call.
func NewGeneratedRecord(src, prompt string, modelType ModelType, ratio AspectRatio, resolution, quality int, now time.Time) ImageRecord {
	return ImageRecord{
		ID:          NewRecordID(now),
		Src:         src,
		Prompt:      prompt,
		Model:       modelType,
		Timestamp:   now.UTC().Format(time.RFC3339),
		AspectRatio: ratio,
		Resolution:  &resolution,
		Quality:     &quality,
	}
}

// NewEditedRecord creates a record for an edit result. Edits preserve
// the source geometry, so the ratio tag is fixed to 1:1 and the
// generation-only fields are left unset.
func NewEditedRecord(src, prompt string, now time.Time) ImageRecord {
	return ImageRecord{
		ID:          NewRecordID(now),
		Src:         src,
		Prompt:      prompt,
		Model:       ModelNanobanana,
		Timestamp:   now.UTC().Format(time.RFC3339),
		AspectRatio: AspectSquare,
	}
}

// ParseModelFilter parses a gallery model filter value. The literal
// "all" (or empty) matches every model.
func ParseModelFilter(s string) (ModelType, bool, error) {
	if s == "" || s == "all" {
		return "", true, nil
	}
	m := ModelType(s)
	if !m.Valid() {
		return "", false, fmt.Errorf("unknown model %s", strconv.Quote(s))
	}
	return m, false, nil
}
