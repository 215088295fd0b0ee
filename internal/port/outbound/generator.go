package outbound

import (
	"context"

	"github.com/imagestudio/server/internal/model"
)

// ImageGeneratorPort defines the boundary to the external generative
// API. Implementations perform network I/O only and never touch local
// state.
type ImageGeneratorPort interface {
	// GenerateBatch requests count images for the prompt at the given
	// aspect ratio and returns one data URI per image. modelType picks
	// the upstream generation model (Imagen or Imagen Fast).
	GenerateBatch(ctx context.Context, modelType model.ModelType, prompt string, ratio model.AspectRatio, count int) ([]string, error)

	// EditImage sends the source image plus an instruction to the edit
	// backend and returns the resulting image as a data URI.
	EditImage(ctx context.Context, image []byte, mimeType, instruction string) (string, error)
}
