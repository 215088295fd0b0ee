// Package gemini implements the image generator port against the
// Gemini API. All errors are wrapped in the shared sentinel errors so
// callers never depend on genai types.
package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/imagestudio/server/internal/model"
	"github.com/imagestudio/server/internal/port/outbound"
	apperrors "github.com/imagestudio/server/internal/shared/errors"
)

// Config holds the upstream model ids and the per-call deadline.
type Config struct {
	ImagenModel     string
	ImagenFastModel string
	EditModel       string
	RequestTimeout  time.Duration
}

// Client calls the Gemini API for batch generation and edits.
type Client struct {
	ai     *genai.Client
	cfg    Config
	logger *zap.Logger
}

var _ outbound.ImageGeneratorPort = (*Client)(nil)

// New creates a new Gemini client. The API key stays server-side; it
// is read from configuration and never reaches a response body.
func New(ctx context.Context, apiKey string, cfg Config, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ai, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{ai: ai, cfg: cfg, logger: logger}, nil
}

// generationModel maps a gallery model type to the configured upstream
// model id.
func (c *Client) generationModel(modelType model.ModelType) string {
	if modelType == model.ModelImagenFast && c.cfg.ImagenFastModel != "" {
		return c.cfg.ImagenFastModel
	}
	return c.cfg.ImagenModel
}

// callContext applies the configured request deadline, if any.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.RequestTimeout > 0 {
		return context.WithTimeout(ctx, c.cfg.RequestTimeout)
	}
	return ctx, func() {}
}

// GenerateBatch requests count images and returns one data URI per
// image.
func (c *Client) GenerateBatch(ctx context.Context, modelType model.ModelType, prompt string, ratio model.AspectRatio, count int) ([]string, error) {
	upstream := c.generationModel(modelType)
	start := time.Now()
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.ai.Models.GenerateImages(ctx, upstream, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: int32(count),
		OutputMIMEType: "image/jpeg",
		AspectRatio:    string(ratio),
	})
	if err != nil {
		c.logger.Warn("generation call failed",
			zap.String("model", upstream),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	srcs, err := mapGeneratedImages(resp)
	if err != nil {
		return nil, err
	}

	c.logger.Info("generated image batch",
		zap.String("model", upstream),
		zap.Int("count", len(srcs)),
		zap.Duration("latency", time.Since(start)),
	)
	return srcs, nil
}

// EditImage sends the source image and instruction to the edit model
// and returns the first image part of the response as a data URI.
func (c *Client) EditImage(ctx context.Context, image []byte, mimeType, instruction string) (string, error) {
	start := time.Now()
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	contents := []*genai.Content{{
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
			{Text: instruction},
		},
	}}

	resp, err := c.ai.Models.GenerateContent(ctx, c.cfg.EditModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		c.logger.Warn("edit call failed",
			zap.String("model", c.cfg.EditModel),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	src, err := parseEditResponse(resp)
	if err != nil {
		return "", err
	}

	c.logger.Info("edited image",
		zap.String("model", c.cfg.EditModel),
		zap.Duration("latency", time.Since(start)),
	)
	return src, nil
}

// mapGeneratedImages converts a generation response into data URIs.
func mapGeneratedImages(resp *genai.GenerateImagesResponse) ([]string, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("%w: the model did not return an image; this could be due to safety filters or an issue with the prompt", apperrors.ErrEmptyResult)
	}

	srcs := make([]string, 0, len(resp.GeneratedImages))
	for _, img := range resp.GeneratedImages {
		if img == nil || img.Image == nil || len(img.Image.ImageBytes) == 0 {
			return nil, fmt.Errorf("%w: an image entry was returned without image data", apperrors.ErrMalformedResult)
		}
		srcs = append(srcs, toDataURI("image/jpeg", img.Image.ImageBytes))
	}
	return srcs, nil
}

// parseEditResponse scans the response parts in order and returns the
// first inline image as a data URI. A text-only response is treated as
// a refusal carrying the model's explanation.
func parseEditResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: the model returned an empty or invalid response", apperrors.ErrEmptyResult)
	}

	var refusal string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return toDataURI(part.InlineData.MIMEType, part.InlineData.Data), nil
		}
		if part.Text != "" && refusal == "" {
			refusal = strings.TrimSpace(part.Text)
		}
	}

	if refusal != "" {
		return "", fmt.Errorf("%w: the model did not return an image; it responded with: %q", apperrors.ErrRefused, refusal)
	}
	return "", fmt.Errorf("%w: the model did not return an image; try adjusting the edit instruction", apperrors.ErrEmptyResult)
}

// toDataURI encodes image bytes as a self-contained data URI.
func toDataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
