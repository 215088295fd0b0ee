package http

import (
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imagestudio/server/internal/domain/studio"
	"github.com/imagestudio/server/internal/model"
	"github.com/imagestudio/server/internal/shared/response"
)

// maxSourceImageBytes caps uploaded edit sources at 10 MiB.
const maxSourceImageBytes = 10 << 20

// StudioHandler handles generation and edit HTTP requests.
type StudioHandler struct {
	studio *studio.Domain
}

// NewStudioHandler creates a new studio handler.
func NewStudioHandler(s *studio.Domain) *StudioHandler {
	return &StudioHandler{studio: s}
}

// RegisterRoutes registers studio routes.
func (h *StudioHandler) RegisterRoutes(r *gin.RouterGroup) {
	st := r.Group("/studio")
	{
		st.POST("/generations", h.SubmitGeneration)
		st.GET("/status", h.GetStatus)
	}
}

// GenerationRequest is the JSON submission body. Edit sources are sent
// base64-encoded; multipart submissions carry them as a file part instead.
type GenerationRequest struct {
	Prompt      string `json:"prompt"`
	Model       string `json:"model"`
	AspectRatio string `json:"aspect_ratio"`
	Resolution  int    `json:"resolution"`
	Quality     int    `json:"quality"`
	Count       int    `json:"count"`
	SourceImage string `json:"source_image,omitempty"`
	SourceMIME  string `json:"source_mime_type,omitempty"`
}

// GenerationResponse wraps the records created by one submission.
type GenerationResponse struct {
	Images []model.ImageRecord `json:"images"`
}

// StatusResponse reports the orchestrator state.
type StatusResponse struct {
	IsBusy    bool    `json:"is_busy"`
	LastError *string `json:"last_error"`
}

// SubmitGeneration handles generation and edit submissions.
// @Summary Generate or edit images
// @Tags Studio
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param request body GenerationRequest true "Generation request"
// @Success 201 {object} GenerationResponse
// @Router /api/v1/studio/generations [post]
func (h *StudioHandler) SubmitGeneration(c *gin.Context) {
	cmd, err := h.bindCommand(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	records, err := h.studio.Submit(c.Request.Context(), cmd)
	if err != nil {
		handleError(c, err)
		return
	}

	respondCreated(c, GenerationResponse{Images: records})
}

// GetStatus reports whether a submission is in flight.
// @Summary Get studio status
// @Tags Studio
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /api/v1/studio/status [get]
func (h *StudioHandler) GetStatus(c *gin.Context) {
	status := h.studio.Status()
	resp := StatusResponse{IsBusy: status.IsBusy}
	if status.LastError != "" {
		resp.LastError = &status.LastError
	}
	respondSuccess(c, resp)
}

func (h *StudioHandler) bindCommand(c *gin.Context) (studio.SubmitCommand, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return h.bindMultipart(c)
	}

	var req GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return studio.SubmitCommand{}, err
	}

	cmd := studio.SubmitCommand{
		Prompt:         req.Prompt,
		Model:          model.ModelType(req.Model),
		AspectRatio:    model.AspectRatio(req.AspectRatio),
		Resolution:     req.Resolution,
		Quality:        req.Quality,
		Count:          req.Count,
		SourceMIMEType: req.SourceMIME,
	}
	if req.SourceImage != "" {
		data, err := base64.StdEncoding.DecodeString(req.SourceImage)
		if err != nil {
			return studio.SubmitCommand{}, err
		}
		cmd.SourceImage = data
	}
	applyDefaults(&cmd)
	return cmd, nil
}

func (h *StudioHandler) bindMultipart(c *gin.Context) (studio.SubmitCommand, error) {
	cmd := studio.SubmitCommand{
		Prompt:      c.PostForm("prompt"),
		Model:       model.ModelType(c.PostForm("model")),
		AspectRatio: model.AspectRatio(c.PostForm("aspect_ratio")),
	}
	if v := c.PostForm("resolution"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return studio.SubmitCommand{}, err
		}
		cmd.Resolution = n
	}
	if v := c.PostForm("quality"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return studio.SubmitCommand{}, err
		}
		cmd.Quality = n
	}
	if v := c.PostForm("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return studio.SubmitCommand{}, err
		}
		cmd.Count = n
	}

	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			return studio.SubmitCommand{}, err
		}
		defer src.Close()
		data, err := io.ReadAll(io.LimitReader(src, maxSourceImageBytes))
		if err != nil {
			return studio.SubmitCommand{}, err
		}
		cmd.SourceImage = data
		cmd.SourceMIMEType = file.Header.Get("Content-Type")
		if cmd.SourceMIMEType == "" {
			cmd.SourceMIMEType = http.DetectContentType(data)
		}
	}

	applyDefaults(&cmd)
	return cmd, nil
}

// applyDefaults fills the optional knobs the way the form does.
func applyDefaults(cmd *studio.SubmitCommand) {
	if cmd.Model == "" {
		cmd.Model = model.ModelImagen
	}
	if cmd.AspectRatio == "" {
		cmd.AspectRatio = model.AspectSquare
	}
	if cmd.Resolution == 0 {
		cmd.Resolution = 1024
	}
	if cmd.Quality == 0 {
		cmd.Quality = 75
	}
	if cmd.Count == 0 {
		cmd.Count = 1
	}
	if cmd.SourceMIMEType == "" && len(cmd.SourceImage) > 0 {
		cmd.SourceMIMEType = http.DetectContentType(cmd.SourceImage)
	}
}
