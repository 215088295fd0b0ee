package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imagestudio/server/internal/domain/gallery"
	"github.com/imagestudio/server/internal/model"
	"github.com/imagestudio/server/internal/shared/response"
)

// GalleryHandler handles gallery HTTP requests.
type GalleryHandler struct {
	gallery *gallery.Domain
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(g *gallery.Domain) *GalleryHandler {
	return &GalleryHandler{gallery: g}
}

// RegisterRoutes registers gallery routes.
func (h *GalleryHandler) RegisterRoutes(r *gin.RouterGroup) {
	gal := r.Group("/gallery")
	{
		gal.GET("", h.ListImages)
		gal.POST("/:id/favorite", h.ToggleFavorite)
		gal.DELETE("/:id", h.DeleteImage)
	}
}

// GalleryResponse is the filtered gallery view.
type GalleryResponse struct {
	Images []model.ImageRecord `json:"images"`
	Total  int                 `json:"total"`
}

// ListImages returns the gallery, optionally filtered.
// @Summary List gallery images
// @Tags Gallery
// @Produce json
// @Param search query string false "Case-insensitive prompt substring"
// @Param model query string false "Model filter, or 'all'"
// @Success 200 {object} GalleryResponse
// @Router /api/v1/gallery [get]
func (h *GalleryHandler) ListImages(c *gin.Context) {
	modelFilter, all, err := model.ParseModelFilter(c.Query("model"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	images := h.gallery.FilteredView(c.Query("search"), modelFilter, all)
	respondSuccess(c, GalleryResponse{Images: images, Total: h.gallery.Count()})
}

// ToggleFavorite flips the favorite flag on one image.
// @Summary Toggle favorite
// @Tags Gallery
// @Produce json
// @Param id path string true "Image ID"
// @Success 200 {object} model.ImageRecord
// @Router /api/v1/gallery/{id}/favorite [post]
func (h *GalleryHandler) ToggleFavorite(c *gin.Context) {
	record, found, err := h.gallery.ToggleFavorite(c.Request.Context(), c.Param("id"))
	if !found {
		response.NotFound(c, "image not found")
		return
	}
	if err != nil {
		// The flag flipped in memory; report the state with the warning.
		c.Header("Warning", `199 - "changes may not be persisted"`)
	}
	respondSuccess(c, record)
}

// DeleteImage removes one image. Deleting an unknown id succeeds,
// matching the collection's no-op semantics.
// @Summary Delete an image
// @Tags Gallery
// @Param id path string true "Image ID"
// @Success 204
// @Router /api/v1/gallery/{id} [delete]
func (h *GalleryHandler) DeleteImage(c *gin.Context) {
	if _, err := h.gallery.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Header("Warning", `199 - "changes may not be persisted"`)
	}
	c.Status(http.StatusNoContent)
}
