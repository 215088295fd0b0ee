package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/imagestudio/server/internal/shared/errors"
	"github.com/imagestudio/server/internal/shared/response"
)

// handleError maps domain errors to HTTP responses. AppError carries its
// own status code; sentinel errors are mapped through the shared table.
func handleError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.StatusCode, appErr.ToResponse())
		return
	}
	response.Error(c, apperrors.GetStatusCode(err), err.Error())
}

// respondSuccess sends a 200 response with the given data.
func respondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// respondCreated sends a 201 Created response with the given data.
func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}
