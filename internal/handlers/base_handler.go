package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fefu-lab/course-service/internal/services"
	"github.com/fefu-lab/course-service/internal/utils"
)

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the pieces every handler needs.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string) {
	utils.FromContext(c.Request.Context(), h.logger).Debug(msg, "path", c.Request.URL.Path)
}

func (h *BaseHandler) LogError(c *gin.Context, msg string, err error) {
	utils.FromContext(c.Request.Context(), h.logger).Error(msg, "error", err, "path", c.Request.URL.Path)
}

func (h *BaseHandler) parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}

// handleServiceError maps service errors onto HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs services.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	var permErr *services.PermissionError
	if errors.As(err, &permErr) {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: permErr.Error()})
		return
	}

	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrBadCredential):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrResetTokenInvalid):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	default:
		h.LogError(c, "Internal server error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
