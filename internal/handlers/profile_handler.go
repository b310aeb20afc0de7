package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fefu-lab/course-service/internal/services"
	"github.com/fefu-lab/course-service/internal/utils"
)

type ProfileHandler struct {
	BaseHandler
	profile    services.ProfileService
	enrollment services.EnrollmentService
}

func NewProfileHandler(profile services.ProfileService, enrollment services.EnrollmentService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: NewBaseHandler(logger),
		profile:     profile,
		enrollment:  enrollment,
	}
}

// Me returns the signed-in user's profile with their enrollments.
func (h *ProfileHandler) Me(c *gin.Context) {
	h.LogRequest(c, "Getting own profile")

	profile, err := h.profile.GetByUserID(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	enrollments, err := h.enrollment.ListForProfile(c.Request.Context(), profile.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":     profile,
		"enrollments": enrollments,
	})
}

// UpdateMe edits the signed-in user's profile.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	h.LogRequest(c, "Updating own profile")

	var req services.ProfileUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	profile, err := h.profile.UpdateSelf(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
