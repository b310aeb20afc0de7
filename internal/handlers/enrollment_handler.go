package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fefu-lab/course-service/internal/services"
	"github.com/fefu-lab/course-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollment services.EnrollmentService
	profile    services.ProfileService
	catalog    services.CatalogService
}

func NewEnrollmentHandler(enrollment services.EnrollmentService, profile services.ProfileService, catalog services.CatalogService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: NewBaseHandler(logger),
		enrollment:  enrollment,
		profile:     profile,
		catalog:     catalog,
	}
}

// Enroll signs the current student up for the course named by its slug.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	h.LogRequest(c, "Enrolling in course")

	course, err := h.catalog.GetCourseBySlug(c.Request.Context(), c.Param("slug"), false)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	profile, err := h.profile.GetByUserID(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	enrollment, err := h.enrollment.Enroll(c.Request.Context(), profile.ID, course.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// Cancel releases the current student's seat.
func (h *EnrollmentHandler) Cancel(c *gin.Context) {
	h.LogRequest(c, "Cancelling enrollment")

	enrollmentID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.profile.GetByUserID(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := h.enrollment.Cancel(c.Request.Context(), enrollmentID, profile.ID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Enrollment cancelled"})
}

// MyEnrollments lists the current student's enrollments.
func (h *EnrollmentHandler) MyEnrollments(c *gin.Context) {
	h.LogRequest(c, "Listing own enrollments")

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
	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}
