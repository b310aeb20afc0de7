package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
	"github.com/fefu-lab/course-service/internal/services"
	"github.com/fefu-lab/course-service/internal/utils"
)

// AdminHandler groups the administrative endpoints: catalog management,
// enrollment oversight, profile management, feedback review, exports.
type AdminHandler struct {
	BaseHandler
	catalog    services.CatalogService
	enrollment services.EnrollmentService
	profile    services.ProfileService
	feedback   services.FeedbackService
	export     services.ExportService
}

func NewAdminHandler(
	catalog services.CatalogService,
	enrollment services.EnrollmentService,
	profile services.ProfileService,
	feedback services.FeedbackService,
	export services.ExportService,
	logger utils.Logger,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		catalog:     catalog,
		enrollment:  enrollment,
		profile:     profile,
		feedback:    feedback,
		export:      export,
	}
}

// ===== COURSES =====

func (h *AdminHandler) CreateCourse(c *gin.Context) {
	h.LogRequest(c, "Creating course")

	var req services.CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	course, err := h.catalog.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	h.LogRequest(c, "Updating course")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CourseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	course, err := h.catalog.UpdateCourse(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	h.LogRequest(c, "Deleting course")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCourse(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Course deleted"})
}

// ===== INSTRUCTORS =====

func (h *AdminHandler) CreateInstructor(c *gin.Context) {
	h.LogRequest(c, "Creating instructor")

	var req services.InstructorCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	instructor, err := h.catalog.CreateInstructor(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, instructor)
}

func (h *AdminHandler) UpdateInstructor(c *gin.Context) {
	h.LogRequest(c, "Updating instructor")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.InstructorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	instructor, err := h.catalog.UpdateInstructor(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, instructor)
}

func (h *AdminHandler) DeleteInstructor(c *gin.Context) {
	h.LogRequest(c, "Deleting instructor")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteInstructor(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Instructor deleted"})
}

// ===== ENROLLMENTS =====

func (h *AdminHandler) ListEnrollments(c *gin.Context) {
	h.LogRequest(c, "Listing enrollments")

	filters := repositories.EnrollmentFilters{
		Limit:  parseIntQuery(c, "size", 20),
		Offset: parseOffset(c),
	}
	if status := c.Query("status"); status != "" {
		s := models.EnrollmentStatus(status)
		filters.Status = &s
	}
	if raw := c.Query("course_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			courseID := uint(id)
			filters.CourseID = &courseID
		}
	}

	resp, err := h.enrollment.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompleteEnrollment marks an enrollment finished.
func (h *AdminHandler) CompleteEnrollment(c *gin.Context) {
	h.LogRequest(c, "Completing enrollment")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.enrollment.Complete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Enrollment completed"})
}

// ===== PROFILES =====

func (h *AdminHandler) ListProfiles(c *gin.Context) {
	h.LogRequest(c, "Listing profiles")

	filters := repositories.ProfileFilters{
		Query:  c.Query("q"),
		Limit:  parseIntQuery(c, "size", 20),
		Offset: parseOffset(c),
	}
	if role := c.Query("role"); role != "" {
		r := models.ProfileRole(role)
		filters.Role = &r
	}

	profiles, total, err := h.profile.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles, "total": total})
}

func (h *AdminHandler) DeleteProfile(c *gin.Context) {
	h.LogRequest(c, "Deleting profile")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.profile.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Profile deleted"})
}

// ===== FEEDBACK =====

func (h *AdminHandler) ListFeedback(c *gin.Context) {
	h.LogRequest(c, "Listing feedback")

	feedback, total, err := h.feedback.List(c.Request.Context(), repositories.FeedbackFilters{
		Limit:  parseIntQuery(c, "size", 20),
		Offset: parseOffset(c),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": feedback, "total": total})
}

// ===== EXPORTS =====

// ExportRoster streams the course roster as an xlsx download.
func (h *AdminHandler) ExportRoster(c *gin.Context) {
	h.LogRequest(c, "Exporting course roster")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	data, err := h.export.CourseRoster(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("course-%d-roster.xlsx", id)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
