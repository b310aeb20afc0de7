package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
	"github.com/fefu-lab/course-service/internal/services"
	"github.com/fefu-lab/course-service/internal/utils"
)

type CatalogHandler struct {
	BaseHandler
	catalog services.CatalogService
	profile services.ProfileService
}

func NewCatalogHandler(catalog services.CatalogService, profile services.ProfileService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(logger),
		catalog:     catalog,
		profile:     profile,
	}
}

// Home serves the landing page data: headline counts plus a sample of active
// courses and instructors.
func (h *CatalogHandler) Home(c *gin.Context) {
	h.LogRequest(c, "Getting catalog summary")

	summary, err := h.catalog.Summary(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// About is a static page endpoint.
func (h *CatalogHandler) About(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "ДВФУ — лаборатория учебных курсов",
		"description": "Учебная платформа для записи студентов на курсы университета.",
		"contact":     "info@fefu.ru",
	})
}

// ListCourses serves the public course catalog. Only active courses are shown;
// admins see everything by passing include_inactive.
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	h.LogRequest(c, "Listing courses")

	filters := parseCourseFilters(c)
	includeInactive := c.Query("include_inactive") == "true" && currentRole(c) == services.RoleAdmin

	resp, err := h.catalog.ListCourses(c.Request.Context(), filters, includeInactive)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCourse resolves a course by its slug.
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	h.LogRequest(c, "Getting course")

	slug := c.Param("slug")
	includeInactive := currentRole(c) == services.RoleAdmin

	course, err := h.catalog.GetCourseBySlug(c.Request.Context(), slug, includeInactive)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// GetStudent serves the public student profile page.
func (h *CatalogHandler) GetStudent(c *gin.Context) {
	h.LogRequest(c, "Getting student profile")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	profile, err := h.profile.GetPublic(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *CatalogHandler) ListInstructors(c *gin.Context) {
	h.LogRequest(c, "Listing instructors")

	active := true
	filters := repositories.InstructorFilters{
		IsActive: &active,
		Query:    c.Query("q"),
		Limit:    parseIntQuery(c, "size", 20),
		Offset:   parseOffset(c),
	}
	instructors, total, err := h.catalog.ListInstructors(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"instructors": instructors, "total": total})
}

func parseCourseFilters(c *gin.Context) repositories.CourseFilters {
	filters := repositories.CourseFilters{
		Query:  c.Query("q"),
		Limit:  parseIntQuery(c, "size", 20),
		Offset: parseOffset(c),
	}
	if level := c.Query("level"); level != "" {
		l := models.CourseLevel(level)
		filters.Level = &l
	}
	if raw := c.Query("instructor_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			instructorID := uint(id)
			filters.InstructorID = &instructorID
		}
	}
	return filters
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func parseOffset(c *gin.Context) int {
	page := parseIntQuery(c, "page", 1)
	size := parseIntQuery(c, "size", 20)
	return (page - 1) * size
}
