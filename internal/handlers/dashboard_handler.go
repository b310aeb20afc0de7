package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fefu-lab/course-service/internal/services"
	"github.com/fefu-lab/course-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		dashboard:   dashboard,
	}
}

// TeacherDashboard shows the teacher their courses and recent enrollments.
func (h *DashboardHandler) TeacherDashboard(c *gin.Context) {
	h.LogRequest(c, "Getting teacher dashboard")

	dashboard, err := h.dashboard.TeacherDashboard(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// AdminDashboard shows platform-wide counts and recent activity.
func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	h.LogRequest(c, "Getting admin dashboard")

	dashboard, err := h.dashboard.AdminDashboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
