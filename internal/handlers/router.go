package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fefu-lab/course-service/internal/services"
	"github.com/fefu-lab/course-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	catalogHandler    *CatalogHandler
	profileHandler    *ProfileHandler
	enrollmentHandler *EnrollmentHandler
	feedbackHandler   *FeedbackHandler
	dashboardHandler  *DashboardHandler
	adminHandler      *AdminHandler
	authMiddleware    *SessionAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	signer *utils.SessionSigner,
	cookieName string,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Identity(), signer, cookieName, logger),
		catalogHandler:    NewCatalogHandler(serviceManager.Catalog(), serviceManager.Profile(), logger),
		profileHandler:    NewProfileHandler(serviceManager.Profile(), serviceManager.Enrollment(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), serviceManager.Profile(), serviceManager.Catalog(), logger),
		feedbackHandler:   NewFeedbackHandler(serviceManager.Feedback(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		adminHandler: NewAdminHandler(
			serviceManager.Catalog(),
			serviceManager.Enrollment(),
			serviceManager.Profile(),
			serviceManager.Feedback(),
			serviceManager.Export(),
			logger,
		),
		authMiddleware: NewSessionAuthMiddleware(signer, serviceManager.Identity(), cookieName, logger),
	}
}

// SetupRoutes sets up all routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "course-service",
		})
	})

	// Identity is resolved for every request; route guards decide access.
	router.Use(hm.authMiddleware.Authenticate())

	// Public pages
	router.GET("/", hm.catalogHandler.Home)
	router.GET("/about/", hm.catalogHandler.About)
	router.GET("/courses/", hm.catalogHandler.ListCourses)
	router.GET("/course/:slug/", hm.catalogHandler.GetCourse)
	router.GET("/instructors/", hm.catalogHandler.ListInstructors)
	router.GET("/student/:id/", hm.catalogHandler.GetStudent)
	router.POST("/feedback/", hm.feedbackHandler.Submit)

	// Auth
	router.POST("/register/", hm.authHandler.Register)
	router.POST("/login/", hm.authHandler.Login)
	// Logout is reachable by plain link as well as API call.
	router.GET("/logout/", hm.authHandler.Logout)
	router.POST("/logout/", hm.authHandler.Logout)
	router.POST("/password-reset/", hm.authHandler.RequestPasswordReset)
	router.POST("/password-reset/confirm/", hm.authHandler.ConfirmPasswordReset)

	// Signed-in area
	profile := router.Group("/profile")
	profile.Use(hm.authMiddleware.RequireAuth())
	{
		profile.GET("/", hm.profileHandler.Me)
		profile.POST("/", hm.profileHandler.UpdateMe)
		profile.POST("/edit/", hm.profileHandler.UpdateMe)
		profile.POST("/password/", hm.authHandler.ChangePassword)
	}

	// Enrollment actions
	enroll := router.Group("")
	enroll.Use(hm.authMiddleware.RequireAuth())
	{
		enroll.POST("/enroll/:slug/", hm.enrollmentHandler.Enroll)
		enroll.POST("/enrollments/:id/cancel/", hm.enrollmentHandler.Cancel)
		enroll.GET("/enrollments/", hm.enrollmentHandler.MyEnrollments)
	}

	// Dashboards
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/teacher/",
			hm.authMiddleware.RequireRole(services.RoleTeacher, services.RoleAdmin),
			hm.dashboardHandler.TeacherDashboard)
		dashboard.GET("/admin/",
			hm.authMiddleware.RequireRole(services.RoleAdmin),
			hm.dashboardHandler.AdminDashboard)
	}

	// Admin area
	admin := router.Group("/admin")
	admin.Use(hm.authMiddleware.RequireStaff())
	{
		admin.POST("/courses/", hm.adminHandler.CreateCourse)
		admin.PUT("/courses/:id/", hm.adminHandler.UpdateCourse)
		admin.DELETE("/courses/:id/", hm.adminHandler.DeleteCourse)
		admin.GET("/courses/:id/roster.xlsx", hm.adminHandler.ExportRoster)

		admin.POST("/instructors/", hm.adminHandler.CreateInstructor)
		admin.PUT("/instructors/:id/", hm.adminHandler.UpdateInstructor)
		admin.DELETE("/instructors/:id/", hm.adminHandler.DeleteInstructor)

		admin.GET("/enrollments/", hm.adminHandler.ListEnrollments)
		admin.POST("/enrollments/:id/complete/", hm.adminHandler.CompleteEnrollment)

		admin.GET("/profiles/", hm.adminHandler.ListProfiles)
		admin.DELETE("/profiles/:id/", hm.adminHandler.DeleteProfile)

		admin.GET("/feedback/", hm.adminHandler.ListFeedback)
	}
}
