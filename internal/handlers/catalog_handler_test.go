package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/services"
	"github.com/fefu-lab/course-service/internal/utils"
)

// stubCatalog holds one course that is hidden from the public catalog.
type stubCatalog struct {
	services.CatalogService
	course *services.CourseResponse
}

func (s *stubCatalog) GetCourseBySlug(_ context.Context, slug string, includeInactive bool) (*services.CourseResponse, error) {
	if s.course == nil || s.course.Slug != slug {
		return nil, services.ErrCourseNotFound
	}
	if !s.course.IsActive && !includeInactive {
		return nil, services.ErrCourseNotFound
	}
	return s.course, nil
}

type stubProfile struct {
	services.ProfileService
}

func (s *stubProfile) GetPublic(_ context.Context, id uint) (*models.Profile, error) {
	return nil, services.ErrProfileNotFound
}

func newCatalogRouter(catalog services.CatalogService, identity services.IdentityService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	handler := NewCatalogHandler(catalog, &stubProfile{}, logger)
	auth := NewSessionAuthMiddleware(testSigner(), identity, testCookieName, logger)

	router := gin.New()
	router.Use(auth.Authenticate())
	router.GET("/course/:slug/", handler.GetCourse)
	router.GET("/student/:id/", handler.GetStudent)
	return router
}

func TestGetCourse_InactiveHiddenFromPublic(t *testing.T) {
	catalog := &stubCatalog{course: &services.CourseResponse{
		Course: &models.Course{ID: 1, Slug: "arhivnyj-kurs", Title: "Архивный курс", IsActive: false},
	}}
	identity := newStubIdentity()
	router := newCatalogRouter(catalog, identity)

	// Anonymous visitor gets a 404, not a hint that the course exists.
	req := httptest.NewRequest(http.MethodGet, "/course/arhivnyj-kurs/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("anonymous status = %d, want 404", w.Code)
	}

	// An admin session sees the archived course.
	token, err := testSigner().Issue(2, "admin@fefu.ru")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/course/arhivnyj-kurs/", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestGetCourse_ActiveIsPublic(t *testing.T) {
	catalog := &stubCatalog{course: &services.CourseResponse{
		Course: &models.Course{ID: 1, Slug: "osnovy-python", Title: "Основы Python", IsActive: true},
	}}
	router := newCatalogRouter(catalog, newStubIdentity())

	req := httptest.NewRequest(http.MethodGet, "/course/osnovy-python/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestGetStudent_BadID(t *testing.T) {
	router := newCatalogRouter(&stubCatalog{}, newStubIdentity())

	for _, id := range []string{"abc", "0", "-5"} {
		req := httptest.NewRequest(http.MethodGet, "/student/"+id+"/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("id %q: status = %d, want 400", id, w.Code)
		}
	}
}
