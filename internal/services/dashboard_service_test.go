package services

import (
	"context"
	"testing"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/validator"
)

func TestAdminDashboard(t *testing.T) {
	repo := newMemRepo()
	catalog := newTestCatalogService(repo)
	enrollments := NewEnrollmentService(repo, testLogger())
	svc := NewDashboardService(repo, catalog, testLogger())
	ctx := context.Background()

	course := seedCourse(t, repo, 25, true)
	student := seedProfile(t, repo, "student@fefu.ru")
	if _, err := enrollments.Enroll(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	teacher := seedProfile(t, repo, "teacher@fefu.ru")
	teacher.Role = models.RoleTeacher
	if err := repo.Profile().Update(ctx, teacher); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	dashboard, err := svc.AdminDashboard(ctx)
	if err != nil {
		t.Fatalf("AdminDashboard() error = %v", err)
	}
	if dashboard.Students != 1 {
		t.Errorf("students = %d, want 1", dashboard.Students)
	}
	if dashboard.Teachers != 1 {
		t.Errorf("teachers = %d, want 1", dashboard.Teachers)
	}
	if dashboard.Courses != 1 {
		t.Errorf("courses = %d, want 1", dashboard.Courses)
	}
	if dashboard.ActiveEnrollments != 1 {
		t.Errorf("active enrollments = %d, want 1", dashboard.ActiveEnrollments)
	}
}

func TestTeacherDashboard(t *testing.T) {
	repo := newMemRepo()
	catalogSvc := NewCatalogService(repo, validator.New(), testLogger())
	svc := NewDashboardService(repo, catalogSvc, testLogger())
	ctx := context.Background()

	userID := uint(42)
	profile := &models.Profile{
		UserID:    &userID,
		FirstName: "Михаил",
		LastName:  "Петров",
		Email:     "m.petrov@fefu.ru",
		Role:      models.RoleTeacher,
		IsActive:  true,
	}
	if err := repo.Profile().Create(ctx, profile); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	instructor, err := catalogSvc.CreateInstructor(ctx, &InstructorCreateRequest{
		FirstName:      "Михаил",
		LastName:       "Петров",
		Email:          "m.petrov@fefu.ru",
		Specialization: "Веб-технологии и разработка",
		ProfileID:      &profile.ID,
	})
	if err != nil {
		t.Fatalf("CreateInstructor() error = %v", err)
	}
	if _, err := catalogSvc.CreateCourse(ctx, &CourseCreateRequest{
		Title:        "Веб-разработка на Django",
		Description:  "x",
		Duration:     42,
		InstructorID: &instructor.ID,
	}); err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}

	dashboard, err := svc.TeacherDashboard(ctx, userID)
	if err != nil {
		t.Fatalf("TeacherDashboard() error = %v", err)
	}
	if len(dashboard.Courses) != 1 {
		t.Errorf("courses = %d, want 1", len(dashboard.Courses))
	}
	if dashboard.Profile.ID != profile.ID {
		t.Errorf("profile = %d, want %d", dashboard.Profile.ID, profile.ID)
	}
}
