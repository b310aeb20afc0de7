package services

import (
	"context"
	"errors"
	"testing"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/validator"
)

func newTestCatalogService(repo *memRepo) CatalogService {
	return NewCatalogService(repo, validator.New(), testLogger())
}

func TestCreateCourse_DerivesSlug(t *testing.T) {
	repo := newMemRepo()
	svc := newTestCatalogService(repo)

	course, err := svc.CreateCourse(context.Background(), &CourseCreateRequest{
		Title:       "Основы Python",
		Description: "Базовый курс по программированию на Python.",
		Duration:    36,
	})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}
	if course.Slug != "osnovy-python" {
		t.Errorf("slug = %q, want %q", course.Slug, "osnovy-python")
	}
	if course.Level != models.LevelBeginner {
		t.Errorf("level = %s, want default BEGINNER", course.Level)
	}
	if course.MaxStudents != 30 {
		t.Errorf("max students = %d, want default 30", course.MaxStudents)
	}
}

func TestCreateCourse_DuplicateTitle(t *testing.T) {
	repo := newMemRepo()
	svc := newTestCatalogService(repo)

	req := &CourseCreateRequest{Title: "Основы Python", Description: "x", Duration: 36}
	if _, err := svc.CreateCourse(context.Background(), req); err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}
	_, err := svc.CreateCourse(context.Background(), req)
	if !errors.Is(err, ErrDuplicateTitle) {
		t.Errorf("duplicate CreateCourse() error = %v, want ErrDuplicateTitle", err)
	}
}

func TestCreateCourse_UnknownInstructor(t *testing.T) {
	repo := newMemRepo()
	svc := newTestCatalogService(repo)

	instructorID := uint(404)
	_, err := svc.CreateCourse(context.Background(), &CourseCreateRequest{
		Title:        "Основы Python",
		Description:  "x",
		Duration:     36,
		InstructorID: &instructorID,
	})
	if !errors.Is(err, ErrInstructorNotFound) {
		t.Errorf("CreateCourse() error = %v, want ErrInstructorNotFound", err)
	}
}

func TestUpdateCourse_SlugImmutable(t *testing.T) {
	repo := newMemRepo()
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, &CourseCreateRequest{
		Title:       "Основы Python",
		Description: "x",
		Duration:    36,
	})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}
	originalSlug := course.Slug

	newTitle := "Продвинутый Python"
	updated, err := svc.UpdateCourse(ctx, course.ID, &CourseUpdateRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdateCourse() error = %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("title = %q, want %q", updated.Title, newTitle)
	}
	if updated.Slug != originalSlug {
		t.Errorf("slug changed to %q on title edit, want %q", updated.Slug, originalSlug)
	}
}

func TestGetCourseBySlug_Visibility(t *testing.T) {
	repo := newMemRepo()
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, &CourseCreateRequest{
		Title:       "Основы Python",
		Description: "x",
		Duration:    36,
	})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}

	if _, err := svc.GetCourseBySlug(ctx, course.Slug, false); err != nil {
		t.Fatalf("GetCourseBySlug() error = %v", err)
	}
	if _, err := svc.GetCourseBySlug(ctx, "no-such-course", false); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("unknown slug error = %v, want ErrCourseNotFound", err)
	}

	inactive := false
	if _, err := svc.UpdateCourse(ctx, course.ID, &CourseUpdateRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateCourse() error = %v", err)
	}

	// Hidden from the public view, still visible administratively.
	if _, err := svc.GetCourseBySlug(ctx, course.Slug, false); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("inactive public lookup error = %v, want ErrCourseNotFound", err)
	}
	if _, err := svc.GetCourseBySlug(ctx, course.Slug, true); err != nil {
		t.Errorf("inactive admin lookup error = %v", err)
	}
}

func TestCourseResponse_SeatAccounting(t *testing.T) {
	repo := newMemRepo()
	catalog := newTestCatalogService(repo)
	enrollments := NewEnrollmentService(repo, testLogger())
	ctx := context.Background()

	course, err := catalog.CreateCourse(ctx, &CourseCreateRequest{
		Title:       "Основы Python",
		Description: "x",
		Duration:    36,
		MaxStudents: 2,
	})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}

	profile := seedProfile(t, repo, "e.kuznetsova@fefu.ru")
	if _, err := enrollments.Enroll(ctx, profile.ID, course.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	resp, err := catalog.GetCourseByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourseByID() error = %v", err)
	}
	if resp.ActiveEnrollments != 1 {
		t.Errorf("active enrollments = %d, want 1", resp.ActiveEnrollments)
	}
	if resp.FreeSeats != 1 {
		t.Errorf("free seats = %d, want 1", resp.FreeSeats)
	}
	if !resp.CanEnroll {
		t.Error("CanEnroll = false, want true while seats remain")
	}

	second := seedProfile(t, repo, "second@fefu.ru")
	if _, err := enrollments.Enroll(ctx, second.ID, course.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	resp, err = catalog.GetCourseByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourseByID() error = %v", err)
	}
	if resp.FreeSeats != 0 || resp.CanEnroll {
		t.Errorf("full course: free seats = %d, can enroll = %v", resp.FreeSeats, resp.CanEnroll)
	}
}

func TestInstructorLifecycle(t *testing.T) {
	repo := newMemRepo()
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	instructor, err := svc.CreateInstructor(ctx, &InstructorCreateRequest{
		FirstName:      "Анна",
		LastName:       "Иванова",
		Email:          "a.ivanova@fefu.ru",
		Specialization: "Кибербезопасность и криптография",
		Degree:         "Доктор технических наук",
	})
	if err != nil {
		t.Fatalf("CreateInstructor() error = %v", err)
	}

	course, err := svc.CreateCourse(ctx, &CourseCreateRequest{
		Title:        "Продвинутая кибербезопасность",
		Description:  "x",
		Duration:     48,
		InstructorID: &instructor.ID,
	})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}

	// Deleting the instructor must orphan, not delete, the course.
	if err := svc.DeleteInstructor(ctx, instructor.ID); err != nil {
		t.Fatalf("DeleteInstructor() error = %v", err)
	}
	survived, err := svc.GetCourseByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourseByID() after delete error = %v", err)
	}
	if survived.InstructorID != nil {
		t.Errorf("course instructor_id = %v, want nil after instructor delete", *survived.InstructorID)
	}
}
