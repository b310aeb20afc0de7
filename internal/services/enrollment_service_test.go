package services

import (
	"context"
	"errors"
	"testing"

	"github.com/fefu-lab/course-service/internal/models"
)

func seedCourse(t *testing.T, repo *memRepo, maxStudents int, active bool) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:       "Основы Python для начинающих",
		Slug:        "osnovy-python-dlya-nachinayushchikh",
		Duration:    36,
		Level:       models.LevelBeginner,
		MaxStudents: maxStudents,
		IsActive:    active,
	}
	if err := repo.Course().Create(context.Background(), course); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}

func seedProfile(t *testing.T, repo *memRepo, email string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		FirstName: "Екатерина",
		LastName:  "Кузнецова",
		Email:     email,
		Role:      models.RoleStudent,
		IsActive:  true,
	}
	if err := repo.Profile().Create(context.Background(), profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return profile
}

func TestEnroll(t *testing.T) {
	repo := newMemRepo()
	svc := NewEnrollmentService(repo, testLogger())
	ctx := context.Background()

	course := seedCourse(t, repo, 25, true)
	profile := seedProfile(t, repo, "e.kuznetsova@fefu.ru")

	enrollment, err := svc.Enroll(ctx, profile.ID, course.ID)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if enrollment.Status != models.EnrollmentActive {
		t.Errorf("status = %s, want ACTIVE", enrollment.Status)
	}

	staged, _ := repo.Outbox().ListUnpublished(ctx, 10)
	if len(staged) != 1 {
		t.Errorf("outbox rows = %d, want 1", len(staged))
	}
}

func TestEnroll_Twice(t *testing.T) {
	repo := newMemRepo()
	svc := NewEnrollmentService(repo, testLogger())
	ctx := context.Background()

	course := seedCourse(t, repo, 25, true)
	profile := seedProfile(t, repo, "e.kuznetsova@fefu.ru")

	if _, err := svc.Enroll(ctx, profile.ID, course.ID); err != nil {
		t.Fatalf("first Enroll() error = %v", err)
	}
	_, err := svc.Enroll(ctx, profile.ID, course.ID)
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("second Enroll() error = %v, want ErrAlreadyEnrolled", err)
	}
}

func TestEnroll_InactiveCourse(t *testing.T) {
	repo := newMemRepo()
	svc := NewEnrollmentService(repo, testLogger())

	course := seedCourse(t, repo, 25, false)
	profile := seedProfile(t, repo, "e.kuznetsova@fefu.ru")

	_, err := svc.Enroll(context.Background(), profile.ID, course.ID)
	if !errors.Is(err, ErrCourseInactive) {
		t.Errorf("Enroll() error = %v, want ErrCourseInactive", err)
	}
}

func TestEnroll_UnknownCourseAndProfile(t *testing.T) {
	repo := newMemRepo()
	svc := NewEnrollmentService(repo, testLogger())
	ctx := context.Background()

	profile := seedProfile(t, repo, "e.kuznetsova@fefu.ru")
	if _, err := svc.Enroll(ctx, profile.ID, 404); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("unknown course error = %v, want ErrCourseNotFound", err)
	}

	course := seedCourse(t, repo, 25, true)
	if _, err := svc.Enroll(ctx, 404, course.ID); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("unknown profile error = %v, want ErrProfileNotFound", err)
	}
}

// A cancelled enrollment frees its seat; the freed seat can be taken by a new
// student, and the original student can come back while space remains.
func TestEnroll_CapacityAndCancel(t *testing.T) {
	repo := newMemRepo()
	svc := NewEnrollmentService(repo, testLogger())
	ctx := context.Background()

	course := seedCourse(t, repo, 2, true)
	first := seedProfile(t, repo, "first@fefu.ru")
	second := seedProfile(t, repo, "second@fefu.ru")
	third := seedProfile(t, repo, "third@fefu.ru")

	firstEnrollment, err := svc.Enroll(ctx, first.ID, course.ID)
	if err != nil {
		t.Fatalf("Enroll(first) error = %v", err)
	}
	if _, err := svc.Enroll(ctx, second.ID, course.ID); err != nil {
		t.Fatalf("Enroll(second) error = %v", err)
	}

	// Course is full now.
	if _, err := svc.Enroll(ctx, third.ID, course.ID); !errors.Is(err, ErrCourseFull) {
		t.Fatalf("Enroll(third) error = %v, want ErrCourseFull", err)
	}

	if err := svc.Cancel(ctx, firstEnrollment.ID, first.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	// The freed seat admits the third student.
	if _, err := svc.Enroll(ctx, third.ID, course.ID); err != nil {
		t.Fatalf("Enroll(third) after cancel error = %v", err)
	}

	// Full again; the first student cannot return yet.
	if _, err := svc.Enroll(ctx, first.ID, course.ID); !errors.Is(err, ErrCourseFull) {
		t.Errorf("Enroll(first) again error = %v, want ErrCourseFull", err)
	}
}

func TestEnroll_ReactivatesCancelledRow(t *testing.T) {
	repo := newMemRepo()
	svc := NewEnrollmentService(repo, testLogger())
	ctx := context.Background()

	course := seedCourse(t, repo, 5, true)
	profile := seedProfile(t, repo, "e.kuznetsova@fefu.ru")

	enrollment, err := svc.Enroll(ctx, profile.ID, course.ID)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if err := svc.Cancel(ctx, enrollment.ID, profile.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	again, err := svc.Enroll(ctx, profile.ID, course.ID)
	if err != nil {
		t.Fatalf("re-Enroll() error = %v", err)
	}
	if again.ID != enrollment.ID {
		t.Errorf("re-enroll created row %d, want reactivated row %d", again.ID, enrollment.ID)
	}
	if again.Status != models.EnrollmentActive {
		t.Errorf("status = %s, want ACTIVE", again.Status)
	}
}

func TestCancel_Rules(t *testing.T) {
	repo := newMemRepo()
	svc := NewEnrollmentService(repo, testLogger())
	ctx := context.Background()

	course := seedCourse(t, repo, 5, true)
	owner := seedProfile(t, repo, "owner@fefu.ru")
	other := seedProfile(t, repo, "other@fefu.ru")

	enrollment, err := svc.Enroll(ctx, owner.ID, course.ID)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	err = svc.Cancel(ctx, enrollment.ID, other.ID)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Errorf("foreign Cancel() error = %v, want PermissionError", err)
	}

	if err := svc.Cancel(ctx, 404, owner.ID); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("unknown Cancel() error = %v, want ErrEnrollmentNotFound", err)
	}

	if err := svc.Cancel(ctx, enrollment.ID, owner.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if err := svc.Cancel(ctx, enrollment.ID, owner.ID); !errors.Is(err, ErrEnrollmentClosed) {
		t.Errorf("double Cancel() error = %v, want ErrEnrollmentClosed", err)
	}
}

func TestComplete(t *testing.T) {
	repo := newMemRepo()
	svc := NewEnrollmentService(repo, testLogger())
	ctx := context.Background()

	course := seedCourse(t, repo, 5, true)
	profile := seedProfile(t, repo, "e.kuznetsova@fefu.ru")

	enrollment, err := svc.Enroll(ctx, profile.ID, course.ID)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if err := svc.Complete(ctx, enrollment.ID); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if err := svc.Complete(ctx, enrollment.ID); !errors.Is(err, ErrEnrollmentClosed) {
		t.Errorf("double Complete() error = %v, want ErrEnrollmentClosed", err)
	}

	// A completed enrollment keeps the pair occupied.
	if _, err := svc.Enroll(ctx, profile.ID, course.ID); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("Enroll() after complete error = %v, want ErrAlreadyEnrolled", err)
	}
}
