package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fefu-lab/course-service/internal/events"
	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
)

type enrollmentService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger}
}

// Enroll runs the whole admission check inside one transaction against a
// locked course row: activity, capacity, then pair uniqueness. A cancelled
// prior enrollment does not block re-enrolling; it is reactivated instead of
// inserting a second row, which would trip the pair index.
func (s *enrollmentService) Enroll(ctx context.Context, profileID, courseID uint) (*models.Enrollment, error) {
	var enrollment *models.Enrollment

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		course, err := tx.Course().GetByIDForUpdate(ctx, courseID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("failed to lock course: %w", err)
		}
		if !course.IsActive {
			return ErrCourseInactive
		}

		// Uncached existence check; the cache must not answer inside a
		// locked transaction.
		exists, err := tx.Profile().ExistsByID(ctx, profileID)
		if err != nil {
			return fmt.Errorf("failed to check profile: %w", err)
		}
		if !exists {
			return ErrProfileNotFound
		}

		existing, err := tx.Enrollment().GetByPair(ctx, profileID, courseID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to check enrollment: %w", err)
		}
		if existing != nil && existing.OccupiesPair() {
			return ErrAlreadyEnrolled
		}

		active, err := tx.Enrollment().CountActiveByCourse(ctx, courseID)
		if err != nil {
			return fmt.Errorf("failed to count enrollments: %w", err)
		}
		if active >= int64(course.MaxStudents) {
			return ErrCourseFull
		}

		if existing != nil {
			// Reactivate the cancelled row.
			if err := tx.Enrollment().UpdateStatus(ctx, existing.ID, models.EnrollmentActive); err != nil {
				return fmt.Errorf("failed to reactivate enrollment: %w", err)
			}
			existing.Status = models.EnrollmentActive
			enrollment = existing
		} else {
			enrollment = &models.Enrollment{
				ProfileID: profileID,
				CourseID:  courseID,
				Status:    models.EnrollmentActive,
			}
			if err := tx.Enrollment().Create(ctx, enrollment); err != nil {
				if repositories.IsDuplicateError(err) {
					return ErrAlreadyEnrolled
				}
				return fmt.Errorf("failed to create enrollment: %w", err)
			}
		}

		event := events.NewEvent(events.TypeEnrollmentCreated, events.EnrollmentEvent{
			EnrollmentID: enrollment.ID,
			ProfileID:    profileID,
			CourseID:     courseID,
			CourseTitle:  course.Title,
			Status:       string(models.EnrollmentActive),
		})
		return appendOutbox(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "enrollment created",
		"enrollment_id", enrollment.ID, "profile_id", profileID, "course_id", courseID)
	return enrollment, nil
}

// Cancel frees the seat. Only the owning profile may cancel, and only while
// the enrollment is still active.
func (s *enrollmentService) Cancel(ctx context.Context, enrollmentID, profileID uint) error {
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		enrollment, err := tx.Enrollment().GetByID(ctx, enrollmentID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrEnrollmentNotFound
			}
			return fmt.Errorf("failed to get enrollment: %w", err)
		}
		if enrollment.ProfileID != profileID {
			return NewPermissionError(profileID, enrollmentID, "enrollment", "cancel", "enrollment belongs to another student")
		}
		if enrollment.Status != models.EnrollmentActive {
			return ErrEnrollmentClosed
		}
		if err := tx.Enrollment().UpdateStatus(ctx, enrollmentID, models.EnrollmentCancelled); err != nil {
			return fmt.Errorf("failed to cancel enrollment: %w", err)
		}

		event := events.NewEvent(events.TypeEnrollmentCancelled, events.EnrollmentEvent{
			EnrollmentID: enrollmentID,
			ProfileID:    enrollment.ProfileID,
			CourseID:     enrollment.CourseID,
			Status:       string(models.EnrollmentCancelled),
		})
		return appendOutbox(ctx, tx, event)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "enrollment cancelled", "enrollment_id", enrollmentID, "profile_id", profileID)
	return nil
}

func (s *enrollmentService) Complete(ctx context.Context, enrollmentID uint) error {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEnrollmentNotFound
		}
		return fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enrollment.Status != models.EnrollmentActive {
		return ErrEnrollmentClosed
	}
	if err := s.repo.Enrollment().UpdateStatus(ctx, enrollmentID, models.EnrollmentCompleted); err != nil {
		return fmt.Errorf("failed to complete enrollment: %w", err)
	}
	s.logger.InfoContext(ctx, "enrollment completed", "enrollment_id", enrollmentID)
	return nil
}

func (s *enrollmentService) ListForProfile(ctx context.Context, profileID uint) ([]*models.Enrollment, error) {
	enrollments, _, err := s.repo.Enrollment().List(ctx, repositories.EnrollmentFilters{ProfileID: &profileID, Limit: 100})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *enrollmentService) List(ctx context.Context, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error) {
	enrollments, total, err := s.repo.Enrollment().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return &EnrollmentListResponse{
		Enrollments: enrollments,
		Total:       total,
		Page:        filters.Offset/max(filters.Limit, 1) + 1,
		Size:        filters.Limit,
	}, nil
}
