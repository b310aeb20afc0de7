package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
	"github.com/fefu-lab/course-service/internal/utils"
	"github.com/fefu-lab/course-service/internal/validator"
)

type catalogService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewCatalogService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger) CatalogService {
	return &catalogService{repo: repo, validator: v, logger: logger}
}

func (s *catalogService) Summary(ctx context.Context) (*CatalogSummary, error) {
	active := true
	courses, courseTotal, err := s.repo.Course().List(ctx, repositories.CourseFilters{IsActive: &active, Limit: 6})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	instructors, instructorTotal, err := s.repo.Instructor().List(ctx, repositories.InstructorFilters{IsActive: &active, Limit: 6})
	if err != nil {
		return nil, fmt.Errorf("failed to list instructors: %w", err)
	}

	summary := &CatalogSummary{
		ActiveCourses:     courseTotal,
		ActiveInstructors: instructorTotal,
		Instructors:       instructors,
	}
	for _, course := range courses {
		resp, err := s.courseResponse(ctx, course)
		if err != nil {
			return nil, err
		}
		summary.Courses = append(summary.Courses, resp)
	}
	return summary, nil
}

func (s *catalogService) ListCourses(ctx context.Context, filters repositories.CourseFilters, includeInactive bool) (*CourseListResponse, error) {
	if !includeInactive {
		active := true
		filters.IsActive = &active
	}
	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	resp := &CourseListResponse{
		Total: total,
		Page:  filters.Offset/max(filters.Limit, 1) + 1,
		Size:  filters.Limit,
	}
	for _, course := range courses {
		cr, err := s.courseResponse(ctx, course)
		if err != nil {
			return nil, err
		}
		resp.Courses = append(resp.Courses, cr)
	}
	return resp, nil
}

func (s *catalogService) GetCourseBySlug(ctx context.Context, slug string, includeInactive bool) (*CourseResponse, error) {
	course, err := s.repo.Course().GetBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if !course.IsActive && !includeInactive {
		return nil, ErrCourseNotFound
	}
	return s.courseResponse(ctx, course)
}

func (s *catalogService) GetCourseByID(ctx context.Context, id uint) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return s.courseResponse(ctx, course)
}

// courseResponse decorates a course with its live seat count.
func (s *catalogService) courseResponse(ctx context.Context, course *models.Course) (*CourseResponse, error) {
	count, err := s.repo.Enrollment().CountActiveByCourse(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}
	course.ActiveEnrollments = count
	free := int64(course.MaxStudents) - count
	if free < 0 {
		free = 0
	}
	return &CourseResponse{
		Course:    course,
		FreeSeats: free,
		CanEnroll: course.IsActive && free > 0,
	}, nil
}

// CreateCourse derives the slug from the title exactly once. Title edits later
// never touch it.
func (s *catalogService) CreateCourse(ctx context.Context, req *CourseCreateRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	exists, err := s.repo.Course().ExistsByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to check title: %w", err)
	}
	if exists {
		return nil, ErrDuplicateTitle
	}

	slug := utils.Slugify(title)
	taken, err := s.repo.Course().ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return nil, ErrDuplicateSlug
	}

	if req.InstructorID != nil {
		if _, err := s.repo.Instructor().GetByID(ctx, *req.InstructorID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrInstructorNotFound
			}
			return nil, fmt.Errorf("failed to get instructor: %w", err)
		}
	}

	course := &models.Course{
		Title:        title,
		Slug:         slug,
		Description:  req.Description,
		Duration:     req.Duration,
		Level:        req.Level,
		MaxStudents:  req.MaxStudents,
		Price:        req.Price,
		InstructorID: req.InstructorID,
		IsActive:     true,
	}
	if course.Level == "" {
		course.Level = models.LevelBeginner
	}
	if course.MaxStudents == 0 {
		course.MaxStudents = 30
	}
	if course.Price == "" {
		course.Price = "0"
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.InfoContext(ctx, "course created", "course_id", course.ID, "slug", course.Slug)
	return course, nil
}

func (s *catalogService) UpdateCourse(ctx context.Context, id uint, req *CourseUpdateRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title != course.Title {
			exists, err := s.repo.Course().ExistsByTitle(ctx, title)
			if err != nil {
				return nil, fmt.Errorf("failed to check title: %w", err)
			}
			if exists {
				return nil, ErrDuplicateTitle
			}
			// Slug stays as minted at creation.
			course.Title = title
		}
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.MaxStudents != nil {
		course.MaxStudents = *req.MaxStudents
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.InstructorID != nil {
		if _, err := s.repo.Instructor().GetByID(ctx, *req.InstructorID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrInstructorNotFound
			}
			return nil, fmt.Errorf("failed to get instructor: %w", err)
		}
		course.InstructorID = req.InstructorID
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return course, nil
}

func (s *catalogService) DeleteCourse(ctx context.Context, id uint) error {
	if _, err := s.repo.Course().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}
	if err := s.repo.Course().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	s.logger.InfoContext(ctx, "course deleted", "course_id", id)
	return nil
}

func (s *catalogService) GetInstructor(ctx context.Context, id uint) (*models.Instructor, error) {
	instructor, err := s.repo.Instructor().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInstructorNotFound
		}
		return nil, fmt.Errorf("failed to get instructor: %w", err)
	}
	return instructor, nil
}

func (s *catalogService) ListInstructors(ctx context.Context, filters repositories.InstructorFilters) ([]*models.Instructor, int64, error) {
	instructors, total, err := s.repo.Instructor().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list instructors: %w", err)
	}
	return instructors, total, nil
}

func (s *catalogService) CreateInstructor(ctx context.Context, req *InstructorCreateRequest) (*models.Instructor, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	instructor := &models.Instructor{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          normalizeEmail(req.Email),
		Specialization: req.Specialization,
		Degree:         req.Degree,
		ProfileID:      req.ProfileID,
		IsActive:       true,
	}
	if err := s.repo.Instructor().Create(ctx, instructor); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create instructor: %w", err)
	}
	s.logger.InfoContext(ctx, "instructor created", "instructor_id", instructor.ID)
	return instructor, nil
}

func (s *catalogService) UpdateInstructor(ctx context.Context, id uint, req *InstructorUpdateRequest) (*models.Instructor, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	instructor, err := s.repo.Instructor().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInstructorNotFound
		}
		return nil, fmt.Errorf("failed to get instructor: %w", err)
	}

	if req.FirstName != nil {
		instructor.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		instructor.LastName = *req.LastName
	}
	if req.Email != nil {
		instructor.Email = normalizeEmail(*req.Email)
	}
	if req.Specialization != nil {
		instructor.Specialization = *req.Specialization
	}
	if req.Degree != nil {
		instructor.Degree = *req.Degree
	}
	if req.ProfileID != nil {
		instructor.ProfileID = req.ProfileID
	}
	if req.IsActive != nil {
		instructor.IsActive = *req.IsActive
	}

	if err := s.repo.Instructor().Update(ctx, instructor); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update instructor: %w", err)
	}
	return instructor, nil
}

func (s *catalogService) DeleteInstructor(ctx context.Context, id uint) error {
	if _, err := s.repo.Instructor().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrInstructorNotFound
		}
		return fmt.Errorf("failed to get instructor: %w", err)
	}
	if err := s.repo.Instructor().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete instructor: %w", err)
	}
	s.logger.InfoContext(ctx, "instructor deleted", "instructor_id", id)
	return nil
}
