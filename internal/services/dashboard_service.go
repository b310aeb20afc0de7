package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
)

type dashboardService struct {
	repo    repositories.Repository
	catalog CatalogService
	logger  *slog.Logger
}

func NewDashboardService(repo repositories.Repository, catalog CatalogService, logger *slog.Logger) DashboardService {
	return &dashboardService{repo: repo, catalog: catalog, logger: logger}
}

// TeacherDashboard gathers the courses taught by the instructor records
// bridged to this teacher's profile, with their recent enrollments.
func (s *dashboardService) TeacherDashboard(ctx context.Context, userID uint) (*TeacherDashboard, error) {
	profile, err := s.repo.Profile().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	dashboard := &TeacherDashboard{Profile: profile}

	instructors, _, err := s.repo.Instructor().List(ctx, repositories.InstructorFilters{ProfileID: &profile.ID, Limit: 100})
	if err != nil {
		return nil, fmt.Errorf("failed to list instructors: %w", err)
	}
	for _, instructor := range instructors {
		instructorID := instructor.ID
		courses, _, err := s.repo.Course().List(ctx, repositories.CourseFilters{InstructorID: &instructorID, Limit: 100})
		if err != nil {
			return nil, fmt.Errorf("failed to list courses: %w", err)
		}
		for _, course := range courses {
			resp, err := s.catalog.GetCourseByID(ctx, course.ID)
			if err != nil {
				return nil, err
			}
			dashboard.Courses = append(dashboard.Courses, resp)

			courseID := course.ID
			enrollments, _, err := s.repo.Enrollment().List(ctx, repositories.EnrollmentFilters{CourseID: &courseID, Limit: 10})
			if err != nil {
				return nil, fmt.Errorf("failed to list enrollments: %w", err)
			}
			dashboard.RecentEnrollments = append(dashboard.RecentEnrollments, enrollments...)
		}
	}
	return dashboard, nil
}

func (s *dashboardService) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	dashboard := &AdminDashboard{}

	studentRole := models.RoleStudent
	_, students, err := s.repo.Profile().List(ctx, repositories.ProfileFilters{Role: &studentRole, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	dashboard.Students = students

	teacherRole := models.RoleTeacher
	_, teachers, err := s.repo.Profile().List(ctx, repositories.ProfileFilters{Role: &teacherRole, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count teachers: %w", err)
	}
	dashboard.Teachers = teachers

	_, courses, err := s.repo.Course().List(ctx, repositories.CourseFilters{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}
	dashboard.Courses = courses

	activeStatus := models.EnrollmentActive
	_, activeCount, err := s.repo.Enrollment().List(ctx, repositories.EnrollmentFilters{Status: &activeStatus, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}
	dashboard.ActiveEnrollments = activeCount

	feedback, _, err := s.repo.Feedback().List(ctx, repositories.FeedbackFilters{Limit: 5})
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	dashboard.RecentFeedback = feedback

	enrollments, _, err := s.repo.Enrollment().List(ctx, repositories.EnrollmentFilters{Limit: 10})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	dashboard.RecentEnrollments = enrollments

	return dashboard, nil
}
