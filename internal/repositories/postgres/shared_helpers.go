package postgres

import (
	"gorm.io/gorm"

	"github.com/fefu-lab/course-service/internal/repositories"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}

func applyProfileFilters(query *gorm.DB, filters repositories.ProfileFilters) *gorm.DB {
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Faculty != nil {
		query = query.Where("faculty = ?", *filters.Faculty)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}
	return query
}

func applyCourseFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.Level != nil {
		query = query.Where("level = ?", *filters.Level)
	}
	if filters.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filters.InstructorID)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	return query
}

func applyEnrollmentFilters(query *gorm.DB, filters repositories.EnrollmentFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ProfileID != nil {
		query = query.Where("profile_id = ?", *filters.ProfileID)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.DateFrom != nil {
		query = query.Where("enrolled_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("enrolled_at <= ?", *filters.DateTo)
	}
	return query
}
