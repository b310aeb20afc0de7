package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (r *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *EnrollmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		First(&enrollment, id).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentPostgreSQL) GetByPair(ctx context.Context, profileID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND course_id = ?", profileID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// CountActiveByCourse counts seats taken: only ACTIVE rows hold a seat.
func (r *EnrollmentPostgreSQL) CountActiveByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active enrollments: %w", err)
	}
	return count, nil
}

func (r *EnrollmentPostgreSQL) List(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Enrollment{})
	query = applyEnrollmentFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	var enrollments []*models.Enrollment
	err := applyPagination(query, filters.Limit, filters.Offset).
		Preload("Profile").
		Preload("Course").
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, total, nil
}

func (r *EnrollmentPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.EnrollmentStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update enrollment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *EnrollmentPostgreSQL) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete enrollments: %w", err)
	}
	return nil
}
