package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fefu-lab/course-service/internal/cache"
	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
)

// ===== INSTRUCTOR =====

type InstructorPostgreSQL struct {
	db *gorm.DB
}

func NewInstructorPostgreSQL(db *gorm.DB) repositories.InstructorRepository {
	return &InstructorPostgreSQL{db: db}
}

func (r *InstructorPostgreSQL) Create(ctx context.Context, instructor *models.Instructor) error {
	if err := r.db.WithContext(ctx).Create(instructor).Error; err != nil {
		return fmt.Errorf("failed to create instructor: %w", err)
	}
	return nil
}

func (r *InstructorPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Instructor, error) {
	var instructor models.Instructor
	if err := r.db.WithContext(ctx).First(&instructor, id).Error; err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *InstructorPostgreSQL) List(ctx context.Context, filters repositories.InstructorFilters) ([]*models.Instructor, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Instructor{})
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.ProfileID != nil {
		query = query.Where("profile_id = ?", *filters.ProfileID)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count instructors: %w", err)
	}

	var instructors []*models.Instructor
	err := applyPagination(query, filters.Limit, filters.Offset).
		Order("last_name ASC, first_name ASC").
		Find(&instructors).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list instructors: %w", err)
	}
	return instructors, total, nil
}

func (r *InstructorPostgreSQL) Update(ctx context.Context, instructor *models.Instructor) error {
	if err := r.db.WithContext(ctx).Save(instructor).Error; err != nil {
		return fmt.Errorf("failed to update instructor: %w", err)
	}
	return nil
}

// Delete clears the instructor reference on courses first, so deleting an
// instructor never deletes a course.
func (r *InstructorPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Course{}).
			Where("instructor_id = ?", id).
			Update("instructor_id", nil).Error
		if err != nil {
			return fmt.Errorf("failed to detach courses: %w", err)
		}
		if err := tx.Delete(&models.Instructor{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete instructor: %w", err)
		}
		return nil
	})
}

func (r *InstructorPostgreSQL) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Instructor{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete instructors: %w", err)
	}
	return nil
}

// ===== COURSE =====

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db, cacheManager: cacheManager}
}

func (r *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Catalog, "courses:*")
	return nil
}

func (r *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetBySlug serves the public course detail page, the hot path, through the
// cache.
func (r *CoursePostgreSQL) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	cacheKey := fmt.Sprintf("course:slug:%s", slug)
	var course models.Course

	err := r.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &course, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		err := r.db.WithContext(ctx).
			Preload("Instructor").
			Where("slug = ?", slug).
			First(&dbCourse).Error
		if err != nil {
			return nil, err
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetByIDForUpdate locks the course row until the surrounding transaction
// ends. Callers must be inside WithTransaction.
func (r *CoursePostgreSQL) GetByIDForUpdate(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})
	query = applyCourseFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	var courses []*models.Course
	err := applyPagination(query, filters.Limit, filters.Offset).
		Preload("Instructor").
		Order("title ASC").
		Find(&courses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, total, nil
}

func (r *CoursePostgreSQL) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("title = ?", title).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check title existence: %w", err)
	}
	return count > 0, nil
}

func (r *CoursePostgreSQL) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}
	return count > 0, nil
}

func (r *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, r.cacheManager, course.ID, course.Slug)
	return nil
}

func (r *CoursePostgreSQL) Delete(ctx context.Context, id uint) error {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return fmt.Errorf("failed to delete enrollments: %w", err)
		}
		if err := tx.Delete(&models.Course{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, r.cacheManager, id, course.Slug)
	return nil
}

func (r *CoursePostgreSQL) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Course{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete courses: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Catalog, "course*")
	return nil
}
