package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// CourseRepository defines data operations for courses and their content tree.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (models.Course, error)
	GetWithContent(ctx context.Context, id uint) (models.Course, error)
	ListResourceIDs(ctx context.Context, courseID uint) ([]uint, error)
	GetResource(ctx context.Context, resourceID uint) (models.CourseResource, error)
	CourseIDForResource(ctx context.Context, resourceID uint) (uint, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates the repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) GetWithContent(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Sections.Resources", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&course, id).Error
	if err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) ListResourceIDs(ctx context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.CourseResource{}).
		Joins("JOIN course_sections ON course_sections.id = course_resources.section_id").
		Where("course_sections.course_id = ?", courseID).
		Pluck("course_resources.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *courseRepository) GetResource(ctx context.Context, resourceID uint) (models.CourseResource, error) {
	var resource models.CourseResource
	if err := r.db.WithContext(ctx).First(&resource, resourceID).Error; err != nil {
		return models.CourseResource{}, err
	}
	return resource, nil
}

func (r *courseRepository) CourseIDForResource(ctx context.Context, resourceID uint) (uint, error) {
	var courseID uint
	err := r.db.WithContext(ctx).
		Model(&models.CourseSection{}).
		Joins("JOIN course_resources ON course_resources.section_id = course_sections.id").
		Where("course_resources.id = ?", resourceID).
		Limit(1).
		Pluck("course_sections.course_id", &courseID).Error
	if err != nil {
		return 0, err
	}
	if courseID == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return courseID, nil
}

func (r *courseRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
