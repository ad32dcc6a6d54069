package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// ProgressRepository defines data operations for resource and course progress rows.
type ProgressRepository interface {
	GetResourceProgress(ctx context.Context, userID, resourceID uint) (models.ResourceProgress, error)
	SaveResourceProgress(ctx context.Context, progress *models.ResourceProgress) error
	CountCompletedResources(ctx context.Context, userID uint, resourceIDs []uint) (int64, error)
	GetCourseProgress(ctx context.Context, userID, courseID uint) (models.CourseProgress, error)
	SaveCourseProgress(ctx context.Context, progress *models.CourseProgress) error
	DeleteCourseProgress(ctx context.Context, userID, courseID uint) error
	ListCourseProgress(ctx context.Context, courseID uint) ([]models.CourseProgress, error)
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository instantiates the repository.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetResourceProgress(ctx context.Context, userID, resourceID uint) (models.ResourceProgress, error) {
	var progress models.ResourceProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND resource_id = ?", userID, resourceID).
		First(&progress).Error
	if err != nil {
		return models.ResourceProgress{}, err
	}
	return progress, nil
}

func (r *progressRepository) SaveResourceProgress(ctx context.Context, progress *models.ResourceProgress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}

func (r *progressRepository) CountCompletedResources(ctx context.Context, userID uint, resourceIDs []uint) (int64, error) {
	if len(resourceIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ResourceProgress{}).
		Where("user_id = ?", userID).
		Where("resource_id IN ?", resourceIDs).
		Where("completed = ?", true).
		Count(&count).Error
	return count, err
}

func (r *progressRepository) GetCourseProgress(ctx context.Context, userID, courseID uint) (models.CourseProgress, error) {
	var progress models.CourseProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		return models.CourseProgress{}, err
	}
	return progress, nil
}

func (r *progressRepository) SaveCourseProgress(ctx context.Context, progress *models.CourseProgress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}

func (r *progressRepository) DeleteCourseProgress(ctx context.Context, userID, courseID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&models.CourseProgress{}).Error
}

func (r *progressRepository) ListCourseProgress(ctx context.Context, courseID uint) ([]models.CourseProgress, error) {
	var rows []models.CourseProgress
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
