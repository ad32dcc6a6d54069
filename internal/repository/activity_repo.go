package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// ActivityFilter narrows activity listing queries.
type ActivityFilter struct {
	UserID       *uint
	CourseID     *uint
	ActivityType *string
	Completed    *bool
	Limit        int
}

// ActivityRepository defines data operations for learning activities.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByID(ctx context.Context, id uint) (models.Activity, error)
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ActivityFilter) ([]models.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository instantiates the repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	var activity models.Activity
	if err := r.db.WithContext(ctx).First(&activity, id).Error; err != nil {
		return models.Activity{}, err
	}
	return activity, nil
}

func (r *activityRepository) Update(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

func (r *activityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Activity{}, id).Error
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.Activity, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}
	if filter.ActivityType != nil {
		query = query.Where("activity_type = ?", *filter.ActivityType)
	}
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var activities []models.Activity
	if err := query.Order("created_at DESC").Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
