package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// DailyActivityCount is one point of the daily activity trend.
type DailyActivityCount struct {
	Day   string `json:"date"`
	Count int64  `json:"count"`
}

// AnalyticsRepository supplies aggregate queries for dashboard rollups.
type AnalyticsRepository interface {
	SumActivityDuration(ctx context.Context, userID uint) (int64, error)
	AverageActivityScore(ctx context.Context, filter ActivityFilter) (float64, error)
	CountActivities(ctx context.Context, filter ActivityFilter) (int64, error)
	ListUserActivities(ctx context.Context, userID uint) ([]models.Activity, error)
	ListCourseActivities(ctx context.Context, courseID uint) ([]models.Activity, error)
	ListRecentActivities(ctx context.Context, userID uint, limit int) ([]models.Activity, error)
	CountActivitiesSinceByDay(ctx context.Context, since time.Time) ([]DailyActivityCount, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository constructs the analytics repository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) SumActivityDuration(ctx context.Context, userID uint) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("user_id = ?", userID).
		Select("SUM(duration)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *analyticsRepository) AverageActivityScore(ctx context.Context, filter ActivityFilter) (float64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{}).Where("score IS NOT NULL")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}

	var avg *float64
	if err := query.Select("AVG(score)").Scan(&avg).Error; err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *analyticsRepository) CountActivities(ctx context.Context, filter ActivityFilter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *analyticsRepository) ListUserActivities(ctx context.Context, userID uint) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *analyticsRepository) ListCourseActivities(ctx context.Context, courseID uint) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *analyticsRepository) ListRecentActivities(ctx context.Context, userID uint, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *analyticsRepository) CountActivitiesSinceByDay(ctx context.Context, since time.Time) ([]DailyActivityCount, error) {
	var rows []DailyActivityCount
	err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
