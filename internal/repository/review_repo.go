package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// ReviewRepository defines data operations for course reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	GetByUserAndCourse(ctx context.Context, userID, courseID uint) (models.Review, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Review, error)
	AverageRating(ctx context.Context, courseID uint) (float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository instantiates the repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepository) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&review).Error
	if err != nil {
		return models.Review{}, err
	}
	return review, nil
}

func (r *reviewRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) AverageRating(ctx context.Context, courseID uint) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("course_id = ?", courseID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
