package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

// ReviewService handles course reviews. Each user gets one review per
// course; posting a second one returns a conflict.
type ReviewService interface {
	CreateReview(ctx context.Context, courseID uint, payload dto.ReviewCreateRequest) (dto.ReviewResponse, error)
	ListCourseReviews(ctx context.Context, courseID uint) (dto.CourseReviewsResponse, error)
}

type reviewService struct {
	reviews   repository.ReviewRepository
	users     repository.UserRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewReviewService constructs the review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	users repository.UserRepository,
	courses repository.CourseRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		reviews:   reviews,
		users:     users,
		courses:   courses,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "review_service").Logger(),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, courseID uint, payload dto.ReviewCreateRequest) (dto.ReviewResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReviewResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReviewResponse{}, ErrCourseNotFound
		}
		return dto.ReviewResponse{}, err
	}
	if _, err := s.users.GetByID(ctx, payload.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReviewResponse{}, ErrUserNotFound
		}
		return dto.ReviewResponse{}, err
	}

	if _, err := s.reviews.GetByUserAndCourse(ctx, payload.UserID, courseID); err == nil {
		return dto.ReviewResponse{}, ErrDuplicateReview
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ReviewResponse{}, err
	}

	review := models.Review{
		UserID:   payload.UserID,
		CourseID: courseID,
		Rating:   payload.Rating,
		Comment:  strings.TrimSpace(s.sanitizer.Sanitize(payload.Comment)),
	}
	if err := s.reviews.Create(ctx, &review); err != nil {
		return dto.ReviewResponse{}, err
	}
	return dto.NewReviewResponse(review), nil
}

func (s *reviewService) ListCourseReviews(ctx context.Context, courseID uint) (dto.CourseReviewsResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseReviewsResponse{}, ErrCourseNotFound
		}
		return dto.CourseReviewsResponse{}, err
	}

	reviews, err := s.reviews.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.CourseReviewsResponse{}, err
	}
	average, err := s.reviews.AverageRating(ctx, courseID)
	if err != nil {
		return dto.CourseReviewsResponse{}, err
	}

	response := dto.CourseReviewsResponse{
		CourseID:      courseID,
		AverageRating: average,
		Reviews:       make([]dto.ReviewResponse, 0, len(reviews)),
	}
	for _, review := range reviews {
		response.Reviews = append(response.Reviews, dto.NewReviewResponse(review))
	}
	return response, nil
}
