package dto

import (
	"time"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// ReviewCreateRequest posts a course review. Rating is a 1 to 5 scale.
type ReviewCreateRequest struct {
	UserID  uint   `json:"user_id" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// ReviewResponse serializes a course review.
type ReviewResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	CourseID  uint      `json:"course_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Reviewer  *UserLite `json:"reviewer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReviewResponse converts a Review model into a DTO.
func NewReviewResponse(model models.Review) ReviewResponse {
	response := ReviewResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		CourseID:  model.CourseID,
		Rating:    model.Rating,
		Comment:   model.Comment,
		CreatedAt: model.CreatedAt,
	}
	if model.User.ID != 0 {
		reviewer := NewUserLite(model.User)
		response.Reviewer = &reviewer
	}
	return response
}

// CourseReviewsResponse lists a course's reviews with the average rating.
type CourseReviewsResponse struct {
	CourseID      uint             `json:"course_id"`
	AverageRating float64          `json:"average_rating"`
	Reviews       []ReviewResponse `json:"reviews"`
}
