package dto

import (
	"time"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// ResourceProgressUpdateRequest carries a partial update of a user's progress
// through a resource. Only provided fields are applied; the metadata map is
// merged into the stored one key by key.
type ResourceProgressUpdateRequest struct {
	ProgressPercent *float64               `json:"progress_percent" validate:"omitempty,gte=0,lte=100"`
	Completed       *bool                  `json:"completed"`
	LastPosition    *string                `json:"last_position" validate:"omitempty,max=100"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// ResourceProgressResponse serializes a per-resource progress row.
type ResourceProgressResponse struct {
	ID              uint                   `json:"id"`
	UserID          uint                   `json:"user_id"`
	ResourceID      uint                   `json:"resource_id"`
	ProgressPercent float64                `json:"progress_percent"`
	Completed       bool                   `json:"completed"`
	LastPosition    string                 `json:"last_position"`
	Metadata        map[string]interface{} `json:"metadata"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// NewResourceProgressResponse converts a ResourceProgress model into a DTO.
func NewResourceProgressResponse(model models.ResourceProgress) ResourceProgressResponse {
	return ResourceProgressResponse{
		ID:              model.ID,
		UserID:          model.UserID,
		ResourceID:      model.ResourceID,
		ProgressPercent: model.ProgressPercent,
		Completed:       model.Completed,
		LastPosition:    model.LastPosition,
		Metadata:        model.Metadata,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// CourseProgressResponse serializes the cached per-course progress aggregate.
type CourseProgressResponse struct {
	ID              uint      `json:"id"`
	UserID          uint      `json:"user_id"`
	CourseID        uint      `json:"course_id"`
	ProgressPercent float64   `json:"progress_percent"`
	LastActivityAt  time.Time `json:"last_activity_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewCourseProgressResponse converts a CourseProgress model into a DTO.
func NewCourseProgressResponse(model models.CourseProgress) CourseProgressResponse {
	return CourseProgressResponse{
		ID:              model.ID,
		UserID:          model.UserID,
		CourseID:        model.CourseID,
		ProgressPercent: model.ProgressPercent,
		LastActivityAt:  model.LastActivityAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
