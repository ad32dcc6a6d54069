package dto

import (
	"time"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// ActivityCreateRequest records a learning activity.
type ActivityCreateRequest struct {
	UserID       uint                   `json:"user_id" validate:"required,gt=0"`
	CourseID     uint                   `json:"course_id" validate:"required,gt=0"`
	ActivityType string                 `json:"activity_type" validate:"required,oneof=video_watch document_read quiz assignment discussion"`
	ResourceRef  string                 `json:"resource_ref" validate:"omitempty,max=100"`
	Duration     int                    `json:"duration" validate:"gte=0"`
	Score        *float64               `json:"score"`
	Completed    bool                   `json:"completed"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// ActivityUpdateRequest partially updates an activity. The metadata map is
// merged into the stored one.
type ActivityUpdateRequest struct {
	Duration  *int                   `json:"duration" validate:"omitempty,gte=0"`
	Score     *float64               `json:"score"`
	Completed *bool                  `json:"completed"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// ActivityResponse serializes an activity record.
type ActivityResponse struct {
	ID           uint                   `json:"id"`
	UserID       uint                   `json:"user_id"`
	CourseID     uint                   `json:"course_id"`
	ActivityType string                 `json:"activity_type"`
	ResourceRef  string                 `json:"resource_ref"`
	Duration     int                    `json:"duration"`
	Score        *float64               `json:"score"`
	Completed    bool                   `json:"completed"`
	Metadata     map[string]interface{} `json:"metadata"`
	CreatedAt    time.Time              `json:"created_at"`
}

// NewActivityResponse converts an Activity model into a DTO.
func NewActivityResponse(model models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:           model.ID,
		UserID:       model.UserID,
		CourseID:     model.CourseID,
		ActivityType: model.ActivityType,
		ResourceRef:  model.ResourceRef,
		Duration:     model.Duration,
		Score:        model.Score,
		Completed:    model.Completed,
		Metadata:     model.Metadata,
		CreatedAt:    model.CreatedAt,
	}
}

// NewActivityResponseSlice converts a slice of activities.
func NewActivityResponseSlice(activities []models.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, NewActivityResponse(activity))
	}
	return responses
}
