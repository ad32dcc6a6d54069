package dto

import (
	"encoding/json"
	"time"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// SubmissionFile describes one file attached to a submission. Files are
// stored as descriptors; binary upload handling lives outside this service.
type SubmissionFile struct {
	Name string `json:"name" validate:"required"`
	Size int64  `json:"size" validate:"gte=0"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// SubmissionCreateRequest submits (or resubmits) an assignment.
type SubmissionCreateRequest struct {
	Content string           `json:"content"`
	Files   []SubmissionFile `json:"files" validate:"omitempty,dive"`
}

// SubmissionGradeRequest grades an existing submission.
type SubmissionGradeRequest struct {
	Grade    float64 `json:"grade" validate:"gte=0"`
	Feedback string  `json:"feedback"`
}

// SubmissionResponse serializes an assignment submission.
type SubmissionResponse struct {
	ID           uint             `json:"id"`
	AssignmentID uint             `json:"assignment_id"`
	UserID       uint             `json:"user_id"`
	Content      string           `json:"content"`
	Files        []SubmissionFile `json:"files"`
	SubmitTime   time.Time        `json:"submit_time"`
	Grade        *float64         `json:"grade"`
	Feedback     string           `json:"feedback"`
	Student      *UserLite        `json:"student,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewSubmissionResponse converts an AssignmentSubmission model into a DTO.
func NewSubmissionResponse(model models.AssignmentSubmission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		UserID:       model.UserID,
		Content:      model.Content,
		SubmitTime:   model.SubmitTime,
		Grade:        model.Grade,
		Feedback:     model.Feedback,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
	if len(model.Files) > 0 {
		var files []SubmissionFile
		if err := json.Unmarshal(model.Files, &files); err == nil {
			response.Files = files
		}
	}
	if model.User.ID != 0 {
		student := NewUserLite(model.User)
		response.Student = &student
	}
	return response
}
