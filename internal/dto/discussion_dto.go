package dto

import (
	"time"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// DiscussionCreateRequest opens a discussion topic in a course.
type DiscussionCreateRequest struct {
	AuthorID uint   `json:"author_id" validate:"required,gt=0"`
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Content  string `json:"content" validate:"omitempty,max=10000"`
}

// DiscussionReplyCreateRequest replies to a discussion topic.
type DiscussionReplyCreateRequest struct {
	AuthorID uint   `json:"author_id" validate:"required,gt=0"`
	Content  string `json:"content" validate:"required,max=10000"`
}

// DiscussionReplyResponse serializes a discussion reply.
type DiscussionReplyResponse struct {
	ID           uint      `json:"id"`
	DiscussionID uint      `json:"discussion_id"`
	AuthorID     uint      `json:"author_id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

// DiscussionResponse serializes a discussion topic.
type DiscussionResponse struct {
	ID        uint                      `json:"id"`
	CourseID  uint                      `json:"course_id"`
	AuthorID  uint                      `json:"author_id"`
	Title     string                    `json:"title"`
	Content   string                    `json:"content"`
	Replies   []DiscussionReplyResponse `json:"replies,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
}

// NewDiscussionReplyResponse converts a reply model into a DTO.
func NewDiscussionReplyResponse(model models.DiscussionReply) DiscussionReplyResponse {
	return DiscussionReplyResponse{
		ID:           model.ID,
		DiscussionID: model.DiscussionID,
		AuthorID:     model.AuthorID,
		Content:      model.Content,
		CreatedAt:    model.CreatedAt,
	}
}

// NewDiscussionResponse converts a discussion model into a DTO.
func NewDiscussionResponse(model models.Discussion) DiscussionResponse {
	response := DiscussionResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		AuthorID:  model.AuthorID,
		Title:     model.Title,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
	}
	for _, reply := range model.Replies {
		response.Replies = append(response.Replies, NewDiscussionReplyResponse(reply))
	}
	return response
}
