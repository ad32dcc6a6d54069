package dto

import (
	"time"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// EnrollmentRequest enrolls a user into a course.
type EnrollmentRequest struct {
	UserID   uint `json:"user_id" validate:"required,gt=0"`
	CourseID uint `json:"course_id" validate:"required,gt=0"`
}

// EnrollmentResponse serializes an enrollment row.
type EnrollmentResponse struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	CourseID   uint      `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// NewEnrollmentResponse converts an Enrollment model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:         model.ID,
		UserID:     model.UserID,
		CourseID:   model.CourseID,
		EnrolledAt: model.EnrolledAt,
	}
}

// EnrolledCourseResponse is a course listing entry annotated with the cached
// progress percent for the enrolled user.
type EnrolledCourseResponse struct {
	CourseID   uint      `json:"course_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	Progress   float64   `json:"progress"`
	EnrolledAt time.Time `json:"enrolled_at"`
}
