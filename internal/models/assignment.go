package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assignment represents course homework with a deadline and a point value.
type Assignment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CourseID    uint           `gorm:"index;not null" json:"course_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Deadline    time.Time      `json:"deadline"`
	Points      float64        `gorm:"not null;default:100" json:"points"`
	Attachments datatypes.JSON `json:"attachments"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Submissions []AssignmentSubmission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"submissions,omitempty"`
}

// IsPastDeadline reports whether the deadline has passed at the reference time.
func (a Assignment) IsPastDeadline(reference time.Time) bool {
	return !a.Deadline.IsZero() && reference.After(a.Deadline)
}

// MaxPoints returns the grading ceiling, defaulting to 100 when unset.
func (a Assignment) MaxPoints() float64 {
	if a.Points <= 0 {
		return 100
	}
	return a.Points
}

// AssignmentSubmission stores a student's submission for an assignment.
// One row per (assignment, user); its existence counts as "submitted"
// for progress purposes regardless of grading state.
type AssignmentSubmission struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	AssignmentID uint           `gorm:"uniqueIndex:uq_assignment_user_submission;not null" json:"assignment_id"`
	UserID       uint           `gorm:"uniqueIndex:uq_assignment_user_submission;not null" json:"user_id"`
	Content      string         `gorm:"type:text" json:"content"`
	Files        datatypes.JSON `json:"files"`
	SubmitTime   time.Time      `json:"submit_time"`
	Grade        *float64       `json:"grade"`
	Feedback     string         `gorm:"type:text" json:"feedback"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	Assignment Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment,omitempty"`
	User       User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}

// IsGraded reports whether a grade has been assigned.
func (s AssignmentSubmission) IsGraded() bool {
	return s.Grade != nil
}
