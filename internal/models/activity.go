package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity types recorded by the platform.
const (
	ActivityTypeVideoWatch   = "video_watch"
	ActivityTypeDocumentRead = "document_read"
	ActivityTypeQuiz         = "quiz"
	ActivityTypeAssignment   = "assignment"
	ActivityTypeDiscussion   = "discussion"
)

// Activity captures a single learning action performed by a user in a course.
type Activity struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	UserID       uint              `gorm:"index;not null" json:"user_id"`
	CourseID     uint              `gorm:"index;not null" json:"course_id"`
	ActivityType string            `gorm:"size:50;not null" json:"activity_type"`
	ResourceRef  string            `gorm:"size:100" json:"resource_ref"`
	Duration     int               `gorm:"default:0" json:"duration"`
	Score        *float64          `json:"score"`
	Completed    bool              `gorm:"not null;default:false" json:"completed"`
	Metadata     datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
