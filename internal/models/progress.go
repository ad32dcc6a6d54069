package models

import (
	"time"

	"gorm.io/datatypes"
)

// ResourceProgress tracks a user's progress through a single course resource.
// One row per (user, resource), created on first interaction.
type ResourceProgress struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	UserID          uint              `gorm:"uniqueIndex:uq_user_resource_progress;not null" json:"user_id"`
	ResourceID      uint              `gorm:"uniqueIndex:uq_user_resource_progress;not null" json:"resource_id"`
	ProgressPercent float64           `gorm:"not null;default:0" json:"progress_percent"`
	Completed       bool              `gorm:"not null;default:false" json:"completed"`
	LastPosition    string            `gorm:"size:100" json:"last_position"`
	Metadata        datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	Resource CourseResource `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"resource,omitempty"`
}

// CourseProgress caches a user's overall completion percentage for a course.
// Derived entirely from resource completion and assignment submission state;
// recomputation with unchanged inputs yields the same value.
type CourseProgress struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"uniqueIndex:uq_user_course_progress;not null" json:"user_id"`
	CourseID        uint      `gorm:"uniqueIndex:uq_user_course_progress;not null" json:"course_id"`
	ProgressPercent float64   `gorm:"not null;default:0" json:"progress_percent"`
	LastActivityAt  time.Time `json:"last_activity_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
