package models

import "time"

// Review is a student's rating of a course. One row per (user, course).
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:uq_user_course_review;not null" json:"user_id"`
	CourseID  uint      `gorm:"uniqueIndex:uq_user_course_review;not null" json:"course_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}
