package models

import "time"

// Discussion represents a discussion topic attached to a course.
type Discussion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"index;not null" json:"course_id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Replies []DiscussionReply `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"replies,omitempty"`
}

// DiscussionReply is a reply within a discussion topic.
type DiscussionReply struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DiscussionID uint      `gorm:"index;not null" json:"discussion_id"`
	AuthorID     uint      `gorm:"index;not null" json:"author_id"`
	Content      string    `gorm:"type:text" json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
