package models

import "time"

// Course statuses.
const (
	CourseStatusActive   = "active"
	CourseStatusArchived = "archived"
)

// Resource types found within course sections.
const (
	ResourceTypeDocument = "document"
	ResourceTypeVideo    = "video"
	ResourceTypeQuiz     = "quiz"
)

// Course represents a course offered on the platform.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	TeacherID   uint      `gorm:"index;not null" json:"teacher_id"`
	Status      string    `gorm:"size:32;not null;default:active" json:"status"`
	CoverURL    string    `gorm:"size:512" json:"cover_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Sections    []CourseSection `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"sections,omitempty"`
	Assignments []Assignment    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignments,omitempty"`
}

// CourseSection groups resources inside a course.
type CourseSection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"index;not null" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Resources []CourseResource `gorm:"foreignKey:SectionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"resources,omitempty"`
}

// CourseResource is a unit of course content within a section.
type CourseResource struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SectionID    uint      `gorm:"index;not null" json:"section_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	ResourceType string    `gorm:"size:32;not null" json:"resource_type"`
	URL          string    `gorm:"size:512" json:"url"`
	Position     int       `gorm:"not null;default:0" json:"position"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Enrollment links a student to a course. One row per (user, course).
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex:uq_user_course_enrollment;not null" json:"user_id"`
	CourseID   uint      `gorm:"uniqueIndex:uq_user_course_enrollment;not null" json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
	CreatedAt  time.Time `json:"created_at"`

	User   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	Course Course `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course,omitempty"`
}
