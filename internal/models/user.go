package models

import "time"

// User roles understood by the platform.
const (
	UserRoleStudent = "student"
	UserRoleTeacher = "teacher"
	UserRoleAdmin   = "admin"
)

// User statuses.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents a platform account: student, teacher or administrator.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null;default:student" json:"role"`
	Status    string    `gorm:"size:32;not null;default:active" json:"status"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTeacher reports whether the account carries the teacher role.
func (u User) IsTeacher() bool {
	return u.Role == UserRoleTeacher
}
