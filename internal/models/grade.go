package models

import "time"

// Default grade weights applied when a course has no stored setting.
const (
	DefaultFinalExamWeight    = 60.0
	DefaultRegularGradeWeight = 40.0
)

// GradeSetting stores the per-course weights used to blend the final exam
// score and the regular grade into a total. The two weights must sum to 100.
type GradeSetting struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CourseID           uint      `gorm:"uniqueIndex;not null" json:"course_id"`
	FinalExamWeight    float64   `gorm:"not null" json:"final_exam_weight"`
	RegularGradeWeight float64   `gorm:"not null" json:"regular_grade_weight"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultGradeSetting returns the 60/40 setting used when none is stored.
func DefaultGradeSetting(courseID uint) GradeSetting {
	return GradeSetting{
		CourseID:           courseID,
		FinalExamWeight:    DefaultFinalExamWeight,
		RegularGradeWeight: DefaultRegularGradeWeight,
	}
}

// StudentGrade records a student's scores for a course. One row per
// (user, course). TotalScore is derived and nil unless both inputs are set.
type StudentGrade struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex:uq_user_course_grade;not null" json:"user_id"`
	CourseID       uint      `gorm:"uniqueIndex:uq_user_course_grade;not null" json:"course_id"`
	FinalExamScore *float64  `json:"final_exam_score"`
	RegularGrade   *float64  `json:"regular_grade"`
	TotalScore     *float64  `json:"total_score"`
	Comment        string    `gorm:"type:text" json:"comment"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}

// CalculateTotalScore applies the weighted sum under the given setting.
// Returns nil when either component score is missing. Inputs are not clamped.
func (g StudentGrade) CalculateTotalScore(setting GradeSetting) *float64 {
	if g.FinalExamScore == nil || g.RegularGrade == nil {
		return nil
	}

	total := *g.FinalExamScore*(setting.FinalExamWeight/100) + *g.RegularGrade*(setting.RegularGradeWeight/100)
	return &total
}
