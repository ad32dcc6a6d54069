package dto

import (
	"time"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// GradeSettingRequest sets the per-course grade weights. The two weights must
// sum to 100; the service enforces the invariant with a small tolerance.
type GradeSettingRequest struct {
	FinalExamWeight    float64 `json:"final_exam_weight" validate:"gte=0,lte=100"`
	RegularGradeWeight float64 `json:"regular_grade_weight" validate:"gte=0,lte=100"`
}

// GradeSettingResponse serializes a grade setting.
type GradeSettingResponse struct {
	ID                 uint      `json:"id"`
	CourseID           uint      `json:"course_id"`
	FinalExamWeight    float64   `json:"final_exam_weight"`
	RegularGradeWeight float64   `json:"regular_grade_weight"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewGradeSettingResponse converts a GradeSetting model into a DTO.
func NewGradeSettingResponse(model models.GradeSetting) GradeSettingResponse {
	return GradeSettingResponse{
		ID:                 model.ID,
		CourseID:           model.CourseID,
		FinalExamWeight:    model.FinalExamWeight,
		RegularGradeWeight: model.RegularGradeWeight,
		UpdatedAt:          model.UpdatedAt,
	}
}

// StudentGradeUpsertRequest partially updates a student's grade record.
type StudentGradeUpsertRequest struct {
	FinalExamScore *float64 `json:"final_exam_score"`
	RegularGrade   *float64 `json:"regular_grade"`
	Comment        *string  `json:"comment"`
}

// StudentGradeResponse serializes a student grade row.
type StudentGradeResponse struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	CourseID       uint      `json:"course_id"`
	FinalExamScore *float64  `json:"final_exam_score"`
	RegularGrade   *float64  `json:"regular_grade"`
	TotalScore     *float64  `json:"total_score"`
	Comment        string    `json:"comment"`
	Student        *UserLite `json:"student,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewStudentGradeResponse converts a StudentGrade model into a DTO.
func NewStudentGradeResponse(model models.StudentGrade) StudentGradeResponse {
	response := StudentGradeResponse{
		ID:             model.ID,
		UserID:         model.UserID,
		CourseID:       model.CourseID,
		FinalExamScore: model.FinalExamScore,
		RegularGrade:   model.RegularGrade,
		TotalScore:     model.TotalScore,
		Comment:        model.Comment,
		UpdatedAt:      model.UpdatedAt,
	}
	if model.User.ID != 0 {
		student := NewUserLite(model.User)
		response.Student = &student
	}
	return response
}

// GradeSheetResponse is the full grade sheet for a course: one row per
// enrolled student (empty rows for students without a grade record) plus the
// effective setting.
type GradeSheetResponse struct {
	CourseID uint                   `json:"course_id"`
	Grades   []StudentGradeResponse `json:"grades"`
	Setting  GradeSettingResponse   `json:"settings"`
}

// BatchGradeRow is one entry of a batch grade update.
type BatchGradeRow struct {
	UserID         uint     `json:"user_id" validate:"required,gt=0"`
	FinalExamScore *float64 `json:"final_exam_score"`
	RegularGrade   *float64 `json:"regular_grade"`
	Comment        *string  `json:"comment"`
}

// BatchGradeUpsertRequest updates several student grades at once.
type BatchGradeUpsertRequest struct {
	Grades []BatchGradeRow `json:"grades" validate:"required,min=1,dive"`
}

// BatchGradeResult reports the outcome of a batch update. Unknown students
// are collected rather than failing the whole batch.
type BatchGradeResult struct {
	Updated       int    `json:"updated"`
	FailedUserIDs []uint `json:"failed_user_ids"`
}

// UserLite summarizes an account without exposing full profile data.
type UserLite struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserLite converts a User model into its compact DTO.
func NewUserLite(model models.User) UserLite {
	return UserLite{ID: model.ID, Username: model.Username, Email: model.Email}
}
