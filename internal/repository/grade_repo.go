package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// GradeRepository defines data operations for grade settings and student grades.
type GradeRepository interface {
	GetSetting(ctx context.Context, courseID uint) (models.GradeSetting, error)
	SaveSetting(ctx context.Context, setting *models.GradeSetting) error
	GetStudentGrade(ctx context.Context, userID, courseID uint) (models.StudentGrade, error)
	SaveStudentGrade(ctx context.Context, grade *models.StudentGrade) error
	ListByCourse(ctx context.Context, courseID uint) ([]models.StudentGrade, error)
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository instantiates the repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) GetSetting(ctx context.Context, courseID uint) (models.GradeSetting, error) {
	var setting models.GradeSetting
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		First(&setting).Error
	if err != nil {
		return models.GradeSetting{}, err
	}
	return setting, nil
}

func (r *gradeRepository) SaveSetting(ctx context.Context, setting *models.GradeSetting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}

func (r *gradeRepository) GetStudentGrade(ctx context.Context, userID, courseID uint) (models.StudentGrade, error) {
	var grade models.StudentGrade
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&grade).Error
	if err != nil {
		return models.StudentGrade{}, err
	}
	return grade, nil
}

func (r *gradeRepository) SaveStudentGrade(ctx context.Context, grade *models.StudentGrade) error {
	return r.db.WithContext(ctx).Save(grade).Error
}

func (r *gradeRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.StudentGrade, error) {
	var grades []models.StudentGrade
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("course_id = ?", courseID).
		Find(&grades).Error
	if err != nil {
		return nil, err
	}
	return grades, nil
}
