package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// AssignmentRepository defines data operations for assignments.
type AssignmentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

func (r *assignmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("deadline ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

// SubmissionRepository defines data operations for assignment submissions.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id uint) (models.AssignmentSubmission, error)
	GetByAssignmentAndUser(ctx context.Context, assignmentID, userID uint) (models.AssignmentSubmission, error)
	Save(ctx context.Context, submission *models.AssignmentSubmission) error
	ListByAssignment(ctx context.Context, assignmentID uint) ([]models.AssignmentSubmission, error)
	CountByAssignment(ctx context.Context, assignmentID uint) (int64, error)
	CountForCourseByUser(ctx context.Context, courseID, userID uint) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.AssignmentSubmission, error) {
	var submission models.AssignmentSubmission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return models.AssignmentSubmission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) GetByAssignmentAndUser(ctx context.Context, assignmentID, userID uint) (models.AssignmentSubmission, error) {
	var submission models.AssignmentSubmission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND user_id = ?", assignmentID, userID).
		First(&submission).Error
	if err != nil {
		return models.AssignmentSubmission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) Save(ctx context.Context, submission *models.AssignmentSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.AssignmentSubmission, error) {
	var submissions []models.AssignmentSubmission
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("assignment_id = ?", assignmentID).
		Order("submit_time DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) CountByAssignment(ctx context.Context, assignmentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AssignmentSubmission{}).
		Where("assignment_id = ?", assignmentID).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) CountForCourseByUser(ctx context.Context, courseID, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AssignmentSubmission{}).
		Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id").
		Where("assignments.course_id = ?", courseID).
		Where("assignment_submissions.user_id = ?", userID).
		Count(&count).Error
	return count, err
}
