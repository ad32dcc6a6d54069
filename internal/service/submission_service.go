package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

// SubmissionService handles assignment submissions and their grading.
// Recording a submission triggers a course progress recompute because
// submission existence feeds the progress blend.
type SubmissionService interface {
	RecordAssignmentSubmission(ctx context.Context, assignmentID, userID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	GetSubmission(ctx context.Context, assignmentID, userID uint) (dto.SubmissionResponse, error)
	ListSubmissions(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error)
	GradeSubmission(ctx context.Context, submissionID uint, payload dto.SubmissionGradeRequest) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	users       repository.UserRepository
	recomputer  ProgressRecomputer
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	users repository.UserRepository,
	recomputer ProgressRecomputer,
	validate *validator.Validate,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		users:       users,
		recomputer:  recomputer,
		validator:   validate,
		sanitizer:   bluemonday.UGCPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/learnhub-io/learnhub-api/internal/service/submission"),
		now:         time.Now,
	}
}

// RecordAssignmentSubmission creates or replaces the student's submission.
// Resubmission overwrites content and refreshes the submit time; grade and
// feedback from an earlier grading pass are kept.
func (s *submissionService) RecordAssignmentSubmission(ctx context.Context, assignmentID, userID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.record")
	span.SetAttributes(
		attribute.Int64("submission.assignment_id", int64(assignmentID)),
		attribute.Int64("submission.user_id", int64(userID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrUserNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByAssignmentAndUser(ctx, assignmentID, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			return dto.SubmissionResponse{}, err
		}
		submission = models.AssignmentSubmission{AssignmentID: assignmentID, UserID: userID}
	}

	submission.Content = strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	submission.SubmitTime = s.now()
	if payload.Files != nil {
		encoded, err := json.Marshal(payload.Files)
		if err != nil {
			span.RecordError(err)
			return dto.SubmissionResponse{}, err
		}
		submission.Files = encoded
	}

	if err := s.submissions.Save(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save_submission_failed")
		return dto.SubmissionResponse{}, err
	}

	if assignment.IsPastDeadline(submission.SubmitTime) {
		s.logger.Info().
			Uint("assignment_id", assignmentID).
			Uint("user_id", userID).
			Msg("submission recorded after deadline")
		span.SetAttributes(attribute.Bool("submission.late", true))
	}

	if _, err := s.recomputer.ComputeCourseProgress(ctx, userID, assignment.CourseID); err != nil {
		s.logger.Warn().Err(err).
			Uint("user_id", userID).
			Uint("course_id", assignment.CourseID).
			Msg("failed to recompute course progress after submission")
		span.RecordError(err)
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) GetSubmission(ctx context.Context, assignmentID, userID uint) (dto.SubmissionResponse, error) {
	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByAssignmentAndUser(ctx, assignmentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}
	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListSubmissions(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error) {
	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, dto.NewSubmissionResponse(submission))
	}
	return responses, nil
}

// GradeSubmission assigns a grade and feedback. The grade may not exceed the
// assignment's point value.
func (s *submissionService) GradeSubmission(ctx context.Context, submissionID uint, payload dto.SubmissionGradeRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.grade")
	span.SetAttributes(
		attribute.Int64("submission.id", int64(submissionID)),
		attribute.Float64("submission.grade", payload.Grade),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}
	if payload.Grade > assignment.MaxPoints() {
		span.RecordError(ErrGradeExceedsPoints)
		span.SetStatus(codes.Error, "grade_exceeds_points")
		return dto.SubmissionResponse{}, ErrGradeExceedsPoints
	}

	grade := payload.Grade
	submission.Grade = &grade
	submission.Feedback = strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))

	if err := s.submissions.Save(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save_submission_failed")
		return dto.SubmissionResponse{}, err
	}
	return dto.NewSubmissionResponse(submission), nil
}
