package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/events"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

// Blend weights applied when a course has both resources and assignments.
const (
	resourceBlendWeight   = 70.0
	assignmentBlendWeight = 30.0
)

// ProgressRecomputer is the subset of ProgressService needed by collaborators
// that trigger recomputation as a side effect.
type ProgressRecomputer interface {
	ComputeCourseProgress(ctx context.Context, userID, courseID uint) (dto.CourseProgressResponse, error)
}

// ProgressService maintains per-resource progress rows and the derived
// per-course completion percentage.
type ProgressService interface {
	ProgressRecomputer
	GetCourseProgress(ctx context.Context, userID, courseID uint) (dto.CourseProgressResponse, error)
	GetResourceProgress(ctx context.Context, userID, resourceID uint) (dto.ResourceProgressResponse, error)
	RecordResourceCompletion(ctx context.Context, userID, resourceID uint, payload dto.ResourceProgressUpdateRequest) (dto.ResourceProgressResponse, error)
}

type progressService struct {
	progress    repository.ProgressRepository
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	publisher   *events.Publisher
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewProgressService constructs the progress aggregator.
func NewProgressService(
	progress repository.ProgressRepository,
	courses repository.CourseRepository,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	users repository.UserRepository,
	publisher *events.Publisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) ProgressService {
	return &progressService{
		progress:    progress,
		courses:     courses,
		assignments: assignments,
		submissions: submissions,
		users:       users,
		publisher:   publisher,
		validator:   validate,
		logger:      logger.With().Str("component", "progress_service").Logger(),
		tracer:      otel.Tracer("github.com/learnhub-io/learnhub-api/internal/service/progress"),
		now:         time.Now,
	}
}

// ComputeCourseProgress recomputes the completion percentage for one learner
// in one course and upserts the cached CourseProgress row. Resources and
// assignments are blended 70/30 when both exist; a course with neither yields
// exactly 0. Repeated invocation with unchanged data yields the same value.
func (s *progressService) ComputeCourseProgress(ctx context.Context, userID, courseID uint) (dto.CourseProgressResponse, error) {
	ctx, span := s.tracer.Start(ctx, "progress.compute")
	span.SetAttributes(
		attribute.Int64("progress.user_id", int64(userID)),
		attribute.Int64("progress.course_id", int64(courseID)),
	)
	defer span.End()

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return dto.CourseProgressResponse{}, s.mapNotFound(span, err, ErrUserNotFound)
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return dto.CourseProgressResponse{}, s.mapNotFound(span, err, ErrCourseNotFound)
	}

	resourceIDs, err := s.courses.ListResourceIDs(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_resources_failed")
		return dto.CourseProgressResponse{}, err
	}

	completedResources, err := s.progress.CountCompletedResources(ctx, userID, resourceIDs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_completed_failed")
		return dto.CourseProgressResponse{}, err
	}

	totalAssignments, err := s.assignments.CountByCourse(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_assignments_failed")
		return dto.CourseProgressResponse{}, err
	}

	submittedAssignments, err := s.submissions.CountForCourseByUser(ctx, courseID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_submissions_failed")
		return dto.CourseProgressResponse{}, err
	}

	percent := blendProgress(int64(len(resourceIDs)), completedResources, totalAssignments, submittedAssignments)
	span.SetAttributes(attribute.Float64("progress.percent", percent))

	row, err := s.progress.GetCourseProgress(ctx, userID, courseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			return dto.CourseProgressResponse{}, err
		}
		row = models.CourseProgress{UserID: userID, CourseID: courseID}
	}

	row.ProgressPercent = percent
	row.LastActivityAt = s.now()
	if err := s.progress.SaveCourseProgress(ctx, &row); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save_course_progress_failed")
		return dto.CourseProgressResponse{}, err
	}

	s.publisher.PublishProgressUpdated(events.ProgressUpdated{
		UserID:          userID,
		CourseID:        courseID,
		ProgressPercent: percent,
		OccurredAt:      row.LastActivityAt,
	})

	return dto.NewCourseProgressResponse(row), nil
}

// GetCourseProgress returns the cached aggregate, computing it first when no
// row exists yet.
func (s *progressService) GetCourseProgress(ctx context.Context, userID, courseID uint) (dto.CourseProgressResponse, error) {
	row, err := s.progress.GetCourseProgress(ctx, userID, courseID)
	if err == nil {
		return dto.NewCourseProgressResponse(row), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CourseProgressResponse{}, err
	}

	return s.ComputeCourseProgress(ctx, userID, courseID)
}

func (s *progressService) GetResourceProgress(ctx context.Context, userID, resourceID uint) (dto.ResourceProgressResponse, error) {
	row, err := s.progress.GetResourceProgress(ctx, userID, resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResourceProgressResponse{}, ErrProgressNotFound
		}
		return dto.ResourceProgressResponse{}, err
	}
	return dto.NewResourceProgressResponse(row), nil
}

// RecordResourceCompletion upserts the (user, resource) progress row. The
// metadata map is merged shallowly into the stored one. When the row is
// completed the owning course's aggregate is recomputed eagerly.
func (s *progressService) RecordResourceCompletion(ctx context.Context, userID, resourceID uint, payload dto.ResourceProgressUpdateRequest) (dto.ResourceProgressResponse, error) {
	ctx, span := s.tracer.Start(ctx, "progress.record_resource")
	span.SetAttributes(
		attribute.Int64("progress.user_id", int64(userID)),
		attribute.Int64("progress.resource_id", int64(resourceID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ResourceProgressResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return dto.ResourceProgressResponse{}, s.mapNotFound(span, err, ErrUserNotFound)
	}
	if _, err := s.courses.GetResource(ctx, resourceID); err != nil {
		return dto.ResourceProgressResponse{}, s.mapNotFound(span, err, ErrResourceNotFound)
	}

	row, err := s.progress.GetResourceProgress(ctx, userID, resourceID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			return dto.ResourceProgressResponse{}, err
		}
		row = models.ResourceProgress{UserID: userID, ResourceID: resourceID}
	}

	if payload.ProgressPercent != nil {
		row.ProgressPercent = clampPercent(*payload.ProgressPercent)
	}
	if payload.Completed != nil {
		row.Completed = *payload.Completed
	}
	if payload.LastPosition != nil {
		row.LastPosition = *payload.LastPosition
	}
	if len(payload.Metadata) > 0 {
		if row.Metadata == nil {
			row.Metadata = datatypes.JSONMap{}
		}
		for key, value := range payload.Metadata {
			row.Metadata[key] = value
		}
	}

	if err := s.progress.SaveResourceProgress(ctx, &row); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save_resource_progress_failed")
		return dto.ResourceProgressResponse{}, err
	}

	if row.Completed {
		courseID, err := s.courses.CourseIDForResource(ctx, resourceID)
		if err != nil {
			s.logger.Warn().Err(err).Uint("resource_id", resourceID).Msg("failed to resolve course for completed resource")
			span.RecordError(err)
		} else if _, err := s.ComputeCourseProgress(ctx, userID, courseID); err != nil {
			s.logger.Warn().Err(err).
				Uint("user_id", userID).
				Uint("course_id", courseID).
				Msg("failed to recompute course progress")
			span.RecordError(err)
		}
	}

	return dto.NewResourceProgressResponse(row), nil
}

func (s *progressService) mapNotFound(span trace.Span, err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(sentinel)
		span.SetStatus(codes.Error, "not_found")
		return sentinel
	}
	span.RecordError(err)
	return err
}

// blendProgress computes the completion percentage from resource and
// assignment counts. Zero denominators contribute nothing; a course with no
// resources and no assignments yields exactly 0.
func blendProgress(totalResources, completedResources, totalAssignments, submittedAssignments int64) float64 {
	var resourceRatio, assignmentRatio float64
	if totalResources > 0 {
		resourceRatio = float64(completedResources) / float64(totalResources)
	}
	if totalAssignments > 0 {
		assignmentRatio = float64(submittedAssignments) / float64(totalAssignments)
	}

	var percent float64
	switch {
	case totalResources > 0 && totalAssignments > 0:
		percent = resourceRatio*resourceBlendWeight + assignmentRatio*assignmentBlendWeight
	case totalResources > 0:
		percent = resourceRatio * 100
	case totalAssignments > 0:
		percent = assignmentRatio * 100
	}

	return clampPercent(percent)
}

func clampPercent(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
