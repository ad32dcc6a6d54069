package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

// ActivityService records and queries learning activities, the raw events
// behind the analytics rollups.
type ActivityService interface {
	RecordActivity(ctx context.Context, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error)
	GetActivity(ctx context.Context, id uint) (dto.ActivityResponse, error)
	UpdateActivity(ctx context.Context, id uint, payload dto.ActivityUpdateRequest) (dto.ActivityResponse, error)
	DeleteActivity(ctx context.Context, id uint) error
	ListActivities(ctx context.Context, filter repository.ActivityFilter) ([]dto.ActivityResponse, error)
}

type activityService struct {
	activities repository.ActivityRepository
	users      repository.UserRepository
	courses    repository.CourseRepository
	validator  *validator.Validate
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewActivityService constructs the activity service.
func NewActivityService(
	activities repository.ActivityRepository,
	users repository.UserRepository,
	courses repository.CourseRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) ActivityService {
	return &activityService{
		activities: activities,
		users:      users,
		courses:    courses,
		validator:  validate,
		logger:     logger.With().Str("component", "activity_service").Logger(),
		tracer:     otel.Tracer("github.com/learnhub-io/learnhub-api/internal/service/activity"),
	}
}

func (s *activityService) RecordActivity(ctx context.Context, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error) {
	ctx, span := s.tracer.Start(ctx, "activity.record")
	span.SetAttributes(
		attribute.Int64("activity.user_id", int64(payload.UserID)),
		attribute.Int64("activity.course_id", int64(payload.CourseID)),
		attribute.String("activity.type", payload.ActivityType),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ActivityResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, payload.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrUserNotFound
		}
		span.RecordError(err)
		return dto.ActivityResponse{}, err
	}
	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrCourseNotFound
		}
		span.RecordError(err)
		return dto.ActivityResponse{}, err
	}

	activity := models.Activity{
		UserID:       payload.UserID,
		CourseID:     payload.CourseID,
		ActivityType: payload.ActivityType,
		ResourceRef:  payload.ResourceRef,
		Duration:     payload.Duration,
		Score:        payload.Score,
		Completed:    payload.Completed,
		Metadata:     datatypes.JSONMap(payload.Metadata),
	}
	if err := s.activities.Create(ctx, &activity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create_activity_failed")
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) GetActivity(ctx context.Context, id uint) (dto.ActivityResponse, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(activity), nil
}

// UpdateActivity applies the provided fields. The metadata map is merged key
// by key into the stored map; existing keys not named in the update survive.
func (s *activityService) UpdateActivity(ctx context.Context, id uint, payload dto.ActivityUpdateRequest) (dto.ActivityResponse, error) {
	ctx, span := s.tracer.Start(ctx, "activity.update")
	span.SetAttributes(attribute.Int64("activity.id", int64(id)))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ActivityResponse{}, err
	}

	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		span.RecordError(err)
		return dto.ActivityResponse{}, err
	}

	if payload.Duration != nil {
		activity.Duration = *payload.Duration
	}
	if payload.Score != nil {
		activity.Score = payload.Score
	}
	if payload.Completed != nil {
		activity.Completed = *payload.Completed
	}
	if len(payload.Metadata) > 0 {
		if activity.Metadata == nil {
			activity.Metadata = datatypes.JSONMap{}
		}
		for key, value := range payload.Metadata {
			activity.Metadata[key] = value
		}
	}

	if err := s.activities.Update(ctx, &activity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update_activity_failed")
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) DeleteActivity(ctx context.Context, id uint) error {
	if _, err := s.activities.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return err
	}
	return s.activities.Delete(ctx, id)
}

func (s *activityService) ListActivities(ctx context.Context, filter repository.ActivityFilter) ([]dto.ActivityResponse, error) {
	activities, err := s.activities.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewActivityResponseSlice(activities), nil
}
