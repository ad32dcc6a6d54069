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
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

// EnrollmentService manages course membership. Enrolling seeds a zeroed
// course progress row so progress listings never have gaps; withdrawing
// removes the progress row with the enrollment.
type EnrollmentService interface {
	Enroll(ctx context.Context, payload dto.EnrollmentRequest) (dto.EnrollmentResponse, error)
	Withdraw(ctx context.Context, userID, courseID uint) error
	ListUserCourses(ctx context.Context, userID uint) ([]dto.EnrolledCourseResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	users       repository.UserRepository
	courses     repository.CourseRepository
	progress    repository.ProgressRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(
	enrollments repository.EnrollmentRepository,
	users repository.UserRepository,
	courses repository.CourseRepository,
	progress repository.ProgressRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		users:       users,
		courses:     courses,
		progress:    progress,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		tracer:      otel.Tracer("github.com/learnhub-io/learnhub-api/internal/service/enrollment"),
		now:         time.Now,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, payload dto.EnrollmentRequest) (dto.EnrollmentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "enrollment.enroll")
	span.SetAttributes(
		attribute.Int64("enrollment.user_id", int64(payload.UserID)),
		attribute.Int64("enrollment.course_id", int64(payload.CourseID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, payload.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrUserNotFound
		}
		span.RecordError(err)
		return dto.EnrollmentResponse{}, err
	}
	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		span.RecordError(err)
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.enrollments.GetByUserAndCourse(ctx, payload.UserID, payload.CourseID); err == nil {
		span.RecordError(ErrAlreadyEnrolled)
		span.SetStatus(codes.Error, "already_enrolled")
		return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		return dto.EnrollmentResponse{}, err
	}

	enrollment := models.Enrollment{
		UserID:     payload.UserID,
		CourseID:   payload.CourseID,
		EnrolledAt: s.now(),
	}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create_enrollment_failed")
		return dto.EnrollmentResponse{}, err
	}

	seed := models.CourseProgress{
		UserID:         payload.UserID,
		CourseID:       payload.CourseID,
		LastActivityAt: s.now(),
	}
	if err := s.progress.SaveCourseProgress(ctx, &seed); err != nil {
		s.logger.Warn().Err(err).
			Uint("user_id", payload.UserID).
			Uint("course_id", payload.CourseID).
			Msg("failed to seed course progress row")
		span.RecordError(err)
	}

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Withdraw(ctx context.Context, userID, courseID uint) error {
	ctx, span := s.tracer.Start(ctx, "enrollment.withdraw")
	span.SetAttributes(
		attribute.Int64("enrollment.user_id", int64(userID)),
		attribute.Int64("enrollment.course_id", int64(courseID)),
	)
	defer span.End()

	if _, err := s.enrollments.GetByUserAndCourse(ctx, userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		span.RecordError(err)
		return err
	}

	if err := s.enrollments.Delete(ctx, userID, courseID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete_enrollment_failed")
		return err
	}
	if err := s.progress.DeleteCourseProgress(ctx, userID, courseID); err != nil {
		s.logger.Warn().Err(err).
			Uint("user_id", userID).
			Uint("course_id", courseID).
			Msg("failed to delete course progress row")
		span.RecordError(err)
	}
	return nil
}

// ListUserCourses lists the user's enrollments annotated with the cached
// progress percent. Courses without a progress row report zero.
func (s *enrollmentService) ListUserCourses(ctx context.Context, userID uint) ([]dto.EnrolledCourseResponse, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses := make([]dto.EnrolledCourseResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entry := dto.EnrolledCourseResponse{
			CourseID:   enrollment.CourseID,
			Title:      enrollment.Course.Title,
			Status:     enrollment.Course.Status,
			EnrolledAt: enrollment.EnrolledAt,
		}
		if progress, err := s.progress.GetCourseProgress(ctx, userID, enrollment.CourseID); err == nil {
			entry.Progress = progress.ProgressPercent
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		courses = append(courses, entry)
	}
	return courses, nil
}
