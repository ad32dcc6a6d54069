package service

import (
	"context"
	"errors"
	"math"
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
	"github.com/learnhub-io/learnhub-api/internal/events"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

// weightSumTolerance is the allowed deviation of the weight sum from 100.
const weightSumTolerance = 0.01

// GradeService computes and stores weighted course totals.
type GradeService interface {
	GetGradeSetting(ctx context.Context, courseID uint) (dto.GradeSettingResponse, error)
	SetGradeSetting(ctx context.Context, courseID uint, payload dto.GradeSettingRequest) (dto.GradeSettingResponse, error)
	GetStudentGrade(ctx context.Context, userID, courseID uint) (dto.StudentGradeResponse, error)
	UpsertStudentGrade(ctx context.Context, userID, courseID uint, payload dto.StudentGradeUpsertRequest) (dto.StudentGradeResponse, error)
	RecomputeAllForCourse(ctx context.Context, courseID uint) (int, error)
	BatchUpsertGrades(ctx context.Context, courseID uint, payload dto.BatchGradeUpsertRequest) (dto.BatchGradeResult, error)
	GetCourseGrades(ctx context.Context, courseID uint) (dto.GradeSheetResponse, error)
}

type gradeService struct {
	grades      repository.GradeRepository
	courses     repository.CourseRepository
	users       repository.UserRepository
	enrollments repository.EnrollmentRepository
	publisher   *events.Publisher
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewGradeService constructs the grade calculator.
func NewGradeService(
	grades repository.GradeRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	enrollments repository.EnrollmentRepository,
	publisher *events.Publisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) GradeService {
	return &gradeService{
		grades:      grades,
		courses:     courses,
		users:       users,
		enrollments: enrollments,
		publisher:   publisher,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "grade_service").Logger(),
		tracer:      otel.Tracer("github.com/learnhub-io/learnhub-api/internal/service/grade"),
		now:         time.Now,
	}
}

// GetGradeSetting returns the stored setting, or the 60/40 default when none
// has been configured for the course.
func (s *gradeService) GetGradeSetting(ctx context.Context, courseID uint) (dto.GradeSettingResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return dto.GradeSettingResponse{}, s.courseNotFound(err)
	}

	setting, err := s.effectiveSetting(ctx, courseID)
	if err != nil {
		return dto.GradeSettingResponse{}, err
	}
	return dto.NewGradeSettingResponse(setting), nil
}

// SetGradeSetting validates that the weights sum to 100 (within tolerance),
// persists the setting, and recomputes every stored total for the course.
func (s *gradeService) SetGradeSetting(ctx context.Context, courseID uint, payload dto.GradeSettingRequest) (dto.GradeSettingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grade.set_setting")
	span.SetAttributes(
		attribute.Int64("grade.course_id", int64(courseID)),
		attribute.Float64("grade.final_weight", payload.FinalExamWeight),
		attribute.Float64("grade.regular_weight", payload.RegularGradeWeight),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.GradeSettingResponse{}, err
	}

	if math.Abs(payload.FinalExamWeight+payload.RegularGradeWeight-100) > weightSumTolerance {
		span.RecordError(ErrWeightSumInvalid)
		span.SetStatus(codes.Error, "weight_sum_invalid")
		return dto.GradeSettingResponse{}, ErrWeightSumInvalid
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return dto.GradeSettingResponse{}, s.courseNotFound(err)
	}

	setting, err := s.grades.GetSetting(ctx, courseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			return dto.GradeSettingResponse{}, err
		}
		setting = models.GradeSetting{CourseID: courseID}
	}

	setting.FinalExamWeight = payload.FinalExamWeight
	setting.RegularGradeWeight = payload.RegularGradeWeight
	if err := s.grades.SaveSetting(ctx, &setting); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save_setting_failed")
		return dto.GradeSettingResponse{}, err
	}

	recomputed, err := s.RecomputeAllForCourse(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recompute_failed")
		return dto.GradeSettingResponse{}, err
	}
	span.SetAttributes(attribute.Int("grade.recomputed", recomputed))

	return dto.NewGradeSettingResponse(setting), nil
}

// GetStudentGrade returns the stored grade row, or an empty row (all scores
// nil) when the student has no grade record yet.
func (s *gradeService) GetStudentGrade(ctx context.Context, userID, courseID uint) (dto.StudentGradeResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return dto.StudentGradeResponse{}, s.courseNotFound(err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return dto.StudentGradeResponse{}, s.userNotFound(err)
	}

	grade, err := s.grades.GetStudentGrade(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentGradeResponse{UserID: userID, CourseID: courseID}, nil
		}
		return dto.StudentGradeResponse{}, err
	}
	return dto.NewStudentGradeResponse(grade), nil
}

// UpsertStudentGrade applies the provided fields and recomputes the total.
// The total is nil unless both component scores are present afterwards;
// inputs are not clamped.
func (s *gradeService) UpsertStudentGrade(ctx context.Context, userID, courseID uint, payload dto.StudentGradeUpsertRequest) (dto.StudentGradeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grade.upsert")
	span.SetAttributes(
		attribute.Int64("grade.user_id", int64(userID)),
		attribute.Int64("grade.course_id", int64(courseID)),
	)
	defer span.End()

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return dto.StudentGradeResponse{}, s.courseNotFound(err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return dto.StudentGradeResponse{}, s.userNotFound(err)
	}

	setting, err := s.effectiveSetting(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		return dto.StudentGradeResponse{}, err
	}

	grade, err := s.grades.GetStudentGrade(ctx, userID, courseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			return dto.StudentGradeResponse{}, err
		}
		grade = models.StudentGrade{UserID: userID, CourseID: courseID}
	}

	if payload.FinalExamScore != nil {
		grade.FinalExamScore = payload.FinalExamScore
	}
	if payload.RegularGrade != nil {
		grade.RegularGrade = payload.RegularGrade
	}
	if payload.Comment != nil {
		grade.Comment = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Comment))
	}
	grade.TotalScore = grade.CalculateTotalScore(setting)

	if err := s.grades.SaveStudentGrade(ctx, &grade); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save_grade_failed")
		return dto.StudentGradeResponse{}, err
	}

	s.publisher.PublishGradeUpdated(events.GradeUpdated{
		UserID:     userID,
		CourseID:   courseID,
		TotalScore: grade.TotalScore,
		OccurredAt: s.now(),
	})

	return dto.NewStudentGradeResponse(grade), nil
}

// RecomputeAllForCourse reapplies the weighted-sum formula to every grade
// row of the course under its current setting. Returns the number of rows
// whose total changed.
func (s *gradeService) RecomputeAllForCourse(ctx context.Context, courseID uint) (int, error) {
	setting, err := s.effectiveSetting(ctx, courseID)
	if err != nil {
		return 0, err
	}

	rows, err := s.grades.ListByCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range rows {
		recomputed := rows[i].CalculateTotalScore(setting)
		if totalsEqual(rows[i].TotalScore, recomputed) {
			continue
		}
		rows[i].TotalScore = recomputed
		if err := s.grades.SaveStudentGrade(ctx, &rows[i]); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// BatchUpsertGrades applies several grade rows at once. Unknown students are
// collected into the failed list rather than aborting the batch.
func (s *gradeService) BatchUpsertGrades(ctx context.Context, courseID uint, payload dto.BatchGradeUpsertRequest) (dto.BatchGradeResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BatchGradeResult{}, err
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return dto.BatchGradeResult{}, s.courseNotFound(err)
	}

	result := dto.BatchGradeResult{FailedUserIDs: []uint{}}
	for _, row := range payload.Grades {
		_, err := s.UpsertStudentGrade(ctx, row.UserID, courseID, dto.StudentGradeUpsertRequest{
			FinalExamScore: row.FinalExamScore,
			RegularGrade:   row.RegularGrade,
			Comment:        row.Comment,
		})
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				result.FailedUserIDs = append(result.FailedUserIDs, row.UserID)
				continue
			}
			return result, err
		}
		result.Updated++
	}
	return result, nil
}

// GetCourseGrades builds the grade sheet: one row per enrolled student, with
// empty rows for students that have no grade record yet.
func (s *gradeService) GetCourseGrades(ctx context.Context, courseID uint) (dto.GradeSheetResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return dto.GradeSheetResponse{}, s.courseNotFound(err)
	}

	setting, err := s.effectiveSetting(ctx, courseID)
	if err != nil {
		return dto.GradeSheetResponse{}, err
	}

	enrollments, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.GradeSheetResponse{}, err
	}

	grades, err := s.grades.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.GradeSheetResponse{}, err
	}

	byUser := make(map[uint]models.StudentGrade, len(grades))
	for _, grade := range grades {
		byUser[grade.UserID] = grade
	}

	sheet := dto.GradeSheetResponse{
		CourseID: courseID,
		Grades:   make([]dto.StudentGradeResponse, 0, len(enrollments)),
		Setting:  dto.NewGradeSettingResponse(setting),
	}
	for _, enrollment := range enrollments {
		if grade, ok := byUser[enrollment.UserID]; ok {
			sheet.Grades = append(sheet.Grades, dto.NewStudentGradeResponse(grade))
			continue
		}
		empty := dto.StudentGradeResponse{UserID: enrollment.UserID, CourseID: courseID}
		if enrollment.User.ID != 0 {
			student := dto.NewUserLite(enrollment.User)
			empty.Student = &student
		}
		sheet.Grades = append(sheet.Grades, empty)
	}
	return sheet, nil
}

func (s *gradeService) effectiveSetting(ctx context.Context, courseID uint) (models.GradeSetting, error) {
	setting, err := s.grades.GetSetting(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultGradeSetting(courseID), nil
		}
		return models.GradeSetting{}, err
	}
	return setting, nil
}

func (s *gradeService) courseNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCourseNotFound
	}
	return err
}

func (s *gradeService) userNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

func totalsEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return math.Abs(*a-*b) < 1e-9
}
