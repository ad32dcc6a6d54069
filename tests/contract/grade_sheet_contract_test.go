package contract_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/handler"
)

type stubGradeService struct {
	sheet dto.GradeSheetResponse
}

func (s stubGradeService) GetGradeSetting(context.Context, uint) (dto.GradeSettingResponse, error) {
	return s.sheet.Setting, nil
}

func (s stubGradeService) SetGradeSetting(context.Context, uint, dto.GradeSettingRequest) (dto.GradeSettingResponse, error) {
	return s.sheet.Setting, nil
}

func (s stubGradeService) GetStudentGrade(context.Context, uint, uint) (dto.StudentGradeResponse, error) {
	return dto.StudentGradeResponse{}, nil
}

func (s stubGradeService) UpsertStudentGrade(context.Context, uint, uint, dto.StudentGradeUpsertRequest) (dto.StudentGradeResponse, error) {
	return dto.StudentGradeResponse{}, nil
}

func (s stubGradeService) RecomputeAllForCourse(context.Context, uint) (int, error) {
	return 0, nil
}

func (s stubGradeService) BatchUpsertGrades(context.Context, uint, dto.BatchGradeUpsertRequest) (dto.BatchGradeResult, error) {
	return dto.BatchGradeResult{FailedUserIDs: []uint{}}, nil
}

func (s stubGradeService) GetCourseGrades(context.Context, uint) (dto.GradeSheetResponse, error) {
	return s.sheet, nil
}

func TestGradeSheetContract(t *testing.T) {
	schema := compileSchema(t, "grade_sheet.schema.json")

	now := time.Now().UTC()
	final := 88.0
	regular := 74.5
	total := 82.6
	svc := stubGradeService{
		sheet: dto.GradeSheetResponse{
			CourseID: 4,
			Grades: []dto.StudentGradeResponse{
				{
					ID:             11,
					UserID:         1,
					CourseID:       4,
					FinalExamScore: &final,
					RegularGrade:   &regular,
					TotalScore:     &total,
					Comment:        "steady improvement",
					UpdatedAt:      now,
				},
				{
					UserID:   2,
					CourseID: 4,
				},
			},
			Setting: dto.GradeSettingResponse{
				ID:                 3,
				CourseID:           4,
				FinalExamWeight:    60,
				RegularGradeWeight: 40,
				UpdatedAt:          now,
			},
		},
	}

	app := fiber.New()
	handler.NewGradeHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/grades"))

	payload := fetchJSON(t, app, "/api/v1/grades/courses/4")
	require.NoError(t, schema.Validate(payload))
}
