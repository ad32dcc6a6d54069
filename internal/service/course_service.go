package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

// CourseService is the read side of the course catalog: the full content
// tree as learners see it.
type CourseService interface {
	GetCourseContent(ctx context.Context, courseID uint) (dto.CourseContentResponse, error)
}

type courseService struct {
	courses repository.CourseRepository
	logger  zerolog.Logger
}

// NewCourseService constructs the course read service.
func NewCourseService(courses repository.CourseRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		courses: courses,
		logger:  logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) GetCourseContent(ctx context.Context, courseID uint) (dto.CourseContentResponse, error) {
	course, err := s.courses.GetWithContent(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseContentResponse{}, ErrCourseNotFound
		}
		return dto.CourseContentResponse{}, err
	}
	return dto.NewCourseContentResponse(course), nil
}
