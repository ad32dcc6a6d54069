package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

// DiscussionService manages course discussion topics and replies.
type DiscussionService interface {
	CreateDiscussion(ctx context.Context, courseID uint, payload dto.DiscussionCreateRequest) (dto.DiscussionResponse, error)
	GetDiscussion(ctx context.Context, id uint) (dto.DiscussionResponse, error)
	ListCourseDiscussions(ctx context.Context, courseID uint) ([]dto.DiscussionResponse, error)
	ReplyToDiscussion(ctx context.Context, discussionID uint, payload dto.DiscussionReplyCreateRequest) (dto.DiscussionReplyResponse, error)
}

type discussionService struct {
	discussions repository.DiscussionRepository
	users       repository.UserRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewDiscussionService constructs the discussion service.
func NewDiscussionService(
	discussions repository.DiscussionRepository,
	users repository.UserRepository,
	courses repository.CourseRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) DiscussionService {
	return &discussionService{
		discussions: discussions,
		users:       users,
		courses:     courses,
		validator:   validate,
		sanitizer:   bluemonday.UGCPolicy(),
		logger:      logger.With().Str("component", "discussion_service").Logger(),
	}
}

func (s *discussionService) CreateDiscussion(ctx context.Context, courseID uint, payload dto.DiscussionCreateRequest) (dto.DiscussionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiscussionResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiscussionResponse{}, ErrCourseNotFound
		}
		return dto.DiscussionResponse{}, err
	}
	if _, err := s.users.GetByID(ctx, payload.AuthorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiscussionResponse{}, ErrUserNotFound
		}
		return dto.DiscussionResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	if title == "" {
		return dto.DiscussionResponse{}, ErrEmptyAfterSanitize
	}

	discussion := models.Discussion{
		CourseID: courseID,
		AuthorID: payload.AuthorID,
		Title:    title,
		Content:  content,
	}
	if err := s.discussions.Create(ctx, &discussion); err != nil {
		return dto.DiscussionResponse{}, err
	}
	return dto.NewDiscussionResponse(discussion), nil
}

func (s *discussionService) GetDiscussion(ctx context.Context, id uint) (dto.DiscussionResponse, error) {
	discussion, err := s.discussions.GetWithReplies(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiscussionResponse{}, ErrDiscussionNotFound
		}
		return dto.DiscussionResponse{}, err
	}
	return dto.NewDiscussionResponse(discussion), nil
}

func (s *discussionService) ListCourseDiscussions(ctx context.Context, courseID uint) ([]dto.DiscussionResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	discussions, err := s.discussions.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.DiscussionResponse, 0, len(discussions))
	for _, discussion := range discussions {
		responses = append(responses, dto.NewDiscussionResponse(discussion))
	}
	return responses, nil
}

func (s *discussionService) ReplyToDiscussion(ctx context.Context, discussionID uint, payload dto.DiscussionReplyCreateRequest) (dto.DiscussionReplyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiscussionReplyResponse{}, err
	}

	if _, err := s.discussions.GetWithReplies(ctx, discussionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiscussionReplyResponse{}, ErrDiscussionNotFound
		}
		return dto.DiscussionReplyResponse{}, err
	}
	if _, err := s.users.GetByID(ctx, payload.AuthorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DiscussionReplyResponse{}, ErrUserNotFound
		}
		return dto.DiscussionReplyResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.DiscussionReplyResponse{}, ErrEmptyAfterSanitize
	}

	reply := models.DiscussionReply{
		DiscussionID: discussionID,
		AuthorID:     payload.AuthorID,
		Content:      content,
	}
	if err := s.discussions.CreateReply(ctx, &reply); err != nil {
		return dto.DiscussionReplyResponse{}, err
	}
	return dto.NewDiscussionReplyResponse(reply), nil
}
