package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// DiscussionRepository defines data operations for course discussions.
type DiscussionRepository interface {
	Create(ctx context.Context, discussion *models.Discussion) error
	GetWithReplies(ctx context.Context, id uint) (models.Discussion, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Discussion, error)
	CreateReply(ctx context.Context, reply *models.DiscussionReply) error
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository instantiates the repository.
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) Create(ctx context.Context, discussion *models.Discussion) error {
	return r.db.WithContext(ctx).Create(discussion).Error
}

func (r *discussionRepository) GetWithReplies(ctx context.Context, id uint) (models.Discussion, error) {
	var discussion models.Discussion
	err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&discussion, id).Error
	if err != nil {
		return models.Discussion{}, err
	}
	return discussion, nil
}

func (r *discussionRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Discussion, error) {
	var discussions []models.Discussion
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&discussions).Error
	if err != nil {
		return nil, err
	}
	return discussions, nil
}

func (r *discussionRepository) CreateReply(ctx context.Context, reply *models.DiscussionReply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}
