package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
)

type fakeReviewRepo struct {
	rows   map[userCourseKey]models.Review
	nextID uint
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{rows: map[userCourseKey]models.Review{}}
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *models.Review) error {
	f.nextID++
	review.ID = f.nextID
	f.rows[userCourseKey{review.UserID, review.CourseID}] = *review
	return nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, review *models.Review) error {
	f.rows[userCourseKey{review.UserID, review.CourseID}] = *review
	return nil
}

func (f *fakeReviewRepo) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (models.Review, error) {
	row, ok := f.rows[userCourseKey{userID, courseID}]
	if !ok {
		return models.Review{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeReviewRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Review, error) {
	var rows []models.Review
	for key, row := range f.rows {
		if key.courseID == courseID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeReviewRepo) AverageRating(ctx context.Context, courseID uint) (float64, error) {
	rows, _ := f.ListByCourse(ctx, courseID)
	if len(rows) == 0 {
		return 0, nil
	}
	sum := 0
	for _, row := range rows {
		sum += row.Rating
	}
	return float64(sum) / float64(len(rows)), nil
}

func newReviewFixture() ReviewService {
	users := newFakeUserRepo(
		models.User{ID: 1, Username: "alice", Role: models.UserRoleStudent},
		models.User{ID: 2, Username: "bob", Role: models.UserRoleStudent},
	)
	courses := newFakeCourseRepo(models.Course{ID: 10, Title: "Go Basics", Status: models.CourseStatusActive})
	return NewReviewService(newFakeReviewRepo(), users, courses, testValidator(), testLogger())
}

func TestCreateReviewRejectsDuplicate(t *testing.T) {
	svc := newReviewFixture()

	_, err := svc.CreateReview(context.Background(), 10, dto.ReviewCreateRequest{UserID: 1, Rating: 5})
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), 10, dto.ReviewCreateRequest{UserID: 1, Rating: 3})
	require.ErrorIs(t, err, ErrDuplicateReview)
}

func TestCreateReviewValidatesRating(t *testing.T) {
	svc := newReviewFixture()

	_, err := svc.CreateReview(context.Background(), 10, dto.ReviewCreateRequest{UserID: 1, Rating: 6})
	require.Error(t, err)

	_, err = svc.CreateReview(context.Background(), 10, dto.ReviewCreateRequest{UserID: 1, Rating: 0})
	require.Error(t, err)
}

func TestCreateReviewSanitizesComment(t *testing.T) {
	svc := newReviewFixture()

	response, err := svc.CreateReview(context.Background(), 10, dto.ReviewCreateRequest{
		UserID:  1,
		Rating:  4,
		Comment: `Great course<img src="x" onerror="alert(1)">`,
	})
	require.NoError(t, err)
	require.Equal(t, "Great course", response.Comment)
}

func TestListCourseReviewsAveragesRatings(t *testing.T) {
	svc := newReviewFixture()

	_, err := svc.CreateReview(context.Background(), 10, dto.ReviewCreateRequest{UserID: 1, Rating: 5})
	require.NoError(t, err)
	_, err = svc.CreateReview(context.Background(), 10, dto.ReviewCreateRequest{UserID: 2, Rating: 2})
	require.NoError(t, err)

	response, err := svc.ListCourseReviews(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, response.Reviews, 2)
	require.InDelta(t, 3.5, response.AverageRating, 1e-9)
}
