package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

type fakeActivityRepo struct {
	activities map[uint]models.Activity
	nextID     uint
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{activities: map[uint]models.Activity{}}
}

func (f *fakeActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	f.nextID++
	activity.ID = f.nextID
	f.activities[activity.ID] = *activity
	return nil
}

func (f *fakeActivityRepo) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	activity, ok := f.activities[id]
	if !ok {
		return models.Activity{}, gorm.ErrRecordNotFound
	}
	return activity, nil
}

func (f *fakeActivityRepo) Update(ctx context.Context, activity *models.Activity) error {
	f.activities[activity.ID] = *activity
	return nil
}

func (f *fakeActivityRepo) Delete(ctx context.Context, id uint) error {
	delete(f.activities, id)
	return nil
}

func (f *fakeActivityRepo) List(ctx context.Context, filter repository.ActivityFilter) ([]models.Activity, error) {
	var result []models.Activity
	for _, activity := range f.activities {
		if filter.UserID != nil && activity.UserID != *filter.UserID {
			continue
		}
		if filter.CourseID != nil && activity.CourseID != *filter.CourseID {
			continue
		}
		if filter.ActivityType != nil && activity.ActivityType != *filter.ActivityType {
			continue
		}
		if filter.Completed != nil && activity.Completed != *filter.Completed {
			continue
		}
		result = append(result, activity)
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func newActivityFixture() (*fakeActivityRepo, ActivityService) {
	users := newFakeUserRepo(models.User{ID: 1, Username: "alice", Role: models.UserRoleStudent})
	courses := newFakeCourseRepo(models.Course{ID: 10, Title: "Go Basics", Status: models.CourseStatusActive})
	activities := newFakeActivityRepo()

	svc := NewActivityService(activities, users, courses, testValidator(), testLogger())
	return activities, svc
}

func TestRecordActivityValidatesType(t *testing.T) {
	_, svc := newActivityFixture()

	_, err := svc.RecordActivity(context.Background(), dto.ActivityCreateRequest{
		UserID:       1,
		CourseID:     10,
		ActivityType: "bogus",
	})
	require.Error(t, err)

	response, err := svc.RecordActivity(context.Background(), dto.ActivityCreateRequest{
		UserID:       1,
		CourseID:     10,
		ActivityType: models.ActivityTypeVideoWatch,
		Duration:     120,
	})
	require.NoError(t, err)
	require.Equal(t, models.ActivityTypeVideoWatch, response.ActivityType)
	require.Equal(t, 120, response.Duration)
}

func TestUpdateActivityMergesMetadata(t *testing.T) {
	_, svc := newActivityFixture()

	created, err := svc.RecordActivity(context.Background(), dto.ActivityCreateRequest{
		UserID:       1,
		CourseID:     10,
		ActivityType: models.ActivityTypeQuiz,
		Metadata:     map[string]interface{}{"attempt": 1, "browser": "firefox"},
	})
	require.NoError(t, err)

	completed := true
	updated, err := svc.UpdateActivity(context.Background(), created.ID, dto.ActivityUpdateRequest{
		Completed: &completed,
		Metadata:  map[string]interface{}{"attempt": 2},
	})
	require.NoError(t, err)
	require.True(t, updated.Completed)
	require.Equal(t, 2, updated.Metadata["attempt"])
	require.Equal(t, "firefox", updated.Metadata["browser"])
}

func TestDeleteActivityUnknownID(t *testing.T) {
	_, svc := newActivityFixture()

	require.ErrorIs(t, svc.DeleteActivity(context.Background(), 999), ErrActivityNotFound)
}

func TestListActivitiesFilters(t *testing.T) {
	_, svc := newActivityFixture()

	for _, activityType := range []string{models.ActivityTypeQuiz, models.ActivityTypeVideoWatch, models.ActivityTypeQuiz} {
		_, err := svc.RecordActivity(context.Background(), dto.ActivityCreateRequest{
			UserID:       1,
			CourseID:     10,
			ActivityType: activityType,
		})
		require.NoError(t, err)
	}

	quiz := models.ActivityTypeQuiz
	result, err := svc.ListActivities(context.Background(), repository.ActivityFilter{ActivityType: &quiz})
	require.NoError(t, err)
	require.Len(t, result, 2)
}
