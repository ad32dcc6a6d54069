package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

func TestAnalyticsRepositoryAggregates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnalyticsRepository(db)

	score90 := 90.0
	score70 := 70.0
	activities := []models.Activity{
		{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeVideoWatch, Duration: 300, Completed: true, Score: &score90},
		{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeQuiz, Duration: 120, Completed: false, Score: &score70},
		{UserID: 1, CourseID: 2, ActivityType: models.ActivityTypeQuiz, Duration: 60, Completed: true},
		{UserID: 2, CourseID: 1, ActivityType: models.ActivityTypeQuiz, Duration: 500, Completed: true},
	}
	for i := range activities {
		require.NoError(t, db.Create(&activities[i]).Error)
	}

	total, err := repo.SumActivityDuration(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(480), total)

	userID := uint(1)
	avg, err := repo.AverageActivityScore(context.Background(), ActivityFilter{UserID: &userID})
	require.NoError(t, err)
	require.InDelta(t, 80.0, avg, 1e-9)

	// no scored rows at all
	noScores := uint(3)
	avg, err = repo.AverageActivityScore(context.Background(), ActivityFilter{UserID: &noScores})
	require.NoError(t, err)
	require.Zero(t, avg)

	completed := true
	count, err := repo.CountActivities(context.Background(), ActivityFilter{UserID: &userID, Completed: &completed})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	recent, err := repo.ListRecentActivities(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
}

func TestAnalyticsRepositoryDailyTrend(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnalyticsRepository(db)

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	old := now.AddDate(0, 0, -45)

	rows := []models.Activity{
		{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeQuiz, CreatedAt: now},
		{UserID: 1, CourseID: 1, ActivityType: models.ActivityTypeQuiz, CreatedAt: now},
		{UserID: 2, CourseID: 1, ActivityType: models.ActivityTypeQuiz, CreatedAt: yesterday},
		{UserID: 2, CourseID: 1, ActivityType: models.ActivityTypeQuiz, CreatedAt: old},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	trend, err := repo.CountActivitiesSinceByDay(context.Background(), now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, trend, 2, "days without activity are not emitted")
	require.Equal(t, int64(1), trend[0].Count)
	require.Equal(t, int64(2), trend[1].Count)
}
