package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

type fakeAnalyticsRepo struct {
	activities []models.Activity
}

func (f *fakeAnalyticsRepo) SumActivityDuration(ctx context.Context, userID uint) (int64, error) {
	var total int64
	for _, activity := range f.activities {
		if activity.UserID == userID {
			total += int64(activity.Duration)
		}
	}
	return total, nil
}

func (f *fakeAnalyticsRepo) AverageActivityScore(ctx context.Context, filter repository.ActivityFilter) (float64, error) {
	sum := 0.0
	count := 0
	for _, activity := range f.activities {
		if activity.Score == nil {
			continue
		}
		if filter.UserID != nil && activity.UserID != *filter.UserID {
			continue
		}
		if filter.CourseID != nil && activity.CourseID != *filter.CourseID {
			continue
		}
		sum += *activity.Score
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

func (f *fakeAnalyticsRepo) CountActivities(ctx context.Context, filter repository.ActivityFilter) (int64, error) {
	var count int64
	for _, activity := range f.activities {
		if filter.UserID != nil && activity.UserID != *filter.UserID {
			continue
		}
		if filter.CourseID != nil && activity.CourseID != *filter.CourseID {
			continue
		}
		if filter.Completed != nil && activity.Completed != *filter.Completed {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeAnalyticsRepo) ListUserActivities(ctx context.Context, userID uint) ([]models.Activity, error) {
	var result []models.Activity
	for _, activity := range f.activities {
		if activity.UserID == userID {
			result = append(result, activity)
		}
	}
	return result, nil
}

func (f *fakeAnalyticsRepo) ListCourseActivities(ctx context.Context, courseID uint) ([]models.Activity, error) {
	var result []models.Activity
	for _, activity := range f.activities {
		if activity.CourseID == courseID {
			result = append(result, activity)
		}
	}
	return result, nil
}

func (f *fakeAnalyticsRepo) ListRecentActivities(ctx context.Context, userID uint, limit int) ([]models.Activity, error) {
	result, _ := f.ListUserActivities(ctx, userID)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeAnalyticsRepo) CountActivitiesSinceByDay(ctx context.Context, since time.Time) ([]repository.DailyActivityCount, error) {
	byDay := map[string]int64{}
	for _, activity := range f.activities {
		if activity.CreatedAt.Before(since) {
			continue
		}
		byDay[activity.CreatedAt.Format("2006-01-02")]++
	}
	var rows []repository.DailyActivityCount
	for day, count := range byDay {
		rows = append(rows, repository.DailyActivityCount{Day: day, Count: count})
	}
	return rows, nil
}

type analyticsFixture struct {
	analytics   *fakeAnalyticsRepo
	users       *fakeUserRepo
	courses     *fakeCourseRepo
	enrollments *fakeEnrollmentRepo
	progress    *fakeProgressRepo
	assignments *fakeAssignmentRepo
	submissions *fakeSubmissionRepo
	svc         AnalyticsService
}

func newAnalyticsFixture(t *testing.T, cache *redis.Client) *analyticsFixture {
	t.Helper()

	fixture := &analyticsFixture{
		analytics: &fakeAnalyticsRepo{},
		users: newFakeUserRepo(
			models.User{ID: 1, Username: "alice", Role: models.UserRoleStudent},
			models.User{ID: 2, Username: "bob", Role: models.UserRoleStudent},
			models.User{ID: 3, Username: "carol", Role: models.UserRoleTeacher},
		),
		courses:     newFakeCourseRepo(models.Course{ID: 10, Title: "Go Basics", Status: models.CourseStatusActive}),
		enrollments: newFakeEnrollmentRepo(),
		progress:    newFakeProgressRepo(),
	}
	fixture.assignments = newFakeAssignmentRepo()
	fixture.submissions = newFakeSubmissionRepo(fixture.assignments)
	fixture.svc = NewAnalyticsService(
		fixture.analytics,
		fixture.users,
		fixture.courses,
		fixture.enrollments,
		fixture.progress,
		fixture.assignments,
		fixture.submissions,
		cache,
		time.Minute,
		testLogger(),
	)
	return fixture
}

func TestGetUserAnalyticsAggregatesAndCaches(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	fixture := newAnalyticsFixture(t, client)
	score := 88.0
	fixture.analytics.activities = []models.Activity{
		{ID: 1, UserID: 1, CourseID: 10, ActivityType: models.ActivityTypeQuiz, Duration: 300, Score: &score, Completed: true},
		{ID: 2, UserID: 1, CourseID: 10, ActivityType: models.ActivityTypeVideoWatch, Duration: 600},
		{ID: 3, UserID: 2, CourseID: 10, ActivityType: models.ActivityTypeQuiz, Duration: 100},
	}

	response, err := fixture.svc.GetUserAnalytics(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, response.CacheHit)
	require.Equal(t, int64(900), response.TotalDuration)
	require.Equal(t, int64(2), response.TotalActivities)
	require.Equal(t, int64(1), response.CompletedActivities)
	require.InDelta(t, 88.0, response.AverageScore, 1e-9)
	require.Len(t, response.CourseProgress, 1)
	require.Equal(t, "Go Basics", response.CourseProgress[0].CourseTitle)

	// A second call is served from cache even after the data changes.
	fixture.analytics.activities = nil
	cached, err := fixture.svc.GetUserAnalytics(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.Equal(t, response.TotalDuration, cached.TotalDuration)
}

func TestGetUserAnalyticsUnknownUser(t *testing.T) {
	fixture := newAnalyticsFixture(t, nil)

	_, err := fixture.svc.GetUserAnalytics(context.Background(), 99)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetCourseAnalyticsDistributionAndRanking(t *testing.T) {
	fixture := newAnalyticsFixture(t, nil)

	require.NoError(t, fixture.enrollments.Create(context.Background(), &models.Enrollment{UserID: 1, CourseID: 10}))
	require.NoError(t, fixture.enrollments.Create(context.Background(), &models.Enrollment{UserID: 2, CourseID: 10}))

	// Band edges are inclusive: 20 stays in the first band, 21 moves up.
	require.NoError(t, fixture.progress.SaveCourseProgress(context.Background(), &models.CourseProgress{UserID: 1, CourseID: 10, ProgressPercent: 20}))
	require.NoError(t, fixture.progress.SaveCourseProgress(context.Background(), &models.CourseProgress{UserID: 2, CourseID: 10, ProgressPercent: 21}))

	fixture.analytics.activities = []models.Activity{
		{ID: 1, UserID: 1, CourseID: 10, ActivityType: models.ActivityTypeQuiz, Completed: true},
		{ID: 2, UserID: 1, CourseID: 10, ActivityType: models.ActivityTypeVideoWatch},
		{ID: 3, UserID: 2, CourseID: 10, ActivityType: models.ActivityTypeQuiz},
	}

	response, err := fixture.svc.GetCourseAnalytics(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), response.StudentCount)
	require.Equal(t, int64(3), response.ActivityCount)
	require.InDelta(t, 100.0/3, response.CompletionRate, 1e-9)
	require.Equal(t, int64(1), response.ProgressDistribution["0-20%"])
	require.Equal(t, int64(1), response.ProgressDistribution["21-40%"])
	require.Equal(t, int64(0), response.ProgressDistribution["81-100%"])
	require.Equal(t, int64(2), response.ActivityTypes[models.ActivityTypeQuiz])

	require.Len(t, response.ActiveStudents, 2)
	require.Equal(t, uint(1), response.ActiveStudents[0].UserID)
	require.Equal(t, "alice", response.ActiveStudents[0].Username)
}

func TestGetCourseAnalyticsAssignmentStats(t *testing.T) {
	fixture := newAnalyticsFixture(t, nil)

	require.NoError(t, fixture.enrollments.Create(context.Background(), &models.Enrollment{UserID: 1, CourseID: 10}))
	require.NoError(t, fixture.enrollments.Create(context.Background(), &models.Enrollment{UserID: 2, CourseID: 10}))

	fixture.assignments.assignments[200] = models.Assignment{ID: 200, CourseID: 10, Title: "Homework 1", Points: 100}
	grade := 80.0
	require.NoError(t, fixture.submissions.Save(context.Background(), &models.AssignmentSubmission{
		AssignmentID: 200, UserID: 1, Grade: &grade,
	}))

	response, err := fixture.svc.GetCourseAnalytics(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, response.Assignments, 1)
	require.InDelta(t, 50.0, response.Assignments[0].SubmissionRate, 1e-9)
	require.InDelta(t, 80.0, response.Assignments[0].AverageGrade, 1e-9)
}

func TestGetSystemOverviewCounts(t *testing.T) {
	fixture := newAnalyticsFixture(t, nil)

	now := time.Now()
	fixture.analytics.activities = []models.Activity{
		{ID: 1, UserID: 1, CourseID: 10, Completed: true, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: 2, UserID: 2, CourseID: 10, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: 3, UserID: 1, CourseID: 10, CreatedAt: now.AddDate(0, 0, -60)},
	}

	response, err := fixture.svc.GetSystemOverview(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), response.UserCounts[models.UserRoleStudent])
	require.Equal(t, int64(1), response.UserCounts[models.UserRoleTeacher])
	require.Equal(t, int64(1), response.CourseCounts[models.CourseStatusActive])
	require.Equal(t, int64(3), response.ActivityCounts.Total)
	require.Equal(t, int64(1), response.ActivityCounts.Completed)

	// The 60-day-old activity falls outside the trend window.
	var trendTotal int64
	for _, point := range response.ActivityTrend {
		trendTotal += point.Count
	}
	require.Equal(t, int64(2), trendTotal)
}

func TestGetClassPerformanceStats(t *testing.T) {
	fixture := newAnalyticsFixture(t, nil)

	require.NoError(t, fixture.enrollments.Create(context.Background(), &models.Enrollment{UserID: 1, CourseID: 10, User: models.User{ID: 1, Username: "alice"}}))
	require.NoError(t, fixture.enrollments.Create(context.Background(), &models.Enrollment{UserID: 2, CourseID: 10, User: models.User{ID: 2, Username: "bob"}}))

	require.NoError(t, fixture.progress.SaveCourseProgress(context.Background(), &models.CourseProgress{UserID: 1, CourseID: 10, ProgressPercent: 80}))
	require.NoError(t, fixture.progress.SaveCourseProgress(context.Background(), &models.CourseProgress{UserID: 2, CourseID: 10, ProgressPercent: 40}))

	highScore := 90.0
	lowScore := 70.0
	fixture.analytics.activities = []models.Activity{
		{ID: 1, UserID: 1, CourseID: 10, Score: &highScore, Completed: true},
		{ID: 2, UserID: 1, CourseID: 10, Completed: true},
		{ID: 3, UserID: 2, CourseID: 10, Score: &lowScore},
	}

	response, err := fixture.svc.GetClassPerformance(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, response.Students, 2)

	// Median over an even count averages the middle pair.
	require.InDelta(t, 60.0, response.CompletionStats.Median, 1e-9)
	require.InDelta(t, 60.0, response.CompletionStats.Mean, 1e-9)
	require.InDelta(t, 40.0, response.CompletionStats.Min, 1e-9)
	require.InDelta(t, 80.0, response.CompletionStats.Max, 1e-9)

	require.Equal(t, uint(1), response.TopByActivity[0].UserID)
	require.Equal(t, uint(1), response.TopByScore[0].UserID)
	require.Equal(t, "alice", response.TopByScore[0].Username)
	require.InDelta(t, 100.0, response.Students[0].CompletionRate, 1e-9)
}

func TestGetClassPerformanceUnknownCourse(t *testing.T) {
	fixture := newAnalyticsFixture(t, nil)

	_, err := fixture.svc.GetClassPerformance(context.Background(), 99)
	require.ErrorIs(t, err, ErrCourseNotFound)
}
