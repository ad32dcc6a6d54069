package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
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

const (
	recentActivityLimit = 5
	activeStudentLimit  = 5
	topPerformerLimit   = 10
	trendWindowDays     = 30
)

// AnalyticsService aggregates activity, progress, and grade data into
// dashboard rollups. Responses are cached in redis for a short TTL; the
// CacheHit flag tells callers whether they got a cached copy.
type AnalyticsService interface {
	GetUserAnalytics(ctx context.Context, userID uint) (dto.UserAnalyticsResponse, error)
	GetCourseAnalytics(ctx context.Context, courseID uint) (dto.CourseAnalyticsResponse, error)
	GetSystemOverview(ctx context.Context) (dto.SystemOverviewResponse, error)
	GetClassPerformance(ctx context.Context, courseID uint) (dto.ClassPerformanceResponse, error)
}

type analyticsService struct {
	analytics   repository.AnalyticsRepository
	users       repository.UserRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	progress    repository.ProgressRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewAnalyticsService constructs the analytics service. cache may be nil to
// disable response caching.
func NewAnalyticsService(
	analytics repository.AnalyticsRepository,
	users repository.UserRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	progress repository.ProgressRepository,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) AnalyticsService {
	return &analyticsService{
		analytics:   analytics,
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		progress:    progress,
		assignments: assignments,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "analytics_service").Logger(),
		tracer:      otel.Tracer("github.com/learnhub-io/learnhub-api/internal/service/analytics"),
		now:         time.Now,
	}
}

func (s *analyticsService) GetUserAnalytics(ctx context.Context, userID uint) (dto.UserAnalyticsResponse, error) {
	cacheKey := fmt.Sprintf("analytics:user:%d", userID)
	ctx, span := s.tracer.Start(ctx, "analytics.user")
	span.SetAttributes(
		attribute.Int64("analytics.user_id", int64(userID)),
		attribute.String("analytics.cache_key", cacheKey),
	)
	defer span.End()

	if cached, ok := readCached[dto.UserAnalyticsResponse](ctx, s, cacheKey, span); ok {
		cached.CacheHit = true
		return cached, nil
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserAnalyticsResponse{}, ErrUserNotFound
		}
		span.RecordError(err)
		return dto.UserAnalyticsResponse{}, err
	}

	totalDuration, err := s.analytics.SumActivityDuration(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sum_duration_failed")
		return dto.UserAnalyticsResponse{}, err
	}

	avgScore, err := s.analytics.AverageActivityScore(ctx, repository.ActivityFilter{UserID: &userID})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "avg_score_failed")
		return dto.UserAnalyticsResponse{}, err
	}

	activities, err := s.analytics.ListUserActivities(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_activities_failed")
		return dto.UserAnalyticsResponse{}, err
	}

	recent, err := s.analytics.ListRecentActivities(ctx, userID, recentActivityLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recent_activities_failed")
		return dto.UserAnalyticsResponse{}, err
	}

	response := dto.UserAnalyticsResponse{
		UserID:           userID,
		TotalDuration:    totalDuration,
		TotalActivities:  int64(len(activities)),
		AverageScore:     avgScore,
		CourseProgress:   s.buildCourseActivityProgress(ctx, activities),
		RecentActivities: dto.NewActivityResponseSlice(recent),
		GeneratedAt:      s.now(),
	}
	for _, activity := range activities {
		if activity.Completed {
			response.CompletedActivities++
		}
	}

	span.SetAttributes(attribute.Int64("analytics.total_activities", response.TotalActivities))
	s.storeCached(ctx, cacheKey, response, span)
	return response, nil
}

func (s *analyticsService) GetCourseAnalytics(ctx context.Context, courseID uint) (dto.CourseAnalyticsResponse, error) {
	cacheKey := fmt.Sprintf("analytics:course:%d", courseID)
	ctx, span := s.tracer.Start(ctx, "analytics.course")
	span.SetAttributes(
		attribute.Int64("analytics.course_id", int64(courseID)),
		attribute.String("analytics.cache_key", cacheKey),
	)
	defer span.End()

	if cached, ok := readCached[dto.CourseAnalyticsResponse](ctx, s, cacheKey, span); ok {
		cached.CacheHit = true
		return cached, nil
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseAnalyticsResponse{}, ErrCourseNotFound
		}
		span.RecordError(err)
		return dto.CourseAnalyticsResponse{}, err
	}

	studentCount, err := s.enrollments.CountByCourse(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		return dto.CourseAnalyticsResponse{}, err
	}

	activities, err := s.analytics.ListCourseActivities(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_activities_failed")
		return dto.CourseAnalyticsResponse{}, err
	}

	avgScore, err := s.analytics.AverageActivityScore(ctx, repository.ActivityFilter{CourseID: &courseID})
	if err != nil {
		span.RecordError(err)
		return dto.CourseAnalyticsResponse{}, err
	}

	progressRows, err := s.progress.ListCourseProgress(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		return dto.CourseAnalyticsResponse{}, err
	}

	assignmentStats, err := s.buildAssignmentAnalytics(ctx, courseID, studentCount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assignment_analytics_failed")
		return dto.CourseAnalyticsResponse{}, err
	}

	completed := int64(0)
	typeCounts := map[string]int64{}
	perUser := map[uint]int64{}
	for _, activity := range activities {
		if activity.Completed {
			completed++
		}
		typeCounts[activity.ActivityType]++
		perUser[activity.UserID]++
	}

	response := dto.CourseAnalyticsResponse{
		CourseID:             courseID,
		StudentCount:         studentCount,
		ActivityCount:        int64(len(activities)),
		CompletionRate:       safeRate(completed, int64(len(activities))),
		AverageScore:         avgScore,
		ActiveStudents:       s.rankActiveStudents(ctx, perUser),
		ActivityTypes:        typeCounts,
		ProgressDistribution: bucketProgress(progressRows),
		Assignments:          assignmentStats,
		GeneratedAt:          s.now(),
	}

	span.SetAttributes(
		attribute.Int64("analytics.student_count", studentCount),
		attribute.Int("analytics.activity_count", len(activities)),
	)
	s.storeCached(ctx, cacheKey, response, span)
	return response, nil
}

func (s *analyticsService) GetSystemOverview(ctx context.Context) (dto.SystemOverviewResponse, error) {
	const cacheKey = "analytics:system"
	ctx, span := s.tracer.Start(ctx, "analytics.system")
	span.SetAttributes(attribute.String("analytics.cache_key", cacheKey))
	defer span.End()

	if cached, ok := readCached[dto.SystemOverviewResponse](ctx, s, cacheKey, span); ok {
		cached.CacheHit = true
		return cached, nil
	}

	userCounts, err := s.users.CountByRole(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_users_failed")
		return dto.SystemOverviewResponse{}, err
	}

	courseCounts, err := s.courses.CountByStatus(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_courses_failed")
		return dto.SystemOverviewResponse{}, err
	}

	totalActivities, err := s.analytics.CountActivities(ctx, repository.ActivityFilter{})
	if err != nil {
		span.RecordError(err)
		return dto.SystemOverviewResponse{}, err
	}

	completedFilter := true
	completedActivities, err := s.analytics.CountActivities(ctx, repository.ActivityFilter{Completed: &completedFilter})
	if err != nil {
		span.RecordError(err)
		return dto.SystemOverviewResponse{}, err
	}

	since := s.now().AddDate(0, 0, -trendWindowDays)
	daily, err := s.analytics.CountActivitiesSinceByDay(ctx, since)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "activity_trend_failed")
		return dto.SystemOverviewResponse{}, err
	}

	trend := make([]dto.TrendPoint, 0, len(daily))
	for _, row := range daily {
		trend = append(trend, dto.TrendPoint{Date: row.Day, Count: row.Count})
	}

	response := dto.SystemOverviewResponse{
		UserCounts:   userCounts,
		CourseCounts: courseCounts,
		ActivityCounts: dto.ActivityCounts{
			Total:     totalActivities,
			Completed: completedActivities,
		},
		ActivityTrend: trend,
		GeneratedAt:   s.now(),
	}

	span.SetAttributes(attribute.Int64("analytics.total_activities", totalActivities))
	s.storeCached(ctx, cacheKey, response, span)
	return response, nil
}

func (s *analyticsService) GetClassPerformance(ctx context.Context, courseID uint) (dto.ClassPerformanceResponse, error) {
	cacheKey := fmt.Sprintf("analytics:class:%d", courseID)
	ctx, span := s.tracer.Start(ctx, "analytics.class_performance")
	span.SetAttributes(
		attribute.Int64("analytics.course_id", int64(courseID)),
		attribute.String("analytics.cache_key", cacheKey),
	)
	defer span.End()

	if cached, ok := readCached[dto.ClassPerformanceResponse](ctx, s, cacheKey, span); ok {
		cached.CacheHit = true
		return cached, nil
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassPerformanceResponse{}, ErrCourseNotFound
		}
		span.RecordError(err)
		return dto.ClassPerformanceResponse{}, err
	}

	enrollments, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		return dto.ClassPerformanceResponse{}, err
	}

	progressRows, err := s.progress.ListCourseProgress(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		return dto.ClassPerformanceResponse{}, err
	}
	progressByUser := make(map[uint]models.CourseProgress, len(progressRows))
	for _, row := range progressRows {
		progressByUser[row.UserID] = row
	}

	activities, err := s.analytics.ListCourseActivities(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_activities_failed")
		return dto.ClassPerformanceResponse{}, err
	}

	type userAgg struct {
		total     int64
		completed int64
		scoreSum  float64
		scored    int64
	}
	aggregates := map[uint]*userAgg{}
	for _, activity := range activities {
		agg, ok := aggregates[activity.UserID]
		if !ok {
			agg = &userAgg{}
			aggregates[activity.UserID] = agg
		}
		agg.total++
		if activity.Completed {
			agg.completed++
		}
		if activity.Score != nil {
			agg.scoreSum += *activity.Score
			agg.scored++
		}
	}

	students := make([]dto.StudentPerformance, 0, len(enrollments))
	completionValues := make([]float64, 0, len(enrollments))
	scoreValues := make([]float64, 0, len(enrollments))
	for _, enrollment := range enrollments {
		row := dto.StudentPerformance{
			UserID:   enrollment.UserID,
			Username: enrollment.User.Username,
		}
		if progress, ok := progressByUser[enrollment.UserID]; ok {
			row.ProgressPercent = progress.ProgressPercent
		}
		if agg, ok := aggregates[enrollment.UserID]; ok {
			row.ActivityCount = agg.total
			row.CompletionRate = safeRate(agg.completed, agg.total)
			if agg.scored > 0 {
				row.AverageScore = agg.scoreSum / float64(agg.scored)
			}
		}
		students = append(students, row)
		completionValues = append(completionValues, row.ProgressPercent)
		scoreValues = append(scoreValues, row.AverageScore)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].UserID < students[j].UserID })

	response := dto.ClassPerformanceResponse{
		CourseID:        courseID,
		Students:        students,
		CompletionStats: summarize(completionValues),
		ScoreStats:      summarize(scoreValues),
		TopByActivity: topStudents(students, topPerformerLimit, func(a, b dto.StudentPerformance) bool {
			if a.ActivityCount != b.ActivityCount {
				return a.ActivityCount > b.ActivityCount
			}
			return a.UserID < b.UserID
		}),
		TopByScore: topStudents(students, topPerformerLimit, func(a, b dto.StudentPerformance) bool {
			if a.AverageScore != b.AverageScore {
				return a.AverageScore > b.AverageScore
			}
			return a.UserID < b.UserID
		}),
		GeneratedAt: s.now(),
	}

	span.SetAttributes(attribute.Int("analytics.student_count", len(students)))
	s.storeCached(ctx, cacheKey, response, span)
	return response, nil
}

// buildCourseActivityProgress groups a user's activities by course. Courses
// that fail to load keep their counts but lose the title.
func (s *analyticsService) buildCourseActivityProgress(ctx context.Context, activities []models.Activity) []dto.CourseActivityProgress {
	type courseAgg struct {
		total     int64
		completed int64
	}
	byCourse := map[uint]*courseAgg{}
	for _, activity := range activities {
		agg, ok := byCourse[activity.CourseID]
		if !ok {
			agg = &courseAgg{}
			byCourse[activity.CourseID] = agg
		}
		agg.total++
		if activity.Completed {
			agg.completed++
		}
	}

	courseIDs := make([]uint, 0, len(byCourse))
	for id := range byCourse {
		courseIDs = append(courseIDs, id)
	}
	sort.Slice(courseIDs, func(i, j int) bool { return courseIDs[i] < courseIDs[j] })

	result := make([]dto.CourseActivityProgress, 0, len(courseIDs))
	for _, id := range courseIDs {
		agg := byCourse[id]
		entry := dto.CourseActivityProgress{
			CourseID:            id,
			TotalActivities:     agg.total,
			CompletedActivities: agg.completed,
			ProgressPercent:     safeRate(agg.completed, agg.total),
		}
		if course, err := s.courses.GetByID(ctx, id); err == nil {
			entry.CourseTitle = course.Title
		} else {
			s.logger.Warn().Err(err).Uint("course_id", id).Msg("failed to resolve course title")
		}
		result = append(result, entry)
	}
	return result
}

func (s *analyticsService) buildAssignmentAnalytics(ctx context.Context, courseID uint, studentCount int64) ([]dto.AssignmentAnalytics, error) {
	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.AssignmentAnalytics, 0, len(assignments))
	for _, assignment := range assignments {
		submissions, err := s.submissions.ListByAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, err
		}

		stats := dto.AssignmentAnalytics{
			AssignmentID:   assignment.ID,
			Title:          assignment.Title,
			SubmissionRate: safeRate(int64(len(submissions)), studentCount),
		}
		gradeSum := 0.0
		graded := int64(0)
		for _, submission := range submissions {
			if submission.Grade != nil {
				gradeSum += *submission.Grade
				graded++
			}
		}
		if graded > 0 {
			stats.AverageGrade = gradeSum / float64(graded)
		}
		result = append(result, stats)
	}
	return result, nil
}

// rankActiveStudents returns the top activity producers, count descending
// with user ID as the tie-breaker. Usernames that fail to resolve stay empty.
func (s *analyticsService) rankActiveStudents(ctx context.Context, perUser map[uint]int64) []dto.ActiveStudent {
	ranking := make([]dto.ActiveStudent, 0, len(perUser))
	for userID, count := range perUser {
		ranking = append(ranking, dto.ActiveStudent{UserID: userID, ActivityCount: count})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].ActivityCount != ranking[j].ActivityCount {
			return ranking[i].ActivityCount > ranking[j].ActivityCount
		}
		return ranking[i].UserID < ranking[j].UserID
	})
	if len(ranking) > activeStudentLimit {
		ranking = ranking[:activeStudentLimit]
	}

	for i := range ranking {
		if user, err := s.users.GetByID(ctx, ranking[i].UserID); err == nil {
			ranking[i].Username = user.Username
		}
	}
	return ranking
}

func readCached[T any](ctx context.Context, s *analyticsService, key string, span trace.Span) (T, bool) {
	var zero T
	if s.cache == nil {
		return zero, false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to read analytics cache")
			span.RecordError(err)
		}
		return zero, false
	}

	var response T
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		return zero, false
	}
	span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
	return response, true
}

func (s *analyticsService) storeCached(ctx context.Context, key string, response any, span trace.Span) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to store analytics cache")
		span.RecordError(err)
	}
}

// bucketProgress counts progress rows into the five distribution bands.
// Bands are always present in the result, even when empty.
func bucketProgress(rows []models.CourseProgress) map[string]int64 {
	buckets := make(map[string]int64, len(dto.ProgressBands))
	for _, band := range dto.ProgressBands {
		buckets[band] = 0
	}
	for _, row := range rows {
		buckets[progressBand(row.ProgressPercent)]++
	}
	return buckets
}

// progressBand maps a percentage onto its distribution band. Upper edges are
// inclusive, so exactly 20 lands in the first band and 21 in the second.
func progressBand(percent float64) string {
	switch {
	case percent <= 20:
		return dto.ProgressBands[0]
	case percent <= 40:
		return dto.ProgressBands[1]
	case percent <= 60:
		return dto.ProgressBands[2]
	case percent <= 80:
		return dto.ProgressBands[3]
	default:
		return dto.ProgressBands[4]
	}
}

// safeRate returns completed/total as a percentage, 0 when total is zero.
func safeRate(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func summarize(values []float64) dto.SummaryStats {
	if len(values) == 0 {
		return dto.SummaryStats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, value := range sorted {
		sum += value
	}

	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	return dto.SummaryStats{
		Mean:   sum / float64(len(sorted)),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: median,
	}
}

func topStudents(students []dto.StudentPerformance, limit int, less func(a, b dto.StudentPerformance) bool) []dto.StudentPerformance {
	ranked := make([]dto.StudentPerformance, len(students))
	copy(ranked, students)
	sort.Slice(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
