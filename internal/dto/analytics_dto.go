package dto

import "time"

// Progress distribution band labels, in ascending order. Upper edges are
// inclusive: a value of exactly 20 falls into the first band.
var ProgressBands = []string{"0-20%", "21-40%", "41-60%", "61-80%", "81-100%"}

// CourseActivityProgress summarizes a user's activity completion in one course.
type CourseActivityProgress struct {
	CourseID            uint    `json:"course_id"`
	CourseTitle         string  `json:"course_title"`
	TotalActivities     int64   `json:"total_activities"`
	CompletedActivities int64   `json:"completed_activities"`
	ProgressPercent     float64 `json:"progress_percent"`
}

// UserAnalyticsResponse aggregates a single user's learning statistics.
type UserAnalyticsResponse struct {
	UserID              uint                     `json:"user_id"`
	TotalDuration       int64                    `json:"total_duration"`
	TotalActivities     int64                    `json:"total_activities"`
	CompletedActivities int64                    `json:"completed_activities"`
	AverageScore        float64                  `json:"avg_score"`
	CourseProgress      []CourseActivityProgress `json:"course_progress"`
	RecentActivities    []ActivityResponse       `json:"recent_activities"`
	GeneratedAt         time.Time                `json:"generated_at"`
	CacheHit            bool                     `json:"cache_hit"`
}

// ActiveStudent is one entry of the most-active-students ranking.
type ActiveStudent struct {
	UserID        uint   `json:"user_id"`
	Username      string `json:"username"`
	ActivityCount int64  `json:"activity_count"`
}

// AssignmentAnalytics reports submission statistics for one assignment.
type AssignmentAnalytics struct {
	AssignmentID   uint    `json:"assignment_id"`
	Title          string  `json:"title"`
	SubmissionRate float64 `json:"submission_rate"`
	AverageGrade   float64 `json:"avg_grade"`
}

// CourseAnalyticsResponse aggregates statistics for one course.
type CourseAnalyticsResponse struct {
	CourseID             uint                  `json:"course_id"`
	StudentCount         int64                 `json:"student_count"`
	ActivityCount        int64                 `json:"activity_count"`
	CompletionRate       float64               `json:"completion_rate"`
	AverageScore         float64               `json:"avg_score"`
	ActiveStudents       []ActiveStudent       `json:"active_students"`
	ActivityTypes        map[string]int64      `json:"activity_types"`
	ProgressDistribution map[string]int64      `json:"progress_distribution"`
	Assignments          []AssignmentAnalytics `json:"assignments"`
	GeneratedAt          time.Time             `json:"generated_at"`
	CacheHit             bool                  `json:"cache_hit"`
}

// TrendPoint is one day of the activity trend. Days without activity are not
// emitted; consumers backfill zeros when charting.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ActivityCounts splits activity totals by completion.
type ActivityCounts struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
}

// SystemOverviewResponse aggregates platform-wide statistics.
type SystemOverviewResponse struct {
	UserCounts     map[string]int64 `json:"user_counts"`
	CourseCounts   map[string]int64 `json:"course_counts"`
	ActivityCounts ActivityCounts   `json:"activity_counts"`
	ActivityTrend  []TrendPoint     `json:"activity_trend"`
	GeneratedAt    time.Time        `json:"generated_at"`
	CacheHit       bool             `json:"cache_hit"`
}

// StudentPerformance is one student's row of the class performance report.
type StudentPerformance struct {
	UserID          uint    `json:"user_id"`
	Username        string  `json:"username"`
	ProgressPercent float64 `json:"progress_percent"`
	AverageScore    float64 `json:"avg_score"`
	CompletionRate  float64 `json:"completion_rate"`
	ActivityCount   int64   `json:"activity_count"`
}

// SummaryStats carries descriptive statistics over one metric.
type SummaryStats struct {
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// ClassPerformanceResponse is the per-course class performance report.
type ClassPerformanceResponse struct {
	CourseID        uint                 `json:"course_id"`
	Students        []StudentPerformance `json:"students"`
	CompletionStats SummaryStats         `json:"completion_stats"`
	ScoreStats      SummaryStats         `json:"score_stats"`
	TopByActivity   []StudentPerformance `json:"top_by_activity"`
	TopByScore      []StudentPerformance `json:"top_by_score"`
	GeneratedAt     time.Time            `json:"generated_at"`
	CacheHit        bool                 `json:"cache_hit"`
}
