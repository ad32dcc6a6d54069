package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/learnhub-io/learnhub-api/internal/config"
	"github.com/learnhub-io/learnhub-api/internal/handler"
	"github.com/learnhub-io/learnhub-api/internal/middleware"
	"github.com/learnhub-io/learnhub-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler     *handler.CourseHandler
	ProgressHandler   *handler.ProgressHandler
	GradeHandler      *handler.GradeHandler
	AnalyticsHandler  *handler.AnalyticsHandler
	SubmissionHandler *handler.SubmissionHandler
	EnrollmentHandler *handler.EnrollmentHandler
	ActivityHandler   *handler.ActivityHandler
	ReviewHandler     *handler.ReviewHandler
	DiscussionHandler *handler.DiscussionHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil. Role guards only make
	// sense when real authentication populates user_role.
	jwtMiddleware := deps.JWTMiddleware
	authEnabled := jwtMiddleware != nil
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.CourseHandler != nil {
		courses := app.Group("/api/v1/courses", jwtMiddleware)
		deps.CourseHandler.Register(courses)
	}

	if deps.ProgressHandler != nil {
		progress := app.Group("/api/v1/progress", jwtMiddleware)
		deps.ProgressHandler.Register(progress)
	}

	if deps.GradeHandler != nil {
		grades := app.Group("/api/v1/grades", jwtMiddleware)
		if authEnabled {
			grades.Use("/courses/:courseID/batch", middleware.RequireRole(middleware.AuthRoleAdmin, middleware.AuthRoleTeacher))
		}
		deps.GradeHandler.Register(grades)
	}

	if deps.AnalyticsHandler != nil {
		analytics := app.Group("/api/v1/analytics", jwtMiddleware)
		if authEnabled {
			analytics.Use("/system", middleware.RequireRole(middleware.AuthRoleAdmin))
		}
		deps.AnalyticsHandler.Register(analytics)
	}

	if deps.SubmissionHandler != nil {
		submissions := app.Group("/api/v1/submissions", jwtMiddleware, middleware.RateLimit("submissions", 30, time.Minute))
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.EnrollmentHandler != nil {
		enrollments := app.Group("/api/v1/enrollments", jwtMiddleware)
		deps.EnrollmentHandler.Register(enrollments)
	}

	if deps.ActivityHandler != nil {
		activities := app.Group("/api/v1/activities", jwtMiddleware, middleware.RateLimit("activities", 120, time.Minute))
		deps.ActivityHandler.Register(activities)
	}

	if deps.ReviewHandler != nil {
		reviews := app.Group("/api/v1/reviews", jwtMiddleware)
		deps.ReviewHandler.Register(reviews)
	}

	if deps.DiscussionHandler != nil {
		discussions := app.Group("/api/v1/discussions", jwtMiddleware)
		deps.DiscussionHandler.Register(discussions)
	}
}
