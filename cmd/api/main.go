package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/config"
	"github.com/learnhub-io/learnhub-api/internal/database"
	"github.com/learnhub-io/learnhub-api/internal/events"
	"github.com/learnhub-io/learnhub-api/internal/handler"
	"github.com/learnhub-io/learnhub-api/internal/middleware"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
	"github.com/learnhub-io/learnhub-api/internal/router"
	"github.com/learnhub-io/learnhub-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.CourseSection{},
		&models.CourseResource{},
		&models.Enrollment{},
		&models.Activity{},
		&models.Assignment{},
		&models.AssignmentSubmission{},
		&models.ResourceProgress{},
		&models.CourseProgress{},
		&models.GradeSetting{},
		&models.StudentGrade{},
		&models.Review{},
		&models.Discussion{},
		&models.DiscussionReply{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, analytics responses will not be cached")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, derived-record events disabled")
		natsConn = nil
	} else {
		defer natsConn.Close()
	}
	publisher := events.NewPublisher(natsConn, cfg.EventPrefix, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)

	courseService := service.NewCourseService(courseRepo, logger)
	progressService := service.NewProgressService(progressRepo, courseRepo, assignmentRepo, submissionRepo, userRepo, publisher, validate, logger)
	gradeService := service.NewGradeService(gradeRepo, courseRepo, userRepo, enrollmentRepo, publisher, validate, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, userRepo, courseRepo, enrollmentRepo, progressRepo, assignmentRepo, submissionRepo, redisClient, cfg.AnalyticsCacheTTL, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, userRepo, progressService, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, userRepo, courseRepo, progressRepo, validate, logger)
	activityService := service.NewActivityService(activityRepo, userRepo, courseRepo, validate, logger)
	reviewService := service.NewReviewService(reviewRepo, userRepo, courseRepo, validate, logger)
	discussionService := service.NewDiscussionService(discussionRepo, userRepo, courseRepo, validate, logger)

	deps := router.Dependencies{
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		ProgressHandler:   handler.NewProgressHandler(progressService, logger),
		GradeHandler:      handler.NewGradeHandler(gradeService, logger),
		AnalyticsHandler:  handler.NewAnalyticsHandler(analyticsService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, logger),
		ReviewHandler:     handler.NewReviewHandler(reviewService, logger),
		DiscussionHandler: handler.NewDiscussionHandler(discussionService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, deps)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
