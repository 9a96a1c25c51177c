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

	"github.com/anikeev-dev/gradehub-api/internal/config"
	"github.com/anikeev-dev/gradehub-api/internal/database"
	"github.com/anikeev-dev/gradehub-api/internal/handler"
	"github.com/anikeev-dev/gradehub-api/internal/middleware"
	"github.com/anikeev-dev/gradehub-api/internal/models"
	"github.com/anikeev-dev/gradehub-api/internal/repository"
	"github.com/anikeev-dev/gradehub-api/internal/router"
	"github.com/anikeev-dev/gradehub-api/internal/service"
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
		&models.Teacher{},
		&models.StudentGroup{},
		&models.StudentProfile{},
		&models.Course{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.Homework{},
		&models.Grade{},
		&models.Attachment{},
		&models.HomeworkHistory{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	homeworkRepo := repository.NewHomeworkRepository(db)
	gradingRepo := repository.NewGradingRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	groupRepo := repository.NewStudentGroupRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	gradebookService := service.NewGradebookService(courseRepo, assignmentRepo, homeworkRepo, redisClient, cfg.GradebookCacheTTL, logger)
	gradingService := service.NewGradingService(gradingRepo, validate, activityService, gradebookService, logger)
	homeworkService := service.NewHomeworkService(homeworkRepo, assignmentRepo, validate, logger)
	courseService := service.NewCourseService(courseRepo, studentRepo, validate, activityService, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, validate, logger)
	dashboardService := service.NewTeacherDashboardService(courseRepo, gradingRepo, logger)
	studentService := service.NewStudentService(studentRepo, groupRepo, validate, activityService, logger)

	courseHandler := handler.NewCourseHandler(courseService, gradebookService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, logger)
	homeworkHandler := handler.NewHomeworkHandler(homeworkService, logger)
	gradingHandler := handler.NewGradingHandler(gradingService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:     courseHandler,
		AssignmentHandler: assignmentHandler,
		HomeworkHandler:   homeworkHandler,
		StudentHandler:    studentHandler,
		GradingHandler:    gradingHandler,
		DashboardHandler:  dashboardHandler,
		ActivityHandler:   activityHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

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
