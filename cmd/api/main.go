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
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/config"
	"github.com/noah-isme/remed-api/internal/database"
	"github.com/noah-isme/remed-api/internal/handler"
	"github.com/noah-isme/remed-api/internal/middleware"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/repository"
	"github.com/noah-isme/remed-api/internal/router"
	"github.com/noah-isme/remed-api/internal/service"
	cloud "github.com/noah-isme/remed-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Teacher{},
		&models.Subject{},
		&models.Grade{},
		&models.GradeReport{},
		&models.Survey{},
		&models.Annotation{},
		&models.ActivityLog{},
		&models.NewsItem{},
		&models.Notification{},
		&models.Document{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, caching and cross-node fanout disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	template, err := service.LoadSurveyTemplate(cfg.SurveyTemplateJSON)
	if err != nil {
		log.Fatalf("invalid survey template: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	gradeRepo := repository.NewGradeRepository(db)
	reportRepo := repository.NewReportRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	userRepo := repository.NewUserRepository(db)
	annotationRepo := repository.NewAnnotationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.ChannelBase, natsConn, validate, logger)
	evaluationService := service.NewEvaluationService(gradeRepo, reportRepo, userRepo, validate, activityService, notificationService, template, logger)
	gradeService := service.NewGradeService(gradeRepo, studentRepo, subjectRepo, validate, activityService, logger)
	surveyService := service.NewSurveyService(surveyRepo, validate, activityService, logger)
	annotationService := service.NewAnnotationService(annotationRepo, studentRepo, validate, activityService, logger)
	dashboardService := service.NewStudentDashboardService(gradeRepo, reportRepo, surveyRepo, redisClient, cfg.DashboardCacheTTL, logger)
	newsService := service.NewNewsService(newsRepo, redisClient, cfg.NewsCacheTTL, logger)
	registryService := service.NewRegistryService(studentRepo, teacherRepo, subjectRepo, userRepo, validate, activityService, logger)
	seedService := service.NewSeedService(studentRepo, teacherRepo, subjectRepo, userRepo, gradeRepo, newsService, cfg.SeedEnabled, cfg.SeedToken, logger)

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notificationService.Start(shutdownCtx)

	deps := router.Dependencies{
		ActorMiddleware:     middleware.Actor(userRepo),
		GradeHandler:        handler.NewGradeHandler(gradeService, evaluationService, validate, logger),
		ReportHandler:       handler.NewReportHandler(evaluationService, logger),
		SurveyHandler:       handler.NewSurveyHandler(surveyService, logger),
		AnnotationHandler:   handler.NewAnnotationHandler(annotationService, logger),
		RegistryHandler:     handler.NewRegistryHandler(registryService, logger),
		UserHandler:         handler.NewUserHandler(registryService, logger),
		DashboardHandler:    handler.NewDashboardHandler(dashboardService, logger),
		NewsHandler:         handler.NewNewsHandler(newsService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger, 30*time.Second),
		ActivityHandler:     handler.NewActivityHandler(activityService, logger),
		SeedHandler:         handler.NewSeedHandler(seedService, logger),
	}

	if cfg.CloudinaryCloudName != "" {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		documentService := service.NewDocumentService(uploader, documentRepo, cfg.UploadMaxSizeMB, logger)
		deps.DocumentHandler = handler.NewDocumentHandler(documentService, logger)
	} else {
		logger.Warn().Msg("cloudinary not configured, document uploads disabled")
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

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL != "" {
		return database.ConnectPostgres(cfg.DatabaseURL)
	}
	return database.ConnectSQLite("")
}
