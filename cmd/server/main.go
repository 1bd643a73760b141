package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainhub/training-app/internal/api"
	"trainhub/training-app/internal/config"
	"trainhub/training-app/internal/mailer"
	"trainhub/training-app/internal/repository/mongo"
	"trainhub/training-app/internal/service"
	"trainhub/training-app/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.WithError(err).Fatal("could not load config")
	}

	setupLogging(cfg.Logging)
	log.Info("starting training app server")

	// --- Database ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.WithError(err).Fatal("could not connect to MongoDB")
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("error disconnecting MongoDB")
		}
	}()
	db := dbClient.Database(cfg.Database.Name)

	// Index creation runs in the background; it only needs to win
	// eventually, not before the first request.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, db.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, db.Collection("exercises"))
		mongo.EnsureTrainingIndexes(ctx, db.Collection("trainings"))
		mongo.EnsureReportIndexes(ctx, db.Collection("trainings_reports"))
	}()

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(db)
	exerciseRepo := mongo.NewMongoExerciseRepository(db)
	trainingRepo := mongo.NewMongoTrainingRepository(db)
	reportRepo := mongo.NewMongoReportRepository(db)
	themeRepo := mongo.NewMongoThemeRepository(db)

	// --- File storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.WithError(err).Fatal("could not initialize S3 storage")
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	exerciseService := service.NewExerciseService(exerciseRepo, trainingRepo)
	trainingService := service.NewTrainingService(trainingRepo, exerciseRepo)
	reportService := service.NewReportService(trainingRepo, exerciseRepo, reportRepo)
	trainerService := service.NewTrainerService(userRepo)
	adminService := service.NewAdminService(userRepo, themeRepo, fileStorage)
	profileService := service.NewProfileService(userRepo, fileStorage)

	// --- Report dispatch ---
	dispatcher := mailer.NewDispatcher(reportService, userRepo, mailer.NewMailer(cfg.Mail), cfg.Reports)
	if err := dispatcher.Start(); err != nil {
		log.WithError(err).Fatal("could not start report dispatcher")
	}
	defer dispatcher.Stop()

	// --- HTTP server ---
	router := gin.Default()
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		exerciseService,
		trainingService,
		reportService,
		trainerService,
		adminService,
		profileService,
	)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
	log.Info("server exited")
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
