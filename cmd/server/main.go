package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ptapp/coaching-backend/internal/ai"
	"ptapp/coaching-backend/internal/api"
	"ptapp/coaching-backend/internal/config"
	"ptapp/coaching-backend/internal/repository/mongo"
	"ptapp/coaching-backend/internal/service"
	"ptapp/coaching-backend/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("Starting coaching backend...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.WithError(err).Fatal("Could not load config")
	}
	log.Info("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.WithError(err).Fatal("Could not connect to MongoDB")
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("Failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("Database connection established.")

	// --- Ensure Indexes ---
	// The partial unique indexes on progress and sessions back the one-active
	// invariants; start them before serving traffic.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureProgramIndexes(ctx, appDB.Collection("programs"))
		mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts"))
		mongo.EnsureWorkoutExerciseIndexes(ctx, appDB.Collection("workout_exercises"))
		mongo.EnsureProgressIndexes(ctx, appDB.Collection("user_program_progress"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("workout_sessions"))
		mongo.EnsureLogIndexes(ctx, appDB.Collection("exercise_logs"))
		log.Info("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize S3 storage")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	workoutExerciseRepo := mongo.NewMongoWorkoutExerciseRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	logRepo := mongo.NewMongoLogRepository(appDB)

	// --- Initialize Services ---
	// Progress and session services share one lock set so program activation
	// and session starts for the same user serialize against each other.
	locks := service.NewUserLocks()

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	coachingService := service.NewCoachingService(userRepo)
	programService := service.NewProgramService(programRepo, workoutRepo, workoutExerciseRepo, exerciseRepo, userRepo)
	progressService := service.NewProgressService(progressRepo, programRepo, locks)
	sessionService := service.NewSessionService(sessionRepo, progressRepo, workoutRepo, locks)
	logService := service.NewLogService(logRepo, sessionRepo, workoutExerciseRepo, exerciseRepo, fileStorage)
	analyticsService := service.NewAnalyticsService(sessionRepo, logRepo, exerciseRepo, userRepo)

	var suggestionClient service.SuggestionClient
	if cfg.AI.APIKey != "" {
		suggestionClient, err = ai.NewOpenAIClient(cfg.AI)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize AI client")
		}
	} else {
		log.Warn("No AI API key configured; generation endpoints disabled.")
	}
	suggestionService := service.NewSuggestionService(suggestionClient, programRepo, workoutRepo, workoutExerciseRepo, exerciseRepo, progressService)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		coachingService,
		programService,
		progressService,
		sessionService,
		logService,
		analyticsService,
		suggestionService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.WithField("address", cfg.Server.Address).Info("Server starting")

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exiting.")
}
