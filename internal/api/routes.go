package api

import (
	"net/http"

	"ptapp/coaching-backend/internal/domain"
	"ptapp/coaching-backend/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	coachingService service.CoachingService,
	programService service.ProgramService,
	progressService service.ProgressService,
	sessionService service.SessionService,
	logService service.LogService,
	analyticsService service.AnalyticsService,
	suggestionService service.SuggestionService,
) {
	authHandler := NewAuthHandler(authService)
	coachingHandler := NewCoachingHandler(coachingService)
	programHandler := NewProgramHandler(programService, suggestionService)
	sessionHandler := NewSessionHandler(progressService, sessionService, logService)
	analyticsHandler := NewAnalyticsHandler(analyticsService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := c.Get(ContextUserRoleKey)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Program authoring ---
		programGroup := protected.Group("/programs")
		{
			programGroup.POST("", programHandler.CreateProgram)
			programGroup.GET("", programHandler.GetMyPrograms)
			programGroup.GET("/participating", programHandler.GetParticipatingPrograms)
			programGroup.GET("/:programId", programHandler.GetProgram)
			programGroup.DELETE("/:programId", programHandler.DeleteProgram)
			programGroup.GET("/:programId/workouts", programHandler.GetProgramWorkouts)

			// Activation: at most one active program per user.
			programGroup.POST("/:programId/activate", sessionHandler.ActivateProgram)
			programGroup.POST("/:programId/deactivate", sessionHandler.DeactivateProgram)

			// Participants
			programGroup.POST("/:programId/join", programHandler.JoinProgram)
			programGroup.POST("/:programId/leave", programHandler.LeaveProgram)

			// AI generation
			programGroup.POST("/:programId/generate-workout", programHandler.GenerateWorkout)
			programGroup.POST("/generate", programHandler.GenerateProgram)
		}
		protected.GET("/active-program", sessionHandler.GetActiveProgram)
		protected.PATCH("/workout-order", programHandler.UpdateWorkoutOrder)
		protected.PATCH("/exercise-order", programHandler.UpdateExerciseOrder)

		quotaGroup := protected.Group("/quotas")
		{
			quotaGroup.GET("/workouts", programHandler.GetWorkoutQuota)
			quotaGroup.GET("/programs", programHandler.GetProgramQuota)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", programHandler.CreateWorkout)
			workoutGroup.POST("/:workoutId/exercises", programHandler.AddWorkoutExercise)
			workoutGroup.GET("/:workoutId/exercises", programHandler.GetWorkoutExercises)
		}

		// --- Session lifecycle ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.StartSession)
			sessionGroup.GET("", sessionHandler.GetMySessions)
			sessionGroup.GET("/active", sessionHandler.CheckActiveSession)
			sessionGroup.GET("/:sessionId", sessionHandler.GetSession)
			sessionGroup.POST("/:sessionId/end", sessionHandler.EndSession)
			sessionGroup.POST("/:sessionId/logs", sessionHandler.CreateExerciseLog)
			sessionGroup.GET("/:sessionId/logs", sessionHandler.GetSessionLogs)
		}

		// --- Set logging ---
		logGroup := protected.Group("/logs")
		{
			logGroup.POST("/:logId/sets", sessionHandler.AppendSet)
			logGroup.DELETE("/:logId/sets/last", sessionHandler.DeleteLastSet)
			logGroup.POST("/:logId/sets/:setId/video-upload-url", sessionHandler.RequestSetVideoUploadURL)
			logGroup.POST("/:logId/sets/:setId/video-confirm", sessionHandler.ConfirmSetVideo)
			logGroup.DELETE("/:logId/sets/:setId/video", sessionHandler.DeleteSetVideo)
		}

		// --- Progress charts (self) ---
		analyticsGroup := protected.Group("/analytics")
		{
			analyticsGroup.GET("/weekly-sessions", analyticsHandler.GetWeeklySessions)
			analyticsGroup.GET("/one-rep-max/:exerciseId", analyticsHandler.GetOneRepMax)
			analyticsGroup.GET("/tonnage", analyticsHandler.GetTonnage)
			analyticsGroup.GET("/weighted-exercises", analyticsHandler.GetExercisesWithWeights)
		}

		// --- Trainer routes: client management and client-scoped charts ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.POST("/clients", coachingHandler.AddClient)

			trainerGroup.GET("/clients/:clientId/analytics/weekly-sessions", analyticsHandler.GetClientWeeklySessions)
			trainerGroup.GET("/clients/:clientId/analytics/one-rep-max/:exerciseId", analyticsHandler.GetClientOneRepMax)
			trainerGroup.GET("/clients/:clientId/analytics/tonnage", analyticsHandler.GetClientTonnage)
			trainerGroup.GET("/clients/:clientId/analytics/weighted-exercises", analyticsHandler.GetClientExercisesWithWeights)
		}
	}
}
