package api

import (
	"net/http"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the full HTTP surface under /api/v1.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	trainingService service.TrainingService,
	reportService service.ReportService,
	trainerService service.TrainerService,
	adminService service.AdminService,
	profileService service.ProfileService,
) {
	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	trainingHandler := NewTrainingHandler(trainingService)
	reportHandler := NewReportHandler(reportService)
	trainerHandler := NewTrainerHandler(trainerService)
	adminHandler := NewAdminHandler(adminService)
	profileHandler := NewProfileHandler(profileService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	// Public routes: login page theming and emailed report links.
	apiV1.GET("/theme", adminHandler.GetTheme)
	apiV1.GET("/reports/:token", reportHandler.GetReportByToken)

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
		})

		meGroup := protected.Group("/me")
		{
			meGroup.GET("/photo", profileHandler.GetPhotoURL)
			meGroup.PUT("/photo", profileHandler.SetPhoto)
			meGroup.POST("/photo-upload-url", profileHandler.NewPhotoUploadURL)
		}

		trainerOnly := RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin)

		exerciseGroup := protected.Group("/exercises")
		{
			// Template library.
			exerciseGroup.POST("", trainerOnly, exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.GetExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExerciseByID)
			exerciseGroup.PUT("/:id", trainerOnly, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", trainerOnly, exerciseHandler.DeleteExercise)

			// Performance records.
			exerciseGroup.POST("/user-exercise", trainerOnly, exerciseHandler.UpsertUserExercise)
			exerciseGroup.GET("/user-training-exercises", exerciseHandler.GetUserTrainingExercises)
			exerciseGroup.DELETE("/training-users", trainerOnly, exerciseHandler.DeleteTrainingUsers)
			exerciseGroup.DELETE("/training-exercises", trainerOnly, exerciseHandler.DeleteTrainingExercises)

			// Client statistics.
			exerciseGroup.GET("/client-range", reportHandler.ClientRange)
			exerciseGroup.GET("/:id/latest-results", reportHandler.LatestResults)
		}

		trainingGroup := protected.Group("/trainings")
		{
			trainingGroup.POST("", trainerOnly, trainingHandler.CreateTraining)
			trainingGroup.GET("", trainingHandler.GetTrainings)
			trainingGroup.GET("/:id", trainingHandler.GetTrainingByID)
			trainingGroup.PUT("/:id", trainerOnly, trainingHandler.UpdateTraining)
			trainingGroup.POST("/:id/finish", trainerOnly, trainingHandler.FinishTraining)
			trainingGroup.DELETE("/:id", trainerOnly, trainingHandler.DeleteTraining)
			trainingGroup.POST("/client-report", reportHandler.ClientReport)
		}

		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.POST("/clients", trainerHandler.AddClient)
			trainerGroup.GET("/clients", trainerHandler.GetClients)
			trainerGroup.DELETE("/clients/:clientId", trainerHandler.RemoveClient)
		}

		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.POST("/trainers", adminHandler.CreateTrainer)
			adminGroup.GET("/trainers", adminHandler.GetTrainers)
			adminGroup.PATCH("/trainers/:id/active", adminHandler.SetTrainerActive)
			adminGroup.PUT("/theme", adminHandler.UpdateTheme)
			adminGroup.POST("/theme/logo-upload-url", adminHandler.NewLogoUploadURL)
		}
	}
}
