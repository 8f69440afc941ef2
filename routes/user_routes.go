package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/renthub/renthub/controllers/user_controller"
	"github.com/renthub/renthub/logger"
	middleware "github.com/renthub/renthub/middlewares"
	"github.com/renthub/renthub/middlewares/auth"
	"github.com/renthub/renthub/repository"
)

// RegisterUserRoutes wires registration, login and the password reset flow.
func RegisterUserRoutes(router *gin.Engine, store *repository.Store) {
	userController, err := user_controller.NewUserController(store)
	if err != nil {
		logger.ErrorLogger.Fatalf("failed to initialize user controller: %v", err)
	}

	api := router.Group("/api/auth")
	{
		api.POST("/register", middleware.NewRateLimiter("10-1h", "register"), userController.Register)
		api.POST("/admin/register", middleware.NewRateLimiter("5-1h", "adminRegister"), userController.RegisterAdmin)
		api.POST("/login", middleware.NewRateLimiter("20-10m", "login"), userController.Login)
		api.POST("/admin/login", middleware.NewRateLimiter("20-10m", "adminLogin"), userController.AdminLogin)
		api.POST("/forgot-password", middleware.NewRateLimiter("5-10m", "forgotPassword"), userController.ForgotPassword)
		api.POST("/reset-password", middleware.NewRateLimiter("10-10m", "resetPassword"), userController.ResetPassword)
	}

	protected := router.Group("/api/auth")
	protected.Use(auth.AuthMiddleware(store))
	{
		protected.GET("/profile", userController.GetProfile)
	}
}
