package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/renthub/renthub/clients"
	"github.com/renthub/renthub/controllers/sos_controller"
	"github.com/renthub/renthub/logger"
	middleware "github.com/renthub/renthub/middlewares"
	"github.com/renthub/renthub/middlewares/auth"
	"github.com/renthub/renthub/repository"
)

// RegisterSOSRoutes wires the rider safety flow. An admin issues the SOS link
// for a confirmed booking; activation is deliberately public, because the
// emailed token is the credential and a rider in trouble may not be logged in
// on the device they open the link on.
func RegisterSOSRoutes(router *gin.Engine, store *repository.Store) {
	sosController, err := sos_controller.NewSOSController(store, clients.NewRetellClient())
	if err != nil {
		logger.ErrorLogger.Fatalf("failed to initialize sos controller: %v", err)
	}

	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware(store), auth.AdminMiddleware())
	{
		admin.POST("/bookings/:booking_id/sos", middleware.NewRateLimiter("5-10m", "sosSend"), sosController.SendSOSLink)
	}

	router.POST("/api/sos/activate", middleware.NewRateLimiter("10-10m", "sosActivate"), sosController.ActivateSOS)
}
