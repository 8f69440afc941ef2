package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/renthub/renthub/controllers/vehicle_controller"
	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/middlewares/auth"
	"github.com/renthub/renthub/repository"
)

// RegisterVehicleRoutes wires public catalog browsing and the admin CRUD.
func RegisterVehicleRoutes(router *gin.Engine, store *repository.Store) {
	vehicleController, err := vehicle_controller.NewVehicleController(store)
	if err != nil {
		logger.ErrorLogger.Fatalf("failed to initialize vehicle controller: %v", err)
	}

	// Browsing the catalog needs no account.
	public := router.Group("/api/vehicles")
	{
		public.GET("/", vehicleController.ListAll)
		public.GET("/:type", vehicleController.ListByType)
		public.GET("/:type/:vehicle_id", vehicleController.GetVehicle)
	}

	admin := router.Group("/api/admin/vehicles")
	admin.Use(auth.AuthMiddleware(store), auth.AdminMiddleware())
	{
		admin.POST("/", vehicleController.CreateVehicle)
		admin.PUT("/:type/:vehicle_id", vehicleController.UpdateVehicle)
		admin.PATCH("/:type/:vehicle_id/availability", vehicleController.SetAvailability)
		admin.DELETE("/:type/:vehicle_id", vehicleController.DeleteVehicle)
	}
}
