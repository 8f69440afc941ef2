package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/renthub/renthub/controllers/booking_controller"
	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/middlewares/auth"
	"github.com/renthub/renthub/repository"
	"github.com/renthub/renthub/services/booking_lifecycle"
	"github.com/renthub/renthub/services/receipt_service"
)

// RegisterBookingRoutes wires the user-facing booking endpoints.
func RegisterBookingRoutes(router *gin.Engine, store *repository.Store, lifecycle *booking_lifecycle.Service) {
	receipts := receipt_service.NewService(store)

	bookingController, err := booking_controller.NewBookingController(lifecycle, receipts)
	if err != nil {
		logger.ErrorLogger.Fatalf("failed to initialize booking controller: %v", err)
	}

	api := router.Group("/api/bookings")
	api.Use(auth.AuthMiddleware(store))
	{
		api.POST("/", bookingController.CreateBooking)
		api.GET("/", bookingController.ListMyBookings)
		api.GET("/:booking_id", bookingController.GetBooking)
		api.POST("/:booking_id/cancel", bookingController.CancelBooking)
		api.POST("/:booking_id/refund-details", bookingController.SubmitRefundDetails)
		api.GET("/:booking_id/receipt", bookingController.DownloadReceipt)
	}
}
