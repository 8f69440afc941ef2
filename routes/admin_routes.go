package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/renthub/renthub/controllers/admin_booking_controller"
	"github.com/renthub/renthub/controllers/admin_user_controller"
	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/middlewares/auth"
	"github.com/renthub/renthub/repository"
	"github.com/renthub/renthub/services/booking_lifecycle"
)

// RegisterAdminRoutes wires the admin panel: booking lifecycle management,
// refund completion, user management and dashboard stats.
func RegisterAdminRoutes(router *gin.Engine, store *repository.Store, lifecycle *booking_lifecycle.Service) {
	bookingController, err := admin_booking_controller.NewAdminBookingController(lifecycle)
	if err != nil {
		logger.ErrorLogger.Fatalf("failed to initialize admin booking controller: %v", err)
	}
	userController, err := admin_user_controller.NewAdminUserController(store)
	if err != nil {
		logger.ErrorLogger.Fatalf("failed to initialize admin user controller: %v", err)
	}

	api := router.Group("/api/admin")
	api.Use(auth.AuthMiddleware(store), auth.AdminMiddleware())
	{
		api.GET("/bookings", bookingController.ListBookings)
		api.GET("/bookings/:booking_id", bookingController.GetBooking)
		api.PUT("/bookings/:booking_id", bookingController.EditBooking)
		api.POST("/bookings/:booking_id/confirm", bookingController.ConfirmBooking)
		api.POST("/bookings/:booking_id/reject", bookingController.RejectBooking)
		api.POST("/bookings/:booking_id/cancel", bookingController.CancelBooking)
		api.POST("/bookings/:booking_id/refund-complete", bookingController.MarkRefundCompleted)
		api.DELETE("/bookings/:booking_id", bookingController.DeleteBooking)
		api.GET("/dashboard", bookingController.DashboardStats)

		api.GET("/users", userController.ListUsers)
		api.GET("/users/:user_id", userController.GetUser)
		api.PUT("/users/:user_id", userController.UpdateUser)
		api.PATCH("/users/:user_id/block", userController.SetBlocked)
		api.DELETE("/users/:user_id", userController.DeleteUser)
	}
}
