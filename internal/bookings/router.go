package bookings

import (
	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller) {
	formGroup := router.Group("/booking/form")
	{
		formGroup.GET("", controller.GetForm)                              // GET /api/v1/booking/form - Current passenger form
		formGroup.DELETE("", controller.ResetForm)                         // DELETE /api/v1/booking/form - Discard the passenger form
		formGroup.POST("/passengers", controller.AddPassenger)             // POST /api/v1/booking/form/passengers - Add a passenger
		formGroup.PUT("/passengers/:index", controller.UpdatePassenger)    // PUT /api/v1/booking/form/passengers/:index - Edit a passenger
		formGroup.DELETE("/passengers/:index", controller.RemovePassenger) // DELETE /api/v1/booking/form/passengers/:index - Remove a passenger
		formGroup.POST("/validate", controller.ValidateForm)               // POST /api/v1/booking/form/validate - Check every passenger
	}

	bookingGroup := router.Group("/bookings")
	{
		bookingGroup.POST("", controller.SubmitBooking)             // POST /api/v1/bookings - Confirm the passenger form as a booking
		bookingGroup.GET("", controller.ListBookings)               // GET /api/v1/bookings - Bookings of this session
		bookingGroup.GET("/pending", controller.GetPending)         // GET /api/v1/bookings/pending - Booking awaiting payment
		bookingGroup.GET("/:pnr", controller.GetBooking)            // GET /api/v1/bookings/:pnr - Booking by PNR
		bookingGroup.GET("/:pnr/ticket", controller.DownloadTicket) // GET /api/v1/bookings/:pnr/ticket - E-ticket PDF
	}
}
