package payments

import (
	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(router *gin.RouterGroup, controller Controller) {
	paymentGroup := router.Group("/payments")
	{
		paymentGroup.GET("/pending", controller.GetPending) // GET /api/v1/payments/pending - Booking summary for the payment page
		paymentGroup.POST("", controller.Pay)               // POST /api/v1/payments - Simulated payment of the pending booking
	}
}
