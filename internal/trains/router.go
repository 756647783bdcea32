package trains

import (
	"github.com/gin-gonic/gin"
)

func SetupTrainRoutes(router *gin.RouterGroup, controller Controller) {
	trainGroup := router.Group("/trains")
	{
		trainGroup.GET("", controller.ListTrains)              // GET /api/v1/trains?from&to&date - Trains on a route
		trainGroup.GET("/stations", controller.ListStations)   // GET /api/v1/trains/stations - Known stations
		trainGroup.GET("/:id", controller.GetTrain)            // GET /api/v1/trains/:id - Train details
		trainGroup.GET("/:id/fare", controller.GetFare)        // GET /api/v1/trains/:id/fare?passengers=N - Fare quote
		trainGroup.POST("/:id/select", controller.SelectTrain) // POST /api/v1/trains/:id/select - Store the session's selection
	}

	router.GET("/booking/selection", controller.GetSelection) // GET /api/v1/booking/selection - Selected train for the booking page
}
