package search

import (
	"github.com/gin-gonic/gin"
)

func SetupSearchRoutes(router *gin.RouterGroup, controller Controller) {
	searchGroup := router.Group("/search")
	{
		searchGroup.POST("", controller.SubmitSearch)        // POST /api/v1/search - Validate a journey search
		searchGroup.POST("/swap", controller.SwapStations)   // POST /api/v1/search/swap - Swap origin and destination
		searchGroup.GET("/defaults", controller.GetDefaults) // GET /api/v1/search/defaults - Minimum and default travel date
	}
}
