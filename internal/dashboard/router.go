package dashboard

import (
	"railbook/internal/shared/config"
	"railbook/internal/shared/middleware"
	"railbook/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupDashboardRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	setupAdminRoutes(router, controller, cfg)
	setupUserRoutes(router, controller, cfg)
}

func setupAdminRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	admin := router.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg))
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/overview", controller.GetOverview)      // GET /api/v1/admin/overview - Catalog size and routes
		admin.POST("/schedules", controller.AddSchedule)    // POST /api/v1/admin/schedules - Validate a train schedule (acknowledged only)
		admin.DELETE("/trains/:id", controller.DeleteTrain) // DELETE /api/v1/admin/trains/:id - Acknowledge a train deletion
	}
}

func setupUserRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	user := router.Group("/dashboard")
	user.Use(middleware.JWTAuthWithConfig(cfg))
	user.Use(middleware.RequireRoles(string(users.RoleUser), string(users.RoleAdmin)))
	{
		user.GET("/summary", controller.GetUserSummary) // GET /api/v1/dashboard/summary - Bookings of this session
	}
}
