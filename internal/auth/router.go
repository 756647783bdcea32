package auth

import (
	"railbook/internal/shared/config"
	"railbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/captcha", controller.Captcha)       // GET /api/v1/auth/captcha - Issue a new captcha for this session
		authGroup.POST("/login", controller.Login)          // POST /api/v1/auth/login - Demo login with captcha
		authGroup.POST("/register", controller.Register)    // POST /api/v1/auth/register - Validate a registration (nothing is stored)
		authGroup.POST("/refresh", controller.RefreshToken) // POST /api/v1/auth/refresh - Exchange a refresh token
		authGroup.POST("/logout", controller.Logout)        // POST /api/v1/auth/logout - Clear the session

		protected := authGroup.Group("")
		protected.Use(middleware.JWTAuthWithConfig(cfg))
		{
			protected.PUT("/change-password", controller.ChangePassword) // PUT /api/v1/auth/change-password - Change the demo password
			protected.GET("/me", controller.GetMe)                       // GET /api/v1/auth/me - Current account
		}
	}
}
