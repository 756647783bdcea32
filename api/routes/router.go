package routes

import (
	"fmt"
	"net/http"
	"time"

	"railbook/docs"
	"railbook/internal/auth"
	"railbook/internal/bookings"
	"railbook/internal/dashboard"
	"railbook/internal/notifications"
	"railbook/internal/payments"
	"railbook/internal/search"
	"railbook/internal/session"
	"railbook/internal/shared/config"
	"railbook/internal/shared/database"
	"railbook/internal/shared/metrics"
	"railbook/internal/shared/middleware"
	"railbook/internal/trains"
	"railbook/internal/users"
	"railbook/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	store     session.Store
	publisher notifications.Publisher
	now       func() time.Time

	// shared between booking, payment and dashboard routes
	selections  trains.SelectionRepository
	bookingRepo bookings.Repository
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, store session.Store, publisher notifications.Publisher) *Router {
	return &Router{
		config:      cfg,
		db:          db,
		store:       store,
		publisher:   publisher,
		now:         time.Now,
		selections:  trains.NewSelectionRepository(store),
		bookingRepo: bookings.NewRepository(store, nil),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) error {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	api.Use(middleware.Session(r.config.Session))
	{
		r.setupSearchRoutes(api)
		r.setupTrainRoutes(api)
		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
		if err := r.setupAuthRoutes(api); err != nil {
			return err
		}
		r.setupDashboardRoutes(api)
	}
	return nil
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": r.now(),
				"service":   "railbook",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "healthy",
			"timestamp":      r.now(),
			"service":        "railbook",
			"session_store":  r.config.Session.Backend,
			"catalog_trains": trains.Size(),
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/metrics", metrics.Handler())

	docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (r *Router) setupSearchRoutes(rg *gin.RouterGroup) {
	searchService := search.NewService(r.now)
	search.SetupSearchRoutes(rg, search.NewController(searchService))
}

func (r *Router) setupTrainRoutes(rg *gin.RouterGroup) {
	trainService := trains.NewService(r.selections, r.now)
	trains.SetupTrainRoutes(rg, trains.NewController(trainService))
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingService := bookings.NewService(r.bookingRepo, r.selections, bookings.WithClock(r.now))
	bookings.SetupBookingRoutes(rg, bookings.NewController(bookingService))
}

func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	paymentService := payments.NewService(r.bookingRepo, r.publisher, r.now)
	payments.SetupPaymentRoutes(rg, payments.NewController(paymentService))
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) error {
	userRepo, err := users.NewDemoRepository(users.DefaultDemoAccounts, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to seed demo accounts: %w", err)
	}

	authService := auth.NewService(userRepo, r.store, r.config, auth.WithClock(r.now))
	auth.SetupAuthRoutes(rg, auth.NewController(authService), r.config)
	return nil
}

func (r *Router) setupDashboardRoutes(rg *gin.RouterGroup) {
	dashboardService := dashboard.NewService(r.bookingRepo, r.now)

	// Inject cache service when Redis is available
	if r.db.Redis != nil {
		dashboardService.SetCacheService(cache.NewService(r.db.Redis))
	}

	dashboard.SetupDashboardRoutes(rg, dashboard.NewController(dashboardService), r.config)
}
