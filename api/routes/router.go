// api/routes/router.go
package routes

import (
	"concertly/internal/auth"
	"concertly/internal/bookings"
	"concertly/internal/concerts"
	"concertly/internal/seats"
	"concertly/internal/shared/config"
	"concertly/internal/shared/database"
	"concertly/internal/subscriptions"
	"concertly/pkg/cache"
	"concertly/pkg/logger"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB

	// Booking core, shared across feature routers. The ledger is the
	// authoritative in-memory seat state; the registry and dispatcher
	// carry threshold subscriptions and their delivery.
	ledger     *seats.Ledger
	seatRepo   seats.Repository
	seatSvc    seats.Service
	concertSvc concerts.Service
	registry   *subscriptions.Registry
	dispatcher *subscriptions.Dispatcher
}

// NewRouter creates a new router instance. audit may be nil, in which
// case threshold crossings are delivered to subscribers but not
// published to the audit stream.
func NewRouter(cfg *config.Config, db *database.DB, audit subscriptions.AuditPublisher) *Router {
	ledger := seats.NewLedger()
	seatRepo := seats.NewRepository(db.GetPostgreSQL())
	seatSvc := seats.NewService(seatRepo, ledger)

	concertRepo := concerts.NewRepository(db.GetPostgreSQL())
	concertSvc := concerts.NewService(concertRepo, cache.NewService(db.GetRedis()), cfg.Redis.CatalogTTL)

	registry := subscriptions.NewRegistry()
	dispatcher := subscriptions.NewDispatcher(registry, seats.TheatreCapacity, audit, logger.GetDefault())

	return &Router{
		config:     cfg,
		db:         db,
		ledger:     ledger,
		seatRepo:   seatRepo,
		seatSvc:    seatSvc,
		concertSvc: concertSvc,
		registry:   registry,
		dispatcher: dispatcher,
	}
}

// PrimeLedger loads seat state for every provisioned date into the
// ledger so the first booking attempt does not pay the load. Dates are
// also primed lazily on demand, so a failure here is not fatal.
func (r *Router) PrimeLedger(ctx context.Context) (int, error) {
	dates, err := r.seatRepo.DatesWithSeats(ctx)
	if err != nil {
		return 0, err
	}
	for _, date := range dates {
		if err := r.seatSvc.EnsureDate(ctx, date); err != nil {
			return 0, err
		}
	}
	return len(dates), nil
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupConcertRoutes(api)
		r.setupSeatRoutes(api)
		r.setupBookingRoutes(api)
		r.setupSubscriptionRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "concertly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "concertly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupConcertRoutes configures the concert and performer catalog routes
func (r *Router) setupConcertRoutes(rg *gin.RouterGroup) {
	concertController := concerts.NewController(r.concertSvc)
	concertRouter := concerts.NewRouter(concertController)

	concertRouter.SetupRoutes(rg)
}

// setupSeatRoutes configures seat listing routes
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	seatController := seats.NewController(r.seatSvc)
	seatRouter := seats.NewRouter(seatController)

	seatRouter.SetupRoutes(rg)
}

// setupBookingRoutes configures booking routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.concertSvc, r.seatSvc, r.dispatcher, logger.GetDefault())
	bookingController := bookings.NewController(bookingService)
	bookingRouter := bookings.NewRouter(bookingController, r.config)

	bookingRouter.SetupRoutes(rg)
}

// setupSubscriptionRoutes configures the threshold subscription routes
func (r *Router) setupSubscriptionRoutes(rg *gin.RouterGroup) {
	subController := subscriptions.NewController(r.registry, r.concertSvc, r.config.Subscriptions.WaitTimeout)
	subRouter := subscriptions.NewRouter(subController, r.config)

	subRouter.SetupRoutes(rg)
}
