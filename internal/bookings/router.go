package bookings

import (
	"concertly/internal/shared/config"
	"concertly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles booking routes
type Router struct {
	controller Controller
	config     *config.Config
}

func NewRouter(controller Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers the booking routes; all of them need a
// logged-in user, whose id is the booking owner token
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	bookingGroup := rg.Group("/bookings")
	bookingGroup.Use(middleware.JWTAuthWithConfig(r.config))
	{
		bookingGroup.POST("", r.controller.AttemptBooking)
		bookingGroup.GET("", r.controller.GetUserBookings)
		bookingGroup.GET("/:bookingId", r.controller.GetBooking)
		bookingGroup.DELETE("/:bookingId", r.controller.CancelBooking)
	}
}
