package subscriptions

import (
	"concertly/internal/shared/config"
	"concertly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles subscription routes
type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers the subscription routes; subscribing requires a
// logged-in user, matching the booking flow it observes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	sub := rg.Group("/subscribe")
	sub.Use(middleware.JWTAuthWithConfig(r.config))
	{
		sub.POST("/concert-info", r.controller.Subscribe)
	}
}
