package seats

import (
	"github.com/gin-gonic/gin"
)

// Router handles seat-related routes
type Router struct {
	controller Controller
}

func NewRouter(controller Controller) *Router {
	return &Router{controller: controller}
}

// SetupRoutes registers all seat routes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	seatGroup := rg.Group("/seats")
	{
		seatGroup.GET("/:date", r.controller.GetSeatsForDate)
	}
}
