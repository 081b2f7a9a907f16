package concerts

import (
	"github.com/gin-gonic/gin"
)

// Router handles catalog routes
type Router struct {
	controller Controller
}

func NewRouter(controller Controller) *Router {
	return &Router{controller: controller}
}

// SetupRoutes registers the public catalog routes
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	concertGroup := rg.Group("/concerts")
	{
		concertGroup.GET("", r.controller.GetAllConcerts)
		concertGroup.GET("/summaries", r.controller.GetConcertSummaries)
		concertGroup.GET("/:concertId", r.controller.GetConcert)
	}

	performerGroup := rg.Group("/performers")
	{
		performerGroup.GET("", r.controller.GetAllPerformers)
		performerGroup.GET("/:performerId", r.controller.GetPerformer)
	}
}
