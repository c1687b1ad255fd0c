package v1

import (
	"github.com/gin-gonic/gin"
)

// EntityRouteHandler defines the CRUD handlers of a management resource.
type EntityRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterEntityRoutes registers standard CRUD routes for a resource.
//
// Usage:
//
//	RegisterEntityRoutes(config.Group("/top-menu-groups"), menuHandler.Top)
func RegisterEntityRoutes(group *gin.RouterGroup, handler EntityRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:key", handler.Get)
	group.PUT("/:key", handler.Update)
	group.DELETE("/:key", handler.Delete)
}
