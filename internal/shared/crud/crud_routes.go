package crud

import (
	"ippis-portal/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Routes is the set of gin handlers for one collection, so modules with custom
// handlers can share RegisterRoutes.
type Routes interface {
	List(c *gin.Context)
	Options(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterRoutes mounts list/options/get/create/update/delete under path, each guarded by
// <resource>:<action>. The middlewares run before the per-route rate limit and RBAC.
func RegisterRoutes(r *gin.RouterGroup, path, resource string, h Routes, rbacService middleware.RBACService, mws ...gin.HandlerFunc) {
	group := r.Group(path)
	group.Use(mws...)
	{
		group.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, resource, "read"),
			h.List,
		)
		group.GET("/options",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, resource, "read"),
			h.Options,
		)
		group.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, resource, "read"),
			h.Get,
		)
		group.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, resource, "create"),
			h.Create,
		)
		group.PUT("/:id",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, resource, "update"),
			h.Update,
		)
		group.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, resource, "delete"),
			h.Delete,
		)
	}
}
