package proxy

import (
	"ippis-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, auth gin.HandlerFunc, logger *zap.Logger) {
	group := r.Group("/proxy")
	group.Use(auth)
	group.Use(middleware.ContextLogger(logger))
	{
		group.GET("", handler.List)

		authorize := middleware.RBACAuthorizeFunc(rbacService, handler.Permission)
		group.Any("/:name", middleware.RateLimitByUser(5, 20), authorize, handler.Serve)
		group.Any("/:name/*path", middleware.RateLimitByUser(5, 20), authorize, handler.Serve)
	}
}
