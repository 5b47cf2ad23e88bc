package dataexchange

import (
	"ippis-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	auth gin.HandlerFunc,
	idempotency gin.HandlerFunc,
	logger *zap.Logger,
) {
	imports := r.Group("/import")
	imports.Use(auth)
	imports.Use(middleware.ContextLogger(logger))
	{
		imports.POST("/employees",
			middleware.RateLimitByUser(0.1, 2),
			middleware.RBACAuthorize(rbacService, "import", "create"),
			idempotency,
			handler.ImportEmployees,
		)
	}

	exports := r.Group("/export")
	exports.Use(auth)
	exports.Use(middleware.ContextLogger(logger))
	{
		exports.GET("/employees",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "export", "read"),
			handler.ExportEmployees,
		)
	}
}
