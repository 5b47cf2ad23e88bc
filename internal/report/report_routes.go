package report

import (
	"ippis-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, auth gin.HandlerFunc, logger *zap.Logger) {
	reports := r.Group("/reports")
	reports.Use(auth)
	reports.Use(middleware.ContextLogger(logger))
	{
		reports.GET("/summary",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "report", "read"),
			handler.Summary,
		)
		reports.GET("/summary/export",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "report", "read"),
			handler.ExportSummary,
		)
	}
}
