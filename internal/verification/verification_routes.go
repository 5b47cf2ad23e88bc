package verification

import (
	"ippis-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, auth gin.HandlerFunc, logger *zap.Logger) {
	group := r.Group("/verification")
	group.Use(auth)
	group.Use(middleware.ContextLogger(logger))
	{
		group.POST("/nin",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "verification", "create"),
			handler.VerifyNIN,
		)
	}
}
