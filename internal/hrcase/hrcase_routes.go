package hrcase

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
	cases := r.Group("/cases")
	cases.Use(auth)
	cases.Use(middleware.ContextLogger(logger))
	{
		cases.GET("", handler.Kinds)

		authorize := middleware.RBACAuthorizeFunc(rbacService, handler.Permission)
		cases.GET("/:kind", middleware.RateLimitByUser(3, 10), authorize, handler.List)
		cases.GET("/:kind/:id", middleware.RateLimitByUser(3, 10), authorize, handler.Get)
		cases.POST("/:kind", middleware.RateLimitByUser(1, 5), authorize, idempotency, handler.Create)
		cases.PUT("/:kind/:id", middleware.RateLimitByUser(1, 5), authorize, handler.Update)
		cases.DELETE("/:kind/:id", middleware.RateLimitByUser(0.5, 2), authorize, handler.Delete)
	}
}
