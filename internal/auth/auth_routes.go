package auth

import (
	"ippis-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, authMW gin.HandlerFunc, logger *zap.Logger) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(1, 5), handler.RefreshToken)
		auth.POST("/logout", handler.Logout)

		secured := auth.Group("")
		secured.Use(authMW, middleware.ContextLogger(logger))
		secured.GET("/me", middleware.RateLimitByUser(2, 5), handler.Me)
		secured.PUT("/password", middleware.RateLimitByUser(0.1, 3), handler.ChangePassword)
		secured.POST("/register",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "user", "create"),
			handler.Register,
		)
	}
}
