package middleware

import (
	"context"
	"net/http"

	"ippis-portal/internal/domain"
	"ippis-portal/internal/shared/apperror"
	"ippis-portal/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return RBACAuthorizeFunc(service, func(*gin.Context) (string, string, bool) {
		return resource, action, true
	})
}

// PermissionResolver derives the resource and action from the request. ok=false means the
// resolver already wrote a response and the chain must stop.
type PermissionResolver func(c *gin.Context) (resource, action string, ok bool)

func RBACAuthorizeFunc(service RBACService, resolve PermissionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		resource, action, ok := resolve(c)
		if !ok {
			c.Abort()
			return
		}

		userID := c.GetString("user_id")
		companyID := c.GetString("company_id")
		if userID == "" || companyID == "" {
			abortWith(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing auth context")
			return
		}

		if c.GetString("role") == domain.RoleSuperAdmin {
			c.Next()
			return
		}

		allowed, err := service.Enforce(c.Request.Context(), domain.EnforceRequest{
			UserID:    userID,
			CompanyID: companyID,
			Resource:  resource,
			Action:    action,
		})
		if err != nil {
			contextutil.GetLogger(c.Request.Context(), zap.L()).Error("rbac enforce failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			abortWith(c, http.StatusInternalServerError, apperror.CodeInternalError, "authorization check failed")
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"ok": false,
				"error": gin.H{
					"code":    apperror.CodeForbidden,
					"message": "You do not have permission to access this resource",
					"details": gin.H{"required": resource + ":" + action},
				},
			})
			return
		}
		c.Next()
	}
}

// ActionForMethod maps an HTTP method onto the RBAC action vocabulary.
func ActionForMethod(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
