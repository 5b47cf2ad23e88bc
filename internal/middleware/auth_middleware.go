package middleware

import (
	"errors"
	"net/http"
	"strings"

	autherrors "ippis-portal/internal/auth/errors"
	"ippis-portal/internal/domain"
	"ippis-portal/internal/shared/contextutil"
	"ippis-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const AccessTokenCookie = "access_token"

// AuthMiddleware accepts the access token from "Authorization: Bearer" or the access_token cookie
// and copies the claims into both the gin context and the request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		tokenString = strings.TrimSpace(tokenString)

		if tokenString == "" {
			if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenNotFound.HTTPStatus, autherrors.ErrTokenNotFound.Code, autherrors.ErrTokenNotFound.Message)
			return
		}

		claims := &domain.Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			abortWith(c, errObj.HTTPStatus, errObj.Code, errObj.Message)
			return
		}

		if claims.TokenType != domain.TokenTypeAccess {
			abortWith(c, http.StatusUnauthorized, autherrors.ErrInvalidToken.Code, "Access token required")
			return
		}
		if claims.UserID == "" {
			abortWith(c, http.StatusUnauthorized, autherrors.ErrInvalidToken.Code, "User ID not found in token")
			return
		}
		if claims.CompanyID == "" {
			abortWith(c, http.StatusUnauthorized, autherrors.ErrInvalidToken.Code, "Company ID not found in token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("employee_id", claims.EmployeeID)
		c.Set("company_id", claims.CompanyID)
		c.Set("role", strings.ToUpper(claims.Role))

		ctx := c.Request.Context()
		ctx = contextutil.WithUserID(ctx, claims.UserID)
		ctx = contextutil.WithCompanyID(ctx, claims.CompanyID)
		ctx = contextutil.WithAccessToken(ctx, tokenString)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("role")
		for _, role := range allowedRoles {
			if strings.EqualFold(userRole, role) {
				c.Next()
				return
			}
		}
		abortWith(c, autherrors.ErrForbidden.HTTPStatus, autherrors.ErrForbidden.Code, autherrors.ErrForbidden.Message)
	}
}

func abortWith(c *gin.Context, status int, code, message string) {
	response.Abort(c, status, code, message)
}
