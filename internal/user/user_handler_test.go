package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ippis-portal/internal/domain"
	"ippis-portal/internal/user"
	usererrors "ippis-portal/internal/user/errors"
	"ippis-portal/internal/user/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type allowAll struct{}

func (allowAll) Enforce(context.Context, domain.EnforceRequest) (bool, error) { return true, nil }

func withIdentity(c *gin.Context) {
	c.Set("user_id", "actor-1")
	c.Set("company_id", companyID)
	c.Next()
}

func newRouter(t *testing.T) (*gin.Engine, *mock.MockService) {
	gin.SetMode(gin.TestMode)
	svc := mock.NewMockService(gomock.NewController(t))
	r := gin.New()
	user.RegisterRoutes(r.Group("/api/v1"), user.NewHandler(svc, zap.NewNop()), allowAll{}, withIdentity, zap.NewNop())
	return r, svc
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUserHandler_GetAll(t *testing.T) {
	r, svc := newRouter(t)
	svc.EXPECT().List(gomock.Any(), companyID, "obi").Return([]user.UserResponse{{Email: "amaka@fmoh.gov.ng"}}, nil)

	w := do(r, http.MethodGet, "/api/v1/users?q=obi", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "amaka@fmoh.gov.ng")
}

func TestUserHandler_GetById(t *testing.T) {
	r, svc := newRouter(t)
	svc.EXPECT().GetByID(gomock.Any(), companyID, "missing").Return(user.UserResponse{}, usererrors.ErrUserNotFound)

	w := do(r, http.MethodGet, "/api/v1/users/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestUserHandler_UpdateStatus(t *testing.T) {
	r, svc := newRouter(t)

	t.Run("is_active is required", func(t *testing.T) {
		w := do(r, http.MethodPatch, "/api/v1/users/u-1/status", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("passes the acting user", func(t *testing.T) {
		svc.EXPECT().SetStatus(gomock.Any(), companyID, "actor-1", "u-1", false).Return(nil)
		w := do(r, http.MethodPatch, "/api/v1/users/u-1/status", `{"is_active":false}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"is_active":false`)
	})

	t.Run("self deactivation", func(t *testing.T) {
		svc.EXPECT().SetStatus(gomock.Any(), companyID, "actor-1", "actor-1", false).Return(usererrors.ErrCannotDeactivateSelf)
		w := do(r, http.MethodPatch, "/api/v1/users/actor-1/status", `{"is_active":false}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUserHandler_ResetPassword(t *testing.T) {
	r, svc := newRouter(t)

	w := do(r, http.MethodPost, "/api/v1/users/u-1/reset-password", `{"new_password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.EXPECT().ResetPassword(gomock.Any(), companyID, "u-1", "long-enough-1").Return(nil)
	w = do(r, http.MethodPost, "/api/v1/users/u-1/reset-password", `{"new_password":"long-enough-1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
