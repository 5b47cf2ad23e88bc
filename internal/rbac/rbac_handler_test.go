package rbac_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ippis-portal/internal/domain"
	"ippis-portal/internal/rbac"
	rbacerrors "ippis-portal/internal/rbac/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeRBACService struct {
	rbac.Service
	EnforceFn    func(ctx context.Context, req domain.EnforceRequest) (bool, error)
	CreateRoleFn func(ctx context.Context, companyID string, req domain.CreateRoleRequest) (domain.RoleResponse, error)
	AssignRoleFn func(ctx context.Context, companyID, roleID, userID string) error
}

func (f *fakeRBACService) Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error) {
	return f.EnforceFn(ctx, req)
}

func (f *fakeRBACService) CreateRole(ctx context.Context, companyID string, req domain.CreateRoleRequest) (domain.RoleResponse, error) {
	return f.CreateRoleFn(ctx, companyID, req)
}

func (f *fakeRBACService) AssignRole(ctx context.Context, companyID, roleID, userID string) error {
	return f.AssignRoleFn(ctx, companyID, roleID, userID)
}

func newContext(method, path, body string, role string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("user_id", "user-1")
	c.Set("company_id", "org-1")
	c.Set("role", role)
	return c, w
}

func TestHandler_Enforce(t *testing.T) {
	t.Run("defaults to caller", func(t *testing.T) {
		svc := &fakeRBACService{EnforceFn: func(_ context.Context, req domain.EnforceRequest) (bool, error) {
			assert.Equal(t, "user-1", req.UserID)
			assert.Equal(t, "org-1", req.CompanyID)
			return true, nil
		}}
		c, w := newContext(http.MethodPost, "/rbac/enforce", `{"resource":"employee","action":"read"}`, "HR")

		rbac.NewHandler(svc).Enforce(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true,"data":{"allowed":true}}`, w.Body.String())
	})

	t.Run("other organisation forbidden", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/rbac/enforce", `{"company_id":"org-2","resource":"employee","action":"read"}`, "HR")

		rbac.NewHandler(&fakeRBACService{}).Enforce(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), rbacerrors.ErrCrossCompany.Message)
	})

	t.Run("missing action", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/rbac/enforce", `{"resource":"employee"}`, "HR")

		rbac.NewHandler(&fakeRBACService{}).Enforce(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Action is required")
	})
}

func TestHandler_CreateRole(t *testing.T) {
	svc := &fakeRBACService{CreateRoleFn: func(_ context.Context, companyID string, req domain.CreateRoleRequest) (domain.RoleResponse, error) {
		assert.Equal(t, "org-1", companyID)
		return domain.RoleResponse{ID: "r1", Name: "HR", Permissions: req.Permissions}, nil
	}}
	c, w := newContext(http.MethodPost, "/rbac/roles", `{"name":"hr","permissions":["employee:read"]}`, "ADMIN")

	rbac.NewHandler(svc).CreateRole(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "employee:read")
}

func TestHandler_AssignRole(t *testing.T) {
	t.Run("role not found", func(t *testing.T) {
		svc := &fakeRBACService{AssignRoleFn: func(context.Context, string, string, string) error {
			return rbacerrors.ErrRoleNotFound
		}}
		c, w := newContext(http.MethodPost, "/rbac/roles/r9/users", `{"user_id":"9a7c2d8e-3f4b-4c5d-8e9f-0a1b2c3d4e5f"}`, "ADMIN")
		c.Params = gin.Params{{Key: "id", Value: "r9"}}

		rbac.NewHandler(svc).AssignRole(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid user id", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/rbac/roles/r9/users", `{"user_id":"nope"}`, "ADMIN")

		rbac.NewHandler(&fakeRBACService{}).AssignRole(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
