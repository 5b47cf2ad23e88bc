package rbac

import (
	"context"
	"errors"
	"testing"
	"time"

	"ippis-portal/internal/domain"
	rbacerrors "ippis-portal/internal/rbac/errors"
	"ippis-portal/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	userRoles   map[string][]UserRoleRow
	rolePerms   map[string][]RolePermissionRow
	roles       map[string]*Role
	permissions map[string]*Permission
	assigned    []UserRole
	rolePermIDs map[string][]string
	loads       int
	err         error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		userRoles: map[string][]UserRoleRow{
			"org-1": {{UserID: "user-1", RoleID: "role-hr"}},
			"org-2": {{UserID: "user-2", RoleID: "role-admin"}},
		},
		rolePerms: map[string][]RolePermissionRow{
			"org-1": {{RoleID: "role-hr", Resource: "employee", Action: "read"}},
			"org-2": {{RoleID: "role-admin", Resource: "employee", Action: "delete"}},
		},
		roles: map[string]*Role{
			"role-hr": {ID: "role-hr", CompanyID: "org-1", Name: "HR"},
		},
		permissions: map[string]*Permission{
			"employee:read":   {ID: "p-1", Resource: "employee", Action: "read"},
			"employee:create": {ID: "p-2", Resource: "employee", Action: "create"},
		},
		rolePermIDs: map[string][]string{},
	}
}

func (f *fakeRepo) GetUserRoles(_ context.Context, companyID string) ([]UserRoleRow, error) {
	f.loads++
	return f.userRoles[companyID], f.err
}

func (f *fakeRepo) GetRolePermissions(_ context.Context, companyID string) ([]RolePermissionRow, error) {
	return f.rolePerms[companyID], f.err
}

func (f *fakeRepo) ListRoles(_ context.Context, companyID string) ([]Role, error) {
	var out []Role
	for _, r := range f.roles {
		if r.CompanyID == companyID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetRoleByID(_ context.Context, companyID, id string) (*Role, error) {
	r, ok := f.roles[id]
	if !ok || r.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) CreateRole(_ context.Context, role *Role) error {
	role.ID = "role-new"
	cp := *role
	f.roles[role.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateRole(_ context.Context, role *Role) error {
	cp := *role
	f.roles[role.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteRole(_ context.Context, companyID, id string) error {
	if _, ok := f.roles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.roles, id)
	return nil
}

func (f *fakeRepo) AssignUserRole(_ context.Context, userID, roleID string) error {
	f.assigned = append(f.assigned, UserRole{UserID: userID, RoleID: roleID})
	return nil
}

func (f *fakeRepo) ListPermissions(context.Context) ([]Permission, error) {
	var out []Permission
	for _, p := range f.permissions {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) GetPermissionsByRoleID(_ context.Context, roleID string) ([]Permission, error) {
	var out []Permission
	for _, id := range f.rolePermIDs[roleID] {
		for _, p := range f.permissions {
			if p.ID == id {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) FindPermission(_ context.Context, resource, action string) (*Permission, error) {
	p, ok := f.permissions[resource+":"+action]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeRepo) UpdateRolePermissions(_ context.Context, roleID string, permIDs []string) error {
	f.rolePermIDs[roleID] = permIDs
	return nil
}

func (f *fakeRepo) SeedPermissions(context.Context, []Permission) error { return nil }

func newTestService(t *testing.T, repo Repository) *service {
	t.Helper()
	e, err := infra.NewDefaultEnforcer()
	require.NoError(t, err)
	return NewService(repo, e).(*service)
}

func TestRBACService_Enforce(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	allowed, err := svc.Enforce(ctx, domain.EnforceRequest{UserID: "user-1", CompanyID: "org-1", Resource: "employee", Action: "read"})
	require.NoError(t, err)
	assert.True(t, allowed)

	denied, err := svc.Enforce(ctx, domain.EnforceRequest{UserID: "user-1", CompanyID: "org-1", Resource: "employee", Action: "delete"})
	require.NoError(t, err)
	assert.False(t, denied)

	// org-2 policies must not leak into org-1 or be wiped by it.
	allowed, err = svc.Enforce(ctx, domain.EnforceRequest{UserID: "user-2", CompanyID: "org-2", Resource: "employee", Action: "delete"})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = svc.Enforce(ctx, domain.EnforceRequest{UserID: "user-2", CompanyID: "org-1", Resource: "employee", Action: "delete"})
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = svc.Enforce(ctx, domain.EnforceRequest{UserID: "user-1", CompanyID: "org-1", Resource: "employee", Action: "read"})
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, repo.loads)
}

func TestRBACService_PolicyTTL(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	req := domain.EnforceRequest{UserID: "user-1", CompanyID: "org-1", Resource: "employee", Action: "read"}
	_, err := svc.Enforce(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Enforce(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.loads)

	now = now.Add(2 * time.Minute)
	_, err = svc.Enforce(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.loads)
}

func TestRBACService_EnforceLoadError(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("db down")
	svc := newTestService(t, repo)

	_, err := svc.Enforce(context.Background(), domain.EnforceRequest{UserID: "user-1", CompanyID: "org-1", Resource: "employee", Action: "read"})
	assert.EqualError(t, err, "db down")
}

func TestRBACService_CreateRole(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		role, err := svc.CreateRole(ctx, "org-1", domain.CreateRoleRequest{
			Name:        " records officer ",
			Permissions: []string{"employee:read", "employee:create", "employee:read"},
		})
		require.NoError(t, err)
		assert.Equal(t, "RECORDS OFFICER", role.Name)
		assert.ElementsMatch(t, []string{"employee:read", "employee:create"}, role.Permissions)
	})

	t.Run("unknown permission", func(t *testing.T) {
		_, err := svc.CreateRole(ctx, "org-1", domain.CreateRoleRequest{Name: "X", Permissions: []string{"payroll:run"}})
		assert.ErrorIs(t, err, rbacerrors.ErrUnknownPermission)
	})

	t.Run("malformed permission", func(t *testing.T) {
		_, err := svc.CreateRole(ctx, "org-1", domain.CreateRoleRequest{Name: "X", Permissions: []string{"employee"}})
		assert.ErrorIs(t, err, rbacerrors.ErrUnknownPermission)
	})
}

func TestRBACService_SuperAdminNameIsReserved(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateRole(ctx, "org-1", domain.CreateRoleRequest{Name: " superadmin ", Permissions: []string{"employee:read"}})
	assert.ErrorIs(t, err, rbacerrors.ErrReservedRoleName)

	_, err = svc.UpdateRole(ctx, "org-1", "role-hr", domain.UpdateRoleRequest{Name: "SuperAdmin"})
	assert.ErrorIs(t, err, rbacerrors.ErrReservedRoleName)
	assert.Equal(t, "HR", repo.roles["role-hr"].Name)
}

func TestRBACService_AssignRoleInvalidatesPolicy(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()
	req := domain.EnforceRequest{UserID: "user-9", CompanyID: "org-1", Resource: "employee", Action: "read"}

	allowed, err := svc.Enforce(ctx, req)
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, svc.AssignRole(ctx, "org-1", "role-hr", "user-9"))
	repo.userRoles["org-1"] = append(repo.userRoles["org-1"], UserRoleRow{UserID: "user-9", RoleID: "role-hr"})

	allowed, err = svc.Enforce(ctx, req)
	require.NoError(t, err)
	assert.True(t, allowed)

	assert.ErrorIs(t, svc.AssignRole(ctx, "org-2", "role-hr", "user-9"), rbacerrors.ErrRoleNotFound)
}

func TestRBACService_DeleteRole(t *testing.T) {
	svc := newTestService(t, newFakeRepo())
	assert.NoError(t, svc.DeleteRole(context.Background(), "org-1", "role-hr"))
	assert.ErrorIs(t, svc.DeleteRole(context.Background(), "org-1", "role-hr"), rbacerrors.ErrRoleNotFound)
}

func TestDefaultPermissions(t *testing.T) {
	perms := DefaultPermissions()
	total := 0
	for _, resources := range Resources {
		total += len(resources) * len(Actions)
	}
	assert.Len(t, perms, total)

	res, act, ok := ParsePermissionKey("goal_type:update")
	assert.True(t, ok)
	assert.Equal(t, "goal_type", res)
	assert.Equal(t, "update", act)
}
