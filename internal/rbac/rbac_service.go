package rbac

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"ippis-portal/internal/domain"
	rbacerrors "ippis-portal/internal/rbac/errors"

	"github.com/casbin/casbin/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPolicyTTL = time.Minute

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadCompanyPolicy(ctx context.Context, companyID string) error
	Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error)

	ListRoles(ctx context.Context, companyID string) ([]domain.RoleResponse, error)
	GetRole(ctx context.Context, companyID, id string) (domain.RoleResponse, error)
	CreateRole(ctx context.Context, companyID string, req domain.CreateRoleRequest) (domain.RoleResponse, error)
	UpdateRole(ctx context.Context, companyID, id string, req domain.UpdateRoleRequest) (domain.RoleResponse, error)
	DeleteRole(ctx context.Context, companyID, id string) error
	AssignRole(ctx context.Context, companyID, roleID, userID string) error
	ListPermissions(ctx context.Context) ([]domain.PermissionResponse, error)
}

// service keeps one casbin domain per organisation. A domain is reloaded from the database when
// it is older than policyTTL or after a role change in this process.
type service struct {
	repo      Repository
	enforcer  *casbin.Enforcer
	mu        sync.Mutex
	loadedAt  map[string]time.Time
	policyTTL time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:      repo,
		enforcer:  enforcer,
		loadedAt:  make(map[string]time.Time),
		policyTTL: defaultPolicyTTL,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) LoadCompanyPolicy(ctx context.Context, companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadCompanyPolicyUnlocked(ctx, companyID)
}

func (s *service) loadCompanyPolicyUnlocked(ctx context.Context, companyID string) error {
	userRoles, err := s.repo.GetUserRoles(ctx, companyID)
	if err != nil {
		return err
	}
	rolePerms, err := s.repo.GetRolePermissions(ctx, companyID)
	if err != nil {
		return err
	}

	if _, err := s.enforcer.RemoveFilteredGroupingPolicy(2, companyID); err != nil {
		return err
	}
	if _, err := s.enforcer.RemoveFilteredPolicy(1, companyID); err != nil {
		return err
	}

	for _, ur := range userRoles {
		if _, err := s.enforcer.AddGroupingPolicy(ur.UserID, ur.RoleID, companyID); err != nil {
			return err
		}
	}
	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, companyID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.loadedAt[companyID] = s.now()
	s.logger.Debug("rbac policy loaded",
		zap.String("company_id", companyID),
		zap.Int("user_roles", len(userRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)
	return nil
}

func (s *service) invalidate(companyID string) {
	s.mu.Lock()
	delete(s.loadedAt, companyID)
	s.mu.Unlock()
}

func (s *service) Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loaded, ok := s.loadedAt[req.CompanyID]; !ok || s.now().Sub(loaded) > s.policyTTL {
		if err := s.loadCompanyPolicyUnlocked(ctx, req.CompanyID); err != nil {
			s.logger.Error("rbac load policy failed", zap.String("company_id", req.CompanyID), zap.Error(err))
			return false, err
		}
	}

	allowed, err := s.enforcer.Enforce(req.UserID, req.CompanyID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("user_id", req.UserID),
			zap.String("company_id", req.CompanyID),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("user_id", req.UserID),
		zap.String("company_id", req.CompanyID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListRoles(ctx context.Context, companyID string) ([]domain.RoleResponse, error) {
	roles, err := s.repo.ListRoles(ctx, companyID)
	if err != nil {
		return nil, err
	}

	res := make([]domain.RoleResponse, 0, len(roles))
	for _, role := range roles {
		perms, err := s.repo.GetPermissionsByRoleID(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		res = append(res, mapRoleResponse(role, perms))
	}
	return res, nil
}

func (s *service) GetRole(ctx context.Context, companyID, id string) (domain.RoleResponse, error) {
	role, err := s.repo.GetRoleByID(ctx, companyID, id)
	if err != nil {
		return domain.RoleResponse{}, mapRepositoryError(err)
	}
	perms, err := s.repo.GetPermissionsByRoleID(ctx, role.ID)
	if err != nil {
		return domain.RoleResponse{}, err
	}
	return mapRoleResponse(*role, perms), nil
}

func normalizeRoleName(name string) (string, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == domain.RoleSuperAdmin {
		return "", rbacerrors.ErrReservedRoleName
	}
	return name, nil
}

func (s *service) CreateRole(ctx context.Context, companyID string, req domain.CreateRoleRequest) (domain.RoleResponse, error) {
	name, err := normalizeRoleName(req.Name)
	if err != nil {
		return domain.RoleResponse{}, err
	}
	permIDs, err := s.resolvePermissions(ctx, req.Permissions)
	if err != nil {
		return domain.RoleResponse{}, err
	}

	role := &Role{
		CompanyID:   companyID,
		Name:        name,
		Description: req.Description,
	}
	if err := s.repo.CreateRole(ctx, role); err != nil {
		s.logger.Warn("create role failed", zap.String("company_id", companyID), zap.Error(err))
		return domain.RoleResponse{}, mapRepositoryError(err)
	}
	if err := s.repo.UpdateRolePermissions(ctx, role.ID, permIDs); err != nil {
		return domain.RoleResponse{}, err
	}
	s.invalidate(companyID)

	s.logger.Info("role created", zap.String("company_id", companyID), zap.String("role_id", role.ID))
	return s.GetRole(ctx, companyID, role.ID)
}

func (s *service) UpdateRole(ctx context.Context, companyID, id string, req domain.UpdateRoleRequest) (domain.RoleResponse, error) {
	role, err := s.repo.GetRoleByID(ctx, companyID, id)
	if err != nil {
		return domain.RoleResponse{}, mapRepositoryError(err)
	}

	if strings.TrimSpace(req.Name) != "" {
		name, err := normalizeRoleName(req.Name)
		if err != nil {
			return domain.RoleResponse{}, err
		}
		role.Name = name
	}
	if req.Description != "" {
		role.Description = req.Description
	}
	if err := s.repo.UpdateRole(ctx, role); err != nil {
		return domain.RoleResponse{}, mapRepositoryError(err)
	}

	if req.Permissions != nil {
		permIDs, err := s.resolvePermissions(ctx, req.Permissions)
		if err != nil {
			return domain.RoleResponse{}, err
		}
		if err := s.repo.UpdateRolePermissions(ctx, role.ID, permIDs); err != nil {
			return domain.RoleResponse{}, err
		}
	}
	s.invalidate(companyID)

	s.logger.Info("role updated", zap.String("company_id", companyID), zap.String("role_id", id))
	return s.GetRole(ctx, companyID, id)
}

func (s *service) DeleteRole(ctx context.Context, companyID, id string) error {
	if err := s.repo.DeleteRole(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	s.invalidate(companyID)
	s.logger.Info("role deleted", zap.String("company_id", companyID), zap.String("role_id", id))
	return nil
}

func (s *service) AssignRole(ctx context.Context, companyID, roleID, userID string) error {
	if _, err := s.repo.GetRoleByID(ctx, companyID, roleID); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.repo.AssignUserRole(ctx, userID, roleID); err != nil {
		return err
	}
	s.invalidate(companyID)
	s.logger.Info("role assigned",
		zap.String("company_id", companyID),
		zap.String("role_id", roleID),
		zap.String("user_id", userID),
	)
	return nil
}

func (s *service) ListPermissions(ctx context.Context) ([]domain.PermissionResponse, error) {
	perms, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]domain.PermissionResponse, len(perms))
	for i, p := range perms {
		res[i] = domain.PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		}
	}
	return res, nil
}

func (s *service) resolvePermissions(ctx context.Context, keys []string) ([]string, error) {
	ids := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		resource, action, ok := ParsePermissionKey(key)
		if !ok {
			return nil, rbacerrors.ErrUnknownPermission
		}
		perm, err := s.repo.FindPermission(ctx, resource, action)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, rbacerrors.ErrUnknownPermission
			}
			return nil, err
		}
		if !seen[perm.ID] {
			seen[perm.ID] = true
			ids = append(ids, perm.ID)
		}
	}
	return ids, nil
}

func mapRoleResponse(role Role, perms []Permission) domain.RoleResponse {
	keys := make([]string, len(perms))
	for i, p := range perms {
		keys[i] = p.Resource + ":" + p.Action
	}
	return domain.RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: keys,
	}
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rbacerrors.ErrRoleNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return rbacerrors.ErrRoleAlreadyExists
	}
	return err
}
