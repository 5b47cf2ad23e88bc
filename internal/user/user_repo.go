package user

import (
	"context"
	"strings"

	"ippis-portal/internal/auth"
	"ippis-portal/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	ListByCompany(ctx context.Context, companyID, search string) ([]auth.User, error)
	FindByID(ctx context.Context, companyID string, id uuid.UUID) (*auth.User, error)
	UpdateStatus(ctx context.Context, companyID string, id uuid.UUID, active bool) error
	UpdatePassword(ctx context.Context, companyID string, id uuid.UUID, hashed string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository works on the same users table as the auth module, always scoped to one organisation.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByCompany(ctx context.Context, companyID, search string) ([]auth.User, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(email) LIKE ? OR LOWER(name) LIKE ?)", like, like)
	}

	var users []auth.User
	err := q.Order("name ASC").Find(&users).Error
	return users, err
}

func (r *repository) FindByID(ctx context.Context, companyID string, id uuid.UUID) (*auth.User, error) {
	var u auth.User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) UpdateStatus(ctx context.Context, companyID string, id uuid.UUID, active bool) error {
	return r.update(ctx, companyID, id, "is_active", active)
}

func (r *repository) UpdatePassword(ctx context.Context, companyID string, id uuid.UUID, hashed string) error {
	return r.update(ctx, companyID, id, "password", hashed)
}

func (r *repository) update(ctx context.Context, companyID string, id uuid.UUID, column string, value any) error {
	res := r.db.WithContext(ctx).
		Model(&auth.User{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
