package employee

import (
	"context"

	"ippis-portal/internal/backend"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	List(ctx context.Context, q backend.ListQuery) ([]Employee, backend.ListMeta, error)
	ListAll(ctx context.Context, q backend.ListQuery, pageSize int) ([]Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, payload any) (Employee, error)
	Update(ctx context.Context, id string, payload any) (Employee, error)
	Delete(ctx context.Context, id string) error
}

// NewRepository returns the typed backend client for /employees.
func NewRepository(client *backend.Client) Repository {
	return backend.NewResource[Employee](client, "employee", "/employees")
}
