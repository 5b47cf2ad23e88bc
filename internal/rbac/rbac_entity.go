package rbac

import "time"

type Role struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID   string `gorm:"type:varchar(64);not null;uniqueIndex:uq_role_company_name"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:uq_role_company_name"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Permission struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Resource string `gorm:"type:varchar(64);not null;uniqueIndex:uq_permission_resource_action"`
	Action   string `gorm:"type:varchar(32);not null;uniqueIndex:uq_permission_resource_action"`
	Label    string
	Category string
}

type RolePermission struct {
	RoleID       string `gorm:"primaryKey;type:uuid"`
	PermissionID string `gorm:"primaryKey;type:uuid"`
}

type UserRole struct {
	UserID string `gorm:"primaryKey;type:uuid"`
	RoleID string `gorm:"primaryKey;type:uuid"`
}

type UserRoleRow struct {
	UserID string
	RoleID string
}

type RolePermissionRow struct {
	RoleID   string
	Resource string
	Action   string
}

// Models lists the tables owned by this package, for AutoMigrate.
func Models() []any {
	return []any{&Role{}, &Permission{}, &RolePermission{}, &UserRole{}}
}
