package auth_test

import (
	"context"
	"testing"

	"ippis-portal/internal/auth"
	"ippis-portal/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db, sqlMock
}

func userRow(id uuid.UUID, role string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "company_id", "name", "email", "password", "role", "is_active"}).
		AddRow(id, "MDA-FMOH", "Ada", "ada@fmoh.gov.ng", "hash", role, true)
}

func TestRepository_EffectiveRoleFromOrganisationRoles(t *testing.T) {
	db, sqlMock := newGormMock(t)
	repo := auth.NewRepository(db)
	id := uuid.New()

	sqlMock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRow(id, "EMPLOYEE"))
	sqlMock.ExpectQuery(`FROM user_roles ur JOIN roles .*UPPER\(roles\.name\) <> `).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("hr"))

	user, err := repo.GetByEmail(context.Background(), "ADA@fmoh.gov.ng")

	require.NoError(t, err)
	assert.Equal(t, "HR", user.Role)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRepository_SuperAdminComesOnlyFromUserRow(t *testing.T) {
	db, sqlMock := newGormMock(t)
	repo := auth.NewRepository(db)
	id := uuid.New()

	sqlMock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRow(id, "superadmin"))

	user, err := repo.GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, user.Role)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
