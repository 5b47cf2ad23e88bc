package activity

import (
	"context"

	"ippis-portal/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=activity_repo.go -destination=mock/activity_repo_mock.go -package=mock
type Repository interface {
	// Insert stores the log unless one with the same ID exists; it reports whether a row was written.
	Insert(ctx context.Context, log *ActivityLog) (bool, error)
	ListRecent(ctx context.Context, companyID string, limit int) ([]ActivityLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, log *ActivityLog) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(log)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListRecent(ctx context.Context, companyID string, limit int) ([]ActivityLog, error) {
	var logs []ActivityLog
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
