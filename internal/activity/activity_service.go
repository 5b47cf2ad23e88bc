package activity

import (
	"context"
	"errors"

	"ippis-portal/internal/events"
	"ippis-portal/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

var ErrInvalidEvent = errors.New("activity event is missing id, company or type")

//go:generate mockgen -source=activity_service.go -destination=mock/activity_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, event events.ActivityEvent) error
	List(ctx context.Context, companyID string, limit int) ([]ActivityLog, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("activity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("activity.service")
	}
	return &service{repo: repo, logger: l}
}

// Record persists a consumed event. Replays of an already stored event succeed without writing.
func (s *service) Record(ctx context.Context, event events.ActivityEvent) error {
	if _, err := uuid.Parse(event.ID); err != nil || event.CompanyID == "" || event.EventType == "" {
		return ErrInvalidEvent
	}

	entry := FromEvent(event)
	inserted, err := s.repo.Insert(ctx, &entry)
	if err != nil {
		s.logger.Error("record activity failed", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	if !inserted {
		s.logger.Debug("activity already recorded", zap.String("event_id", event.ID))
	}
	return nil
}

func (s *service) List(ctx context.Context, companyID string, limit int) ([]ActivityLog, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	logs, err := s.repo.ListRecent(ctx, companyID, limit)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list activity failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}
	if logs == nil {
		logs = []ActivityLog{}
	}
	return logs, nil
}
