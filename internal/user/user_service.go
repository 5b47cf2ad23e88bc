package user

import (
	"context"
	"errors"

	"ippis-portal/internal/events"
	"ippis-portal/internal/shared/contextutil"
	usererrors "ippis-portal/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, companyID, search string) ([]UserResponse, error)
	GetByID(ctx context.Context, companyID, id string) (UserResponse, error)
	SetStatus(ctx context.Context, companyID, actorID, id string, active bool) error
	ResetPassword(ctx context.Context, companyID, id, newPassword string) error
}

type service struct {
	repo      Repository
	publisher events.Publisher
	logger    *zap.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &service{repo: repo, publisher: publisher, logger: l}
}

func (s *service) List(ctx context.Context, companyID, search string) ([]UserResponse, error) {
	users, err := s.repo.ListByCompany(ctx, companyID, search)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list users failed", zap.Error(err))
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (UserResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, companyID, uid)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) SetStatus(ctx context.Context, companyID, actorID, id string, active bool) error {
	l := contextutil.GetLogger(ctx, s.logger)

	uid, err := uuid.Parse(id)
	if err != nil {
		return usererrors.ErrInvalidUserID
	}
	if actor, err := uuid.Parse(actorID); !active && err == nil && actor == uid {
		return usererrors.ErrCannotDeactivateSelf
	}

	if err := s.repo.UpdateStatus(ctx, companyID, uid, active); err != nil {
		l.Warn("update user status failed", zap.String("target_user_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	summary := "user deactivated"
	if active {
		summary = "user activated"
	}
	s.publish(ctx, id, summary)
	l.Info("user status updated", zap.String("target_user_id", id), zap.Bool("is_active", active))
	return nil
}

func (s *service) ResetPassword(ctx context.Context, companyID, id, newPassword string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	uid, err := uuid.Parse(id)
	if err != nil {
		return usererrors.ErrInvalidUserID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		l.Error("hash password failed", zap.Error(err))
		return err
	}

	if err := s.repo.UpdatePassword(ctx, companyID, uid, string(hashed)); err != nil {
		l.Warn("reset password failed", zap.String("target_user_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.publish(ctx, id, "password reset by administrator")
	l.Info("user password reset", zap.String("target_user_id", id))
	return nil
}

func (s *service) publish(ctx context.Context, userID, summary string) {
	event := events.NewActivityEvent(ctx, events.RecordUpdated, "user", userID, summary)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("user activity enqueue failed",
			zap.String("request_id", event.RequestID),
			zap.String("target_user_id", userID),
			zap.Error(err),
		)
	}
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}
	return err
}
