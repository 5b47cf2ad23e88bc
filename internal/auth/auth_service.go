package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "ippis-portal/internal/auth/errors"
	"ippis-portal/internal/bootstrap"
	"ippis-portal/internal/domain"
	"ippis-portal/internal/shared/apperror"
	"ippis-portal/internal/shared/contextutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Options struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// PolicyLoader is satisfied by rbac.Service.
type PolicyLoader interface {
	LoadCompanyPolicy(ctx context.Context, companyID string) error
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, userID string) (*AuthResponse, error)

	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)

	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

type service struct {
	repo   Repository
	rbac   PolicyLoader
	audit  bootstrap.AuditLogger
	opts   Options
	logger *zap.Logger
}

func NewService(repo Repository, rbac PolicyLoader, audit bootstrap.AuditLogger, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 7 * 24 * time.Hour
	}
	if audit == nil {
		audit = bootstrap.NewStdoutAuditLogger(l)
	}
	return &service{repo: repo, rbac: rbac, audit: audit, opts: opts, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.logger.Debug("login requested", zap.String("request_id", contextutil.GetRequestID(ctx)), zap.String("email", email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
			return "", "", AuthResponse{}, err
		}
		s.loginFailed(ctx, email, "unknown email")
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.loginFailed(ctx, email, "wrong password")
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.loginFailed(ctx, email, "inactive account")
		return "", "", AuthResponse{}, autherrors.ErrUserInactive
	}

	// casbin domain harus siap sebelum request pertama
	if s.rbac != nil {
		if err := s.rbac.LoadCompanyPolicy(ctx, user.CompanyID); err != nil {
			s.logger.Error("login load policy failed", zap.String("company_id", user.CompanyID), zap.Error(err))
			return "", "", AuthResponse{}, err
		}
	}

	accessToken, refreshToken, err := s.issueTokens(user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "LOGIN_SUCCESS",
		Message: "user logged in",
		Meta:    map[string]any{"user_id": user.ID.String(), "company_id": user.CompanyID},
	})
	s.logger.Info("login success", zap.String("user_id", user.ID.String()))

	return accessToken, refreshToken, mapToResponse(user), nil
}

func (s *service) loginFailed(ctx context.Context, email, reason string) {
	s.logger.Warn("login failed", zap.String("email", email), zap.String("reason", reason))
	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "LOGIN_FAILED",
		Message: reason,
		Meta:    map[string]any{"email": email},
	})
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil || claims.TokenType != domain.TokenTypeRefresh {
		s.logger.Warn("refresh token rejected", zap.Error(err))
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrUserInactive
	}

	newAccessToken, newRefreshToken, err := s.issueTokens(user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	s.logger.Info("token refreshed", zap.String("user_id", user.ID.String()))
	return newAccessToken, newRefreshToken, mapToResponse(user), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := mapToResponse(u)
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	if strings.TrimSpace(req.CompanyID) == "" {
		return AuthResponse{}, apperror.RequiredField("Company ID")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = "EMPLOYEE"
	}

	user := &User{
		ID:        uuid.New(),
		CompanyID: strings.TrimSpace(req.CompanyID),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Name:      strings.TrimSpace(req.Name),
		Password:  string(hashed),
		Role:      role,
		IsActive:  true,
	}
	if eid := strings.TrimSpace(req.EmployeeID); eid != "" {
		user.EmployeeID = &eid
	}

	if err := s.repo.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		s.logger.Error("register persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "USER_REGISTERED",
		Message: "portal user created",
		Meta: map[string]any{
			"user_id":    user.ID.String(),
			"company_id": user.CompanyID,
			"created_by": contextutil.GetUserID(ctx),
		},
	})
	s.logger.Info("register success", zap.String("user_id", user.ID.String()))

	return mapToResponse(user), nil
}

func (s *service) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return autherrors.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return autherrors.ErrWrongCurrentPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, string(hashed)); err != nil {
		s.logger.Error("change password persist failed", zap.Error(err))
		return err
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "PASSWORD_CHANGED",
		Message: "user changed password",
		Meta:    map[string]any{"user_id": userID},
	})
	return nil
}

func (s *service) issueTokens(user *User) (string, string, error) {
	accessToken, err := s.generateToken(user, domain.TokenTypeAccess, s.opts.AccessTTL)
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(user, domain.TokenTypeRefresh, s.opts.RefreshTTL)
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	return accessToken, refreshToken, nil
}

func (s *service) generateToken(user *User, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := domain.Claims{
		UserID:     user.ID.String(),
		CompanyID:  user.CompanyID,
		EmployeeID: derefString(user.EmployeeID),
		Role:       user.Role,
		TokenType:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.opts.Secret))
}

func (s *service) parseToken(tokenString string) (*domain.Claims, error) {
	claims := &domain.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.opts.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}

func mapToResponse(u *User) AuthResponse {
	return AuthResponse{
		ID:         u.ID.String(),
		CompanyID:  u.CompanyID,
		EmployeeID: derefString(u.EmployeeID),
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
	}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
