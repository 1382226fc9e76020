package auth

import (
	"context"
	"errors"

	autherrors "rh-management/internal/auth/errors"
	"rh-management/internal/shared/token"
	"rh-management/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
}

type service struct {
	repo   Repository
	tokens *token.Manager
	logger *zap.Logger
}

func NewService(repo Repository, tokens *token.Manager, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, tokens: tokens, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
			return TokenPair{}, AuthResponse{}, err
		}
		s.logger.Warn("login unknown email")
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Warn("login wrong password", zap.String("user_id", u.ID.String()))
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if !u.IsActive {
		s.logger.Warn("login disabled account", zap.String("user_id", u.ID.String()))
		return TokenPair{}, AuthResponse{}, autherrors.ErrAccountDisabled
	}

	pair, err := s.issue(u)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}

	s.logger.Info("login success", zap.String("user_id", u.ID.String()), zap.String("role", u.Role.String()))
	return pair, toResponse(u), nil
}

// RefreshToken reloads the user so a role change or deactivation applies
// from the next refresh.
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error) {
	claims, err := s.tokens.Parse(refreshToken, token.TypeRefresh)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !u.IsActive {
		return TokenPair{}, AuthResponse{}, autherrors.ErrAccountDisabled
	}

	pair, err := s.issue(u)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}
	return pair, toResponse(u), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrUserNotFound
	}

	return toResponse(u), nil
}

func (s *service) issue(u *user.User) (TokenPair, error) {
	access, err := s.tokens.IssueAccess(u.ID.String(), u.Role.String())
	if err != nil {
		s.logger.Error("issue access token failed", zap.Error(err))
		return TokenPair{}, autherrors.ErrTokenGenerationFailed
	}
	refresh, err := s.tokens.IssueRefresh(u.ID.String(), u.Role.String())
	if err != nil {
		s.logger.Error("issue refresh token failed", zap.Error(err))
		return TokenPair{}, autherrors.ErrTokenGenerationFailed
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func toResponse(u *user.User) AuthResponse {
	return AuthResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.String(),
	}
}
