package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"customer-order-api/internal/core/auth"
	"customer-order-api/internal/domain"
	"customer-order-api/pkg/utils"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthService struct {
	users      domain.UserRepository
	jwt        *auth.JWTer
	refreshTTL time.Duration
	log        *zap.Logger

	// compared against when the username is unknown so both failure paths cost one bcrypt check
	dummyHash string
}

func NewAuthService(users domain.UserRepository, j *auth.JWTer, refreshTTL time.Duration, l *zap.Logger) *AuthService {
	dummy, _ := utils.HashPassword(uuid.NewString())
	return &AuthService{users: users, jwt: j, refreshTTL: refreshTTL, log: l.Named("auth"), dummyHash: dummy}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.create(ctx, username, password, domain.RoleUser)
}

func (s *AuthService) create(ctx context.Context, username, password, role string) (*domain.User, error) {
	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("password not accepted: %w", domain.ErrValidation)
	}
	u := &domain.User{ID: uuid.NewString(), Username: username, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		if isDupKey(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", role))
	return u, nil
}

// EnsureAdmin creates an Admin account when username is not taken yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.create(ctx, username, password, domain.RoleAdmin)
	if errors.Is(err, domain.ErrUsernameTaken) {
		return nil
	}
	return err
}

func (s *AuthService) verify(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		utils.CheckPassword(password, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// LoginToken is the first login contract: the access token alone.
func (s *AuthService) LoginToken(ctx context.Context, username, password string) (string, error) {
	u, err := s.verify(ctx, username, password)
	if err != nil {
		return "", err
	}
	tok, err := s.jwt.Issue(u.ID, u.Username, u.Role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

// Login issues an access token and a new refresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	u, err := s.verify(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.issuePair(ctx, u)
}

// Refresh exchanges a valid refresh token for a new pair. The old refresh
// token stops working.
func (s *AuthService) Refresh(ctx context.Context, userID, refreshToken string) (*TokenPair, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil || u.RefreshTokenHash == "" || refreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(u.RefreshTokenHash), []byte(auth.HashRefreshToken(refreshToken))) != 1 ||
		u.RefreshTokenExpiresAt == nil || !time.Now().Before(*u.RefreshTokenExpiresAt) {
		return nil, domain.ErrInvalidRefreshToken
	}
	return s.issuePair(ctx, u)
}

func (s *AuthService) issuePair(ctx context.Context, u *domain.User) (*TokenPair, error) {
	access, err := s.jwt.Issue(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	refresh, err := auth.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	exp := time.Now().Add(s.refreshTTL)
	u.RefreshTokenHash = auth.HashRefreshToken(refresh)
	u.RefreshTokenExpiresAt = &exp
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
