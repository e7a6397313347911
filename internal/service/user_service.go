package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"customer-order-api/internal/domain"
)

// UserService backs the admin surface.
type UserService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, l *zap.Logger) *UserService {
	return &UserService{users: users, log: l.Named("users")}
}

func (s *UserService) Page(ctx context.Context, f domain.PaginationFilter) (domain.PaginatedResult[domain.User], error) {
	res, err := s.users.Page(ctx, f)
	if err != nil {
		return res, fmt.Errorf("page users: %w", err)
	}
	return res, nil
}

func (s *UserService) SetRole(ctx context.Context, id, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("role must be one of %s: %w",
			strings.Join([]string{domain.RoleUser, domain.RoleEmployer, domain.RoleAdmin}, ", "), domain.ErrValidation)
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	u.Role = role
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.log.Info("role changed", zap.String("user_id", id), zap.String("role", role))
	return u, nil
}

func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
