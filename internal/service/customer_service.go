package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"customer-order-api/internal/core/cache"
	"customer-order-api/internal/domain"
)

type CustomerService struct {
	repo  domain.CustomerRepository
	cache *cache.Gateway
	log   *zap.Logger
}

func NewCustomerService(repo domain.CustomerRepository, c *cache.Gateway, l *zap.Logger) *CustomerService {
	return &CustomerService{repo: repo, cache: c, log: l.Named("customers")}
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.KeyAllCustomers,
		func(ctx context.Context) ([]domain.Customer, bool, error) {
			cs, err := s.repo.List(ctx)
			return cs, len(cs) > 0, err
		})
	if err != nil {
		s.log.Error("list customers failed", zap.Error(err))
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id uint) (*domain.Customer, error) {
	c, err := cache.ReadThrough(ctx, s.cache, cache.CustomerKey(id),
		func(ctx context.Context) (*domain.Customer, bool, error) {
			c, err := s.repo.FindByID(ctx, id)
			return c, c != nil, err
		})
	if err != nil {
		s.log.Error("get customer failed", zap.Uint("id", id), zap.Error(err))
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	if c == nil {
		return nil, fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

// Add persists c and assigns its id. The list cache is invalidated; the new
// customer is cached on its first read.
func (s *CustomerService) Add(ctx context.Context, c *domain.Customer) error {
	if c == nil {
		return fmt.Errorf("customer is required: %w", domain.ErrValidation)
	}
	c.ID = 0
	c.Orders = nil
	if err := s.repo.Create(ctx, c); err != nil {
		s.log.Error("add customer failed", zap.String("name", c.Name), zap.Error(err))
		return fmt.Errorf("add customer: %w", err)
	}
	s.cache.Delete(ctx, cache.KeyAllCustomers)
	s.log.Info("customer created", zap.Uint("id", c.ID))
	return nil
}

// Update copies name and email onto the stored customer.
func (s *CustomerService) Update(ctx context.Context, in *domain.Customer) error {
	if in == nil {
		return fmt.Errorf("customer is required: %w", domain.ErrValidation)
	}
	cur, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return fmt.Errorf("load customer %d: %w", in.ID, err)
	}
	if cur == nil {
		s.log.Warn("customer not found", zap.Uint("id", in.ID))
		return fmt.Errorf("customer %d: %w", in.ID, domain.ErrNotFound)
	}
	cur.Name = in.Name
	cur.Email = in.Email
	if err := s.repo.Save(ctx, cur); err != nil {
		s.log.Error("update customer failed", zap.Uint("id", in.ID), zap.Error(err))
		return fmt.Errorf("update customer %d: %w", in.ID, err)
	}
	s.cache.Delete(ctx, cache.KeyAllCustomers, cache.CustomerKey(cur.ID))
	s.log.Info("customer updated", zap.Uint("id", cur.ID))
	return nil
}

// Delete removes the customer; a missing id is not an error. A customer that
// still has orders is refused with ErrValidation.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	log := s.log.With(zap.Uint("id", id), zap.String("tx", uuid.NewString()))
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load customer %d: %w", id, err)
	}
	if cur == nil {
		log.Info("customer already absent, nothing to delete")
		return nil
	}
	has, err := s.repo.HasOrders(ctx, id)
	if err != nil {
		return fmt.Errorf("check orders of customer %d: %w", id, err)
	}
	if has {
		log.Warn("customer has orders, delete refused")
		return fmt.Errorf("customer %d has orders: %w", id, domain.ErrValidation)
	}
	if err := s.repo.Delete(ctx, cur); err != nil {
		log.Error("delete customer failed", zap.Error(err))
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	s.cache.Delete(ctx, cache.KeyAllCustomers, cache.CustomerKey(id))
	log.Info("customer deleted")
	return nil
}

// Page never consults the cache.
func (s *CustomerService) Page(ctx context.Context, f domain.PaginationFilter) (domain.PaginatedResult[domain.Customer], error) {
	res, err := s.repo.Page(ctx, f)
	if err != nil {
		return res, fmt.Errorf("page customers: %w", err)
	}
	return res, nil
}
