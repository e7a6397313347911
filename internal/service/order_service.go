package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"customer-order-api/internal/core/cache"
	"customer-order-api/internal/domain"
)

type OrderService struct {
	repo      domain.OrderRepository
	customers domain.CustomerRepository
	cache     *cache.Gateway
	log       *zap.Logger
}

func NewOrderService(repo domain.OrderRepository, customers domain.CustomerRepository, c *cache.Gateway, l *zap.Logger) *OrderService {
	return &OrderService{repo: repo, customers: customers, cache: c, log: l.Named("orders")}
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.KeyAllOrders,
		func(ctx context.Context) ([]domain.Order, bool, error) {
			list, err := s.repo.List(ctx)
			return list, len(list) > 0, err
		})
	if err != nil {
		s.log.Error("list orders failed", zap.Error(err))
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

func (s *OrderService) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	o, err := cache.ReadThrough(ctx, s.cache, cache.OrderKey(id),
		func(ctx context.Context) (*domain.Order, bool, error) {
			o, err := s.repo.FindByID(ctx, id)
			return o, o != nil, err
		})
	if err != nil {
		s.log.Error("get order failed", zap.Uint("id", id), zap.Error(err))
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	if o == nil {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

// checkCustomer rejects orders pointing at a missing customer.
func (s *OrderService) checkCustomer(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("a valid customerId is required: %w", domain.ErrValidation)
	}
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load customer %d: %w", id, err)
	}
	if c == nil {
		return fmt.Errorf("customer %d does not exist: %w", id, domain.ErrValidation)
	}
	return nil
}

func (s *OrderService) Add(ctx context.Context, o *domain.Order) error {
	if o == nil {
		return fmt.Errorf("order is required: %w", domain.ErrValidation)
	}
	if err := s.checkCustomer(ctx, o.CustomerID); err != nil {
		return err
	}
	o.ID = 0
	o.Customer = nil
	if err := s.repo.Create(ctx, o); err != nil {
		s.log.Error("add order failed", zap.String("name", o.Name), zap.Error(err))
		return fmt.Errorf("add order: %w", err)
	}
	s.cache.Delete(ctx, cache.KeyAllOrders)
	s.log.Info("order created", zap.Uint("id", o.ID), zap.Uint("customer_id", o.CustomerID))
	return nil
}

// Update copies name, order date and customer id onto the stored order.
func (s *OrderService) Update(ctx context.Context, in *domain.Order) error {
	if in == nil {
		return fmt.Errorf("order is required: %w", domain.ErrValidation)
	}
	cur, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return fmt.Errorf("load order %d: %w", in.ID, err)
	}
	if cur == nil {
		s.log.Warn("order not found", zap.Uint("id", in.ID))
		return fmt.Errorf("order %d: %w", in.ID, domain.ErrNotFound)
	}
	if err := s.checkCustomer(ctx, in.CustomerID); err != nil {
		return err
	}
	cur.Name = in.Name
	cur.OrderDate = in.OrderDate
	cur.CustomerID = in.CustomerID
	if err := s.repo.Save(ctx, cur); err != nil {
		s.log.Error("update order failed", zap.Uint("id", in.ID), zap.Error(err))
		return fmt.Errorf("update order %d: %w", in.ID, err)
	}
	s.cache.Delete(ctx, cache.KeyAllOrders, cache.OrderKey(cur.ID))
	s.log.Info("order updated", zap.Uint("id", cur.ID))
	return nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	log := s.log.With(zap.Uint("id", id), zap.String("tx", uuid.NewString()))
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load order %d: %w", id, err)
	}
	if cur == nil {
		log.Info("order already absent, nothing to delete")
		return nil
	}
	if err := s.repo.Delete(ctx, cur); err != nil {
		log.Error("delete order failed", zap.Error(err))
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	s.cache.Delete(ctx, cache.KeyAllOrders, cache.OrderKey(id))
	log.Info("order deleted")
	return nil
}

func (s *OrderService) Page(ctx context.Context, f domain.PaginationFilter) (domain.PaginatedResult[domain.Order], error) {
	res, err := s.repo.Page(ctx, f)
	if err != nil {
		return res, fmt.Errorf("page orders: %w", err)
	}
	return res, nil
}
