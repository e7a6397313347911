package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"customer-order-api/internal/core/cache"
	"customer-order-api/internal/core/database"
	"customer-order-api/internal/domain"
	"customer-order-api/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(dsn)), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, repo.AutoMigrate(db))
	return db
}

func newTestCache(t *testing.T) (*cache.Gateway, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewGateway(rdb, zap.NewNop()), mr
}

// countingCustomers records how often reads reach the store.
type countingCustomers struct {
	domain.CustomerRepository
	lists, finds int
}

func (c *countingCustomers) List(ctx context.Context) ([]domain.Customer, error) {
	c.lists++
	return c.CustomerRepository.List(ctx)
}

func (c *countingCustomers) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	c.finds++
	return c.CustomerRepository.FindByID(ctx, id)
}

type countingOrders struct {
	domain.OrderRepository
	lists, finds int
}

func (c *countingOrders) List(ctx context.Context) ([]domain.Order, error) {
	c.lists++
	return c.OrderRepository.List(ctx)
}

func (c *countingOrders) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	c.finds++
	return c.OrderRepository.FindByID(ctx, id)
}
