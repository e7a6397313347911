package domain

import (
	"context"
	"time"
)

type Order struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:50;not null;index" json:"name"`
	OrderDate  time.Time `gorm:"not null" json:"orderDate"`
	CustomerID uint      `gorm:"not null;index" json:"customerId"`
	Customer   *Customer `json:"customer,omitempty"`
}

func (Order) TableName() string { return "orders" }

type OrderRepository interface {
	List(ctx context.Context) ([]Order, error)
	FindByID(ctx context.Context, id uint) (*Order, error)
	Create(ctx context.Context, o *Order) error
	Save(ctx context.Context, o *Order) error
	Delete(ctx context.Context, o *Order) error
	Page(ctx context.Context, f PaginationFilter) (PaginatedResult[Order], error)
}
