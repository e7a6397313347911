package domain

import "context"

type Customer struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	Name   string  `gorm:"size:100;not null;index" json:"name"`
	Email  string  `gorm:"size:191;not null" json:"email"`
	Orders []Order `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
}

func (Customer) TableName() string { return "customers" }

// CustomerRepository is the relational store for customers. FindByID returns
// (nil, nil) when the row does not exist.
type CustomerRepository interface {
	List(ctx context.Context) ([]Customer, error)
	FindByID(ctx context.Context, id uint) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
	Save(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, c *Customer) error
	HasOrders(ctx context.Context, id uint) (bool, error)
	Page(ctx context.Context, f PaginationFilter) (PaginatedResult[Customer], error)
}
