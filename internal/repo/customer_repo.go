package repo

import (
	"context"

	"gorm.io/gorm"

	"customer-order-api/internal/domain"
)

var customerPage = pageSpec{
	SearchColumn: "name",
	Sorts: SortColumns{
		"id":    {Name: "id"},
		"name":  {Name: "name"},
		"email": {Name: "email"},
	},
}

type CustomerRepo struct {
	db *gorm.DB
	s  store[domain.Customer]
}

func NewCustomerRepo(db *gorm.DB) *CustomerRepo {
	return &CustomerRepo{db: db, s: store[domain.Customer]{db: db}}
}

func (r *CustomerRepo) List(ctx context.Context) ([]domain.Customer, error) { return r.s.list(ctx) }

func (r *CustomerRepo) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	return r.s.findByID(ctx, id)
}

func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	return r.s.create(ctx, c)
}

func (r *CustomerRepo) Save(ctx context.Context, c *domain.Customer) error { return r.s.save(ctx, c) }

func (r *CustomerRepo) Delete(ctx context.Context, c *domain.Customer) error {
	return r.s.delete(ctx, c)
}

func (r *CustomerRepo) HasOrders(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("customer_id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *CustomerRepo) Page(ctx context.Context, f domain.PaginationFilter) (domain.PaginatedResult[domain.Customer], error) {
	return Paginate[domain.Customer](ctx, r.db, customerPage, f)
}

var _ domain.CustomerRepository = (*CustomerRepo)(nil)
