package repo

import (
	"context"

	"gorm.io/gorm"

	"customer-order-api/internal/domain"
)

var orderPage = pageSpec{
	SearchColumn: "name",
	Sorts: SortColumns{
		"id":         {Name: "id"},
		"name":       {Name: "name"},
		"orderdate":  {Name: "order_date"},
		"customerid": {Name: "customer_id"},
	},
}

type OrderRepo struct {
	db *gorm.DB
	s  store[domain.Order]
}

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db, s: store[domain.Order]{db: db}}
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) { return r.s.list(ctx) }

func (r *OrderRepo) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return r.s.findByID(ctx, id)
}

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error { return r.s.create(ctx, o) }

func (r *OrderRepo) Save(ctx context.Context, o *domain.Order) error { return r.s.save(ctx, o) }

func (r *OrderRepo) Delete(ctx context.Context, o *domain.Order) error { return r.s.delete(ctx, o) }

func (r *OrderRepo) Page(ctx context.Context, f domain.PaginationFilter) (domain.PaginatedResult[domain.Order], error) {
	return Paginate[domain.Order](ctx, r.db, orderPage, f)
}

var _ domain.OrderRepository = (*OrderRepo)(nil)
