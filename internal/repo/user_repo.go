package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"customer-order-api/internal/domain"
)

var userPage = pageSpec{
	SearchColumn: "username",
	Sorts: SortColumns{
		"username":  {Name: "username"},
		"role":      {Name: "role"},
		"createdat": {Name: "created_at"},
	},
}

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepo) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepo) Page(ctx context.Context, f domain.PaginationFilter) (domain.PaginatedResult[domain.User], error) {
	return Paginate[domain.User](ctx, r.db, userPage, f)
}

var _ domain.UserRepository = (*UserRepo)(nil)
