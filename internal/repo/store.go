package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// store holds the id-keyed operations shared by the customer and order repos.
type store[T any] struct{ db *gorm.DB }

func (s store[T]) list(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	err := s.db.WithContext(ctx).Order("id").Find(&items).Error
	return items, err
}

func (s store[T]) findByID(ctx context.Context, id uint) (*T, error) {
	var m T
	err := s.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s store[T]) create(ctx context.Context, m *T) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

func (s store[T]) save(ctx context.Context, m *T) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error
}

func (s store[T]) delete(ctx context.Context, m *T) error {
	return s.db.WithContext(ctx).Delete(m).Error
}
