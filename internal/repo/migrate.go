package repo

import (
	"gorm.io/gorm"

	"customer-order-api/internal/domain"
)

// AutoMigrate creates or updates the tables backing the repositories.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Customer{}, &domain.Order{}, &domain.User{})
}
