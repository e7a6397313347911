package domain

import (
	"context"
	"time"
)

const (
	RoleUser     = "User"
	RoleEmployer = "Employer"
	RoleAdmin    = "Admin"
)

// ValidRole reports whether r is one of the roles the API authorizes against.
func ValidRole(r string) bool {
	switch r {
	case RoleUser, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID                    string     `gorm:"primaryKey;size:36" json:"id"`
	Username              string     `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash          string     `gorm:"size:100;not null" json:"-"`
	Role                  string     `gorm:"size:16;not null;default:User" json:"role"`
	RefreshTokenHash      string     `gorm:"size:64" json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, u *User) error
	Page(ctx context.Context, f PaginationFilter) (PaginatedResult[User], error)
}
