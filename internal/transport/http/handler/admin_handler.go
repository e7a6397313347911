package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"customer-order-api/internal/domain"
	"customer-order-api/internal/service"
	"customer-order-api/internal/transport/http/ez"
)

type roleIn struct {
	Role string `json:"role" binding:"required,oneof=User Employer Admin"`
}

// MountAdminUsers registers the user management routes. The group is expected
// to require the Admin role already; the actions check it again.
func MountAdminUsers(e ez.EZ, svc *service.UserService) {
	admin := []string{domain.RoleAdmin}

	ez.RegisterAction(e, ez.Action[domain.PaginationFilter, domain.PaginatedResult[domain.User]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  admin,
		Handler: func(c *gin.Context, f *domain.PaginationFilter) (domain.PaginatedResult[domain.User], error) {
			return svc.Page(c.Request.Context(), *f)
		},
	})

	ez.RegisterAction(e, ez.Action[roleIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id/role",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  admin,
		Handler: func(c *gin.Context, in *roleIn) (*domain.User, error) {
			return svc.SetRole(c.Request.Context(), c.Param("id"), in.Role)
		},
	})
}
