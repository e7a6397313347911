package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"customer-order-api/internal/domain"
	"customer-order-api/internal/service"
	"customer-order-api/internal/transport/http/ez"
)

type customerIn struct {
	ID    uint   `json:"id"`
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"required,email"`
}

func (in *customerIn) model() *domain.Customer {
	return &domain.Customer{ID: in.ID, Name: in.Name, Email: in.Email}
}

// MountCustomers registers /customer on g, which must already run AuthJWT.
func MountCustomers(e ez.EZ, svc *service.CustomerService) {
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Customer]{
		Method: http.MethodGet,
		Path:   "/customer",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Customer, error) {
			return svc.List(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[domain.PaginationFilter, domain.PaginatedResult[domain.Customer]]{
		Method: http.MethodGet,
		Path:   "/customer/paged",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, f *domain.PaginationFilter) (domain.PaginatedResult[domain.Customer], error) {
			return svc.Page(c.Request.Context(), *f)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Customer]{
		Method: http.MethodGet,
		Path:   "/customer/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Customer, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			return svc.GetByID(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[customerIn, *domain.Customer]{
		Method: http.MethodPost,
		Path:   "/customer",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  []string{domain.RoleEmployer, domain.RoleAdmin},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *customerIn) (*domain.Customer, error) {
			m := in.model()
			if err := svc.Add(c.Request.Context(), m); err != nil {
				return nil, err
			}
			c.Header("Location", fmt.Sprintf("%s/%d", groupPath(c, "/customer"), m.ID))
			return m, nil
		},
	})

	ez.RegisterAction(e, ez.Action[customerIn, struct{}]{
		Method: http.MethodPut,
		Path:   "/customer/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  []string{domain.RoleEmployer, domain.RoleAdmin},
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, in *customerIn) (struct{}, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return struct{}{}, err
			}
			if id != in.ID {
				return struct{}{}, ez.BadRequest(idMismatch)
			}
			return struct{}{}, svc.Update(c.Request.Context(), in.model())
		},
	})

	del := ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, svc.Delete(c.Request.Context(), id)
		},
	}
	del.Path = "/customer"
	ez.RegisterAction(e, del)
	del.Path = "/customer/:id"
	ez.RegisterAction(e, del)
}
