package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"customer-order-api/internal/domain"
	"customer-order-api/internal/service"
	"customer-order-api/internal/transport/http/ez"
)

type orderIn struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name" binding:"required,min=2,max=50"`
	OrderDate  time.Time `json:"orderDate" binding:"required,notfuture"`
	CustomerID uint      `json:"customerId" binding:"required,gt=0"`
}

func (in *orderIn) model() *domain.Order {
	return &domain.Order{ID: in.ID, Name: in.Name, OrderDate: in.OrderDate, CustomerID: in.CustomerID}
}

func MountOrders(e ez.EZ, svc *service.OrderService) {
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Order]{
		Method: http.MethodGet,
		Path:   "/order",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Order, error) {
			return svc.List(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[domain.PaginationFilter, domain.PaginatedResult[domain.Order]]{
		Method: http.MethodGet,
		Path:   "/order/paged",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, f *domain.PaginationFilter) (domain.PaginatedResult[domain.Order], error) {
			return svc.Page(c.Request.Context(), *f)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Order]{
		Method: http.MethodGet,
		Path:   "/order/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Order, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			return svc.GetByID(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[orderIn, *domain.Order]{
		Method: http.MethodPost,
		Path:   "/order",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  []string{domain.RoleEmployer, domain.RoleAdmin},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *orderIn) (*domain.Order, error) {
			m := in.model()
			if err := svc.Add(c.Request.Context(), m); err != nil {
				return nil, err
			}
			c.Header("Location", fmt.Sprintf("%s/%d", groupPath(c, "/order"), m.ID))
			return m, nil
		},
	})

	ez.RegisterAction(e, ez.Action[orderIn, struct{}]{
		Method: http.MethodPut,
		Path:   "/order/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  []string{domain.RoleEmployer, domain.RoleAdmin},
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, in *orderIn) (struct{}, error) {
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
	del.Path = "/order"
	ez.RegisterAction(e, del)
	del.Path = "/order/:id"
	ez.RegisterAction(e, del)
}
