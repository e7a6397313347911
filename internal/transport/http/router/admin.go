package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"customer-order-api/internal/core/auth"
	"customer-order-api/internal/core/config"
	"customer-order-api/internal/core/server"
	"customer-order-api/internal/domain"
	"customer-order-api/internal/transport/http/ez"
	"customer-order-api/internal/transport/http/handler"
	mdw "customer-order-api/internal/transport/http/middleware"
	resp "customer-order-api/internal/transport/http/response"
	"customer-order-api/internal/validation"
)

// NewAdminEngine builds the management server. Everything under /admin/v1
// requires the Admin role.
func NewAdminEngine(l *zap.Logger, svc Services, jwter *auth.JWTer, lim config.Limits) *gin.Engine {
	validation.MustRegister()

	r := server.NewEngine(l, server.Options{})
	use(r, l, lim)

	r.GET("/health", func(c *gin.Context) { resp.Success(c, http.StatusOK, gin.H{"ok": 1}) })

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))
	handler.MountAdminUsers(ez.New(admin, l), svc.Users)
	return r
}
