package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"customer-order-api/internal/core/auth"
	"customer-order-api/internal/core/config"
	"customer-order-api/internal/core/server"
	"customer-order-api/internal/service"
	"customer-order-api/internal/transport/http/ez"
	"customer-order-api/internal/transport/http/handler"
	mdw "customer-order-api/internal/transport/http/middleware"
	resp "customer-order-api/internal/transport/http/response"
	"customer-order-api/internal/validation"
)

type Services struct {
	Customers *service.CustomerService
	Orders    *service.OrderService
	Auth      *service.AuthService
	Users     *service.UserService
}

// NewAPIEngine builds the public server: /api plus /health and /metrics.
func NewAPIEngine(l *zap.Logger, svc Services, jwter *auth.JWTer, lim config.Limits, cors []string) *gin.Engine {
	validation.MustRegister()

	r := server.NewEngine(l, server.Options{AllowedOrigins: cors})
	use(r, l, lim)

	r.GET("/health", func(c *gin.Context) { resp.Success(c, http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) { resp.Abort(c, http.StatusNotFound, "route not found") })

	api := r.Group("/api")
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter))

	public := ez.New(api, l)
	private := ez.New(authed, l)

	handler.MountAuth(public, private, svc.Auth)
	handler.MountCustomers(private, svc.Customers)
	handler.MountOrders(private, svc.Orders)
	return r
}

func use(r *gin.Engine, l *zap.Logger, lim config.Limits) {
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.GlobalRPS), lim.GlobalBurst),
		mdw.RateLimitPerIP(rate.Limit(lim.RPS), lim.Burst),
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.Timeout()),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)
}
