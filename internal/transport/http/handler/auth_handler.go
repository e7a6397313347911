package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"customer-order-api/internal/domain"
	"customer-order-api/internal/service"
	"customer-order-api/internal/transport/http/ez"
	mdw "customer-order-api/internal/transport/http/middleware"
)

type registerIn struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type loginIn struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshIn struct {
	UserID       string `json:"userId" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// MountAuth registers /auth and the legacy /user routes. public must not run
// AuthJWT; authed must.
func MountAuth(public, authed ez.EZ, svc *service.AuthService) {
	register := ez.Action[registerIn, *domain.User]{
		Method: http.MethodPost,
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (*domain.User, error) {
			return svc.Register(c.Request.Context(), in.Username, in.Password)
		},
	}
	register.Path = "/auth/register"
	ez.RegisterAction(public, register)
	register.Path = "/user/register"
	ez.RegisterAction(public, register)

	ez.RegisterAction(public, ez.Action[loginIn, *service.TokenPair]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (*service.TokenPair, error) {
			return svc.Login(c.Request.Context(), in.Username, in.Password)
		},
	})

	// v1 contract: the access token alone.
	ez.RegisterAction(public, ez.Action[loginIn, string]{
		Method: http.MethodPost,
		Path:   "/user/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (string, error) {
			return svc.LoginToken(c.Request.Context(), in.Username, in.Password)
		},
	})

	ez.RegisterAction(public, ez.Action[refreshIn, *service.TokenPair]{
		Method: http.MethodPost,
		Path:   "/auth/refresh-token",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *refreshIn) (*service.TokenPair, error) {
			return svc.Refresh(c.Request.Context(), in.UserID, in.RefreshToken)
		},
	})

	whoami := ez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			return gin.H{
				"userId":   c.GetString(mdw.KeyUserID),
				"username": c.GetString(mdw.KeyUsername),
				"role":     c.GetString(mdw.KeyRole),
			}, nil
		},
	}
	whoami.Path = "/auth"
	ez.RegisterAction(authed, whoami)
	whoami.Path = "/user"
	ez.RegisterAction(authed, whoami)

	whoami.Path = "/auth/admin-only"
	whoami.Roles = []string{domain.RoleAdmin}
	ez.RegisterAction(authed, whoami)
}
