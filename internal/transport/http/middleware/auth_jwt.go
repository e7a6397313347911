package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"customer-order-api/internal/core/auth"
	resp "customer-order-api/internal/transport/http/response"
)

// Context keys set by AuthJWT.
const (
	KeyClaims   = "claims"
	KeyUserID   = "userId"
	KeyUsername = "username"
	KeyRole     = "role"
)

// AuthJWT requires a valid bearer token. With roles given, the token's role
// must be one of them.
func AuthJWT(j *auth.JWTer, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
			resp.Abort(c, http.StatusForbidden, "")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyUsername, claims.Username())
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}
