package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"customer-order-api/internal/core/auth"
	"customer-order-api/internal/core/cache"
	"customer-order-api/internal/core/config"
	"customer-order-api/internal/core/database"
	"customer-order-api/internal/domain"
	"customer-order-api/internal/repo"
	"customer-order-api/internal/service"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type fixture struct {
	api, admin *gin.Engine
	db         *gorm.DB
	mr         *miniredis.Miniredis
	jwt        *auth.JWTer
	svc        Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(dsn)), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, repo.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	l := zap.NewNop()
	gw := cache.NewGateway(rdb, l)
	j := &auth.JWTer{Secret: []byte("router-test-secret-0123456789abcdef"), Issuer: "test", Audience: "test", TTL: time.Minute}

	customers := repo.NewCustomerRepo(db)
	users := repo.NewUserRepo(db)
	svc := Services{
		Customers: service.NewCustomerService(customers, gw, l),
		Orders:    service.NewOrderService(repo.NewOrderRepo(db), customers, gw, l),
		Auth:      service.NewAuthService(users, j, time.Hour, l),
		Users:     service.NewUserService(users, l),
	}
	lim := config.Limits{RPS: 10000, Burst: 10000, GlobalRPS: 10000, GlobalBurst: 10000, MaxConcurrent: 100, MaxBodyBytes: 1 << 20, TimeoutSec: 5}

	return &fixture{
		api:   NewAPIEngine(l, svc, j, lim, nil),
		admin: NewAdminEngine(l, svc, j, lim),
		db:    db,
		mr:    mr,
		jwt:   j,
		svc:   svc,
	}
}

func (f *fixture) token(t *testing.T, role string) string {
	t.Helper()
	tok, err := f.jwt.Issue("uid-"+role, "user-"+role, role)
	require.NoError(t, err)
	return tok
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)
	w, _ := call(t, f.api, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mw := httptest.NewRecorder()
	f.api.ServeHTTP(mw, req)
	assert.Equal(t, http.StatusOK, mw.Code)
	assert.Contains(t, mw.Body.String(), "http_requests_total")

	w, env := call(t, f.api, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, env.Code)
}

func TestCustomerAuthz(t *testing.T) {
	f := newFixture(t)

	w, env := call(t, f.api, http.MethodGet, "/api/customer", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, http.StatusUnauthorized, env.Code)

	w, _ = call(t, f.api, http.MethodPost, "/api/customer", f.token(t, domain.RoleUser),
		gin.H{"name": "Ann", "email": "ann@example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = call(t, f.api, http.MethodDelete, "/api/customer/1", f.token(t, domain.RoleEmployer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCustomerCreateRejectsEmptyEmail(t *testing.T) {
	f := newFixture(t)
	w, env := call(t, f.api, http.MethodPost, "/api/customer", f.token(t, domain.RoleEmployer),
		gin.H{"name": "Ann", "email": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Msg, "email")
	assert.Zero(t, countRows(t, f.db, &domain.Customer{}))
}

func TestCustomerLifecycle(t *testing.T) {
	f := newFixture(t)
	emp := f.token(t, domain.RoleEmployer)
	adm := f.token(t, domain.RoleAdmin)
	usr := f.token(t, domain.RoleUser)

	w, env := call(t, f.api, http.MethodPost, "/api/customer", emp, gin.H{"name": "Ann", "email": "ann@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.Customer
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, fmt.Sprintf("/api/customer/%d", created.ID), w.Header().Get("Location"))

	path := fmt.Sprintf("/api/customer/%d", created.ID)
	w, env = call(t, f.api, http.MethodGet, path, usr, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.Customer
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "ann@example.com", got.Email)
	assert.True(t, f.mr.Exists(cache.CustomerKey(created.ID)))

	w, _ = call(t, f.api, http.MethodGet, "/api/customer/999", usr, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = call(t, f.api, http.MethodGet, "/api/customer/abc", usr, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = call(t, f.api, http.MethodPut, path, emp, gin.H{"id": created.ID + 1, "name": "Ann", "email": "ann@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Msg, "does not match")

	w, _ = call(t, f.api, http.MethodPut, path, emp, gin.H{"id": created.ID, "name": "Anna", "email": "anna@example.com"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
	assert.False(t, f.mr.Exists(cache.CustomerKey(created.ID)))

	w, env = call(t, f.api, http.MethodGet, path, usr, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Anna", got.Name)

	w, _ = call(t, f.api, http.MethodPut, "/api/customer/4242", emp, gin.H{"id": 4242, "name": "Nobody", "email": "n@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = call(t, f.api, http.MethodGet, "/api/customer", usr, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.Customer
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	w, _ = call(t, f.api, http.MethodDelete, fmt.Sprintf("/api/customer?id=%d", created.ID), adm, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = call(t, f.api, http.MethodDelete, path, adm, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = call(t, f.api, http.MethodGet, path, usr, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, f.mr.Exists(cache.KeyAllCustomers))
}

func TestCustomerPaged(t *testing.T) {
	f := newFixture(t)
	emp := f.token(t, domain.RoleEmployer)
	for i := 1; i <= 15; i++ {
		w, _ := call(t, f.api, http.MethodPost, "/api/customer", emp,
			gin.H{"name": fmt.Sprintf("Customer %02d", i), "email": fmt.Sprintf("c%d@example.com", i)})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := call(t, f.api, http.MethodGet, "/api/customer/paged?pageNumber=2&pageSize=10", emp, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page domain.PaginatedResult[domain.Customer]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Data, 5)
	assert.EqualValues(t, 15, page.TotalRecords)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 10, page.PageSize)

	w, env = call(t, f.api, http.MethodGet, "/api/customer/paged?searchQuery=Customer%2001&sortBy=name&isDescending=true", emp, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.TotalRecords)

	w, env = call(t, f.api, http.MethodGet, "/api/customer/paged?pageNumber=abc", emp, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `query parameter pageNumber has an invalid value "abc"`, env.Msg)
}

func TestOrderValidation(t *testing.T) {
	f := newFixture(t)
	emp := f.token(t, domain.RoleEmployer)

	w, env := call(t, f.api, http.MethodPost, "/api/customer", emp, gin.H{"name": "Ann", "email": "ann@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	var c domain.Customer
	require.NoError(t, json.Unmarshal(env.Data, &c))

	past := time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)
	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	w, env = call(t, f.api, http.MethodPost, "/api/order", emp, gin.H{"name": "Books", "orderDate": past})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Msg, "customerId")

	w, env = call(t, f.api, http.MethodPost, "/api/order", emp, gin.H{"name": "Books", "orderDate": future, "customerId": c.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Msg, "future")

	w, _ = call(t, f.api, http.MethodPost, "/api/order", emp, gin.H{"name": "Books", "orderDate": past, "customerId": 999})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, countRows(t, f.db, &domain.Order{}))

	w, env = call(t, f.api, http.MethodPost, "/api/order", emp, gin.H{"name": "Books", "orderDate": past, "customerId": c.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var o domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, fmt.Sprintf("/api/order/%d", o.ID), w.Header().Get("Location"))

	w, _ = call(t, f.api, http.MethodPut, fmt.Sprintf("/api/order/%d", o.ID), emp,
		gin.H{"id": o.ID, "name": "Music", "orderDate": past, "customerId": c.ID})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, env = call(t, f.api, http.MethodGet, "/api/order/paged?sortBy=orderDate", emp, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page domain.PaginatedResult[domain.Order]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Music", page.Data[0].Name)

	w, _ = call(t, f.api, http.MethodDelete, fmt.Sprintf("/api/order/%d", o.ID), f.token(t, domain.RoleAdmin), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, countRows(t, f.db, &domain.Order{}))
}

func TestGlobalRateLimit(t *testing.T) {
	f := newFixture(t)
	r := NewAdminEngine(zap.NewNop(), f.svc, f.jwt, config.Limits{GlobalRPS: 0.001, GlobalBurst: 1})

	w, _ := call(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestDeleteCustomerWithOrders(t *testing.T) {
	f := newFixture(t)
	emp := f.token(t, domain.RoleEmployer)
	adm := f.token(t, domain.RoleAdmin)

	w, env := call(t, f.api, http.MethodPost, "/api/customer", emp, gin.H{"name": "Ann", "email": "ann@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	var c domain.Customer
	require.NoError(t, json.Unmarshal(env.Data, &c))

	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	w, env = call(t, f.api, http.MethodPost, "/api/order", emp, gin.H{"name": "Books", "orderDate": past, "customerId": c.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var o domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &o))

	orderPath := fmt.Sprintf("/api/order/%d", o.ID)
	w, _ = call(t, f.api, http.MethodGet, orderPath, emp, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = call(t, f.api, http.MethodDelete, fmt.Sprintf("/api/customer/%d", c.ID), adm, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Msg, "has orders")
	assert.EqualValues(t, 1, countRows(t, f.db, &domain.Customer{}))

	w, _ = call(t, f.api, http.MethodPut, orderPath, emp, gin.H{"id": o.ID, "name": "Music", "orderDate": past, "customerId": c.ID})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = call(t, f.api, http.MethodDelete, orderPath, adm, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w, _ = call(t, f.api, http.MethodDelete, fmt.Sprintf("/api/customer/%d", c.ID), adm, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, countRows(t, f.db, &domain.Customer{}))
}

func TestAuthFlow(t *testing.T) {
	f := newFixture(t)
	creds := gin.H{"username": "bob", "password": "secret1"}

	w, env := call(t, f.api, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusOK, w.Code)
	var u map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &u))
	assert.Equal(t, "bob", u["username"])
	assert.Equal(t, domain.RoleUser, u["role"])
	assert.NotContains(t, u, "passwordHash")
	userID := u["id"].(string)

	w, env = call(t, f.api, http.MethodPost, "/api/user/register", "", creds)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrUsernameTaken.Error(), env.Msg)

	w, _ = call(t, f.api, http.MethodPost, "/api/auth/register", "", gin.H{"username": "al", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, f.api, http.MethodPost, "/api/auth/login", "", gin.H{"username": "bob", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = call(t, f.api, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ghost", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = call(t, f.api, http.MethodPost, "/api/auth/login", "", gin.H{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = call(t, f.api, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code)
	var pair service.TokenPair
	require.NoError(t, json.Unmarshal(env.Data, &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	w, env = call(t, f.api, http.MethodGet, "/api/auth", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var who map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &who))
	assert.Equal(t, "bob", who["username"])
	assert.Equal(t, userID, who["userId"])

	w, _ = call(t, f.api, http.MethodGet, "/api/auth/admin-only", pair.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = call(t, f.api, http.MethodGet, "/api/auth/admin-only", f.token(t, domain.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = call(t, f.api, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"userId": userID, "refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	var next service.TokenPair
	require.NoError(t, json.Unmarshal(env.Data, &next))
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	w, _ = call(t, f.api, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"userId": userID, "refreshToken": pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = call(t, f.api, http.MethodPost, "/api/user/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code)
	var raw string
	require.NoError(t, json.Unmarshal(env.Data, &raw))
	claims, err := f.jwt.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Username())
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestAdminUsers(t *testing.T) {
	f := newFixture(t)
	u, err := f.svc.Auth.Register(t.Context(), "carol", "secret1")
	require.NoError(t, err)

	w, _ := call(t, f.admin, http.MethodGet, "/admin/v1/users", f.token(t, domain.RoleEmployer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adm := f.token(t, domain.RoleAdmin)
	w, env := call(t, f.admin, http.MethodGet, "/admin/v1/users?searchQuery=car", adm, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page domain.PaginatedResult[domain.User]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "carol", page.Data[0].Username)

	w, _ = call(t, f.admin, http.MethodPut, "/admin/v1/users/"+u.ID+"/role", adm, gin.H{"role": "Root"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = call(t, f.admin, http.MethodPut, "/admin/v1/users/missing/role", adm, gin.H{"role": domain.RoleEmployer})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = call(t, f.admin, http.MethodPut, "/admin/v1/users/"+u.ID+"/role", adm, gin.H{"role": domain.RoleEmployer})
	require.Equal(t, http.StatusOK, w.Code)
	var updated domain.User
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, domain.RoleEmployer, updated.Role)

	tok, err := f.svc.Auth.LoginToken(t.Context(), "carol", "secret1")
	require.NoError(t, err)
	w, _ = call(t, f.api, http.MethodPost, "/api/customer", tok, gin.H{"name": "Dan", "email": "dan@example.com"})
	assert.Equal(t, http.StatusCreated, w.Code)
}
