// Package ez registers handlers as typed actions: bind the input, call the
// handler, map its error to a status.
package ez

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"customer-order-api/internal/domain"
	mdw "customer-order-api/internal/transport/http/middleware"
	resp "customer-order-api/internal/transport/http/response"
	"customer-order-api/internal/validation"
)

type EZ struct {
	g *gin.RouterGroup
	l *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, l: l} }

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // handler reads c.Param / c.Query itself
)

// AErr carries an explicit status for errors raised by handlers.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: http.StatusBadRequest, Msg: msg} }

// Action describes one endpoint. I is the bound input, O the response data.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	Auth   bool     // requires AuthJWT to have run on the group
	Roles  []string // optional role allow-list, checked after Auth
	Status int      // success status, 200 when zero
	// Handler receives the bound input. Returning a non-nil error skips the
	// success response.
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction mounts a on e's group.
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		if a.Auth {
			if c.GetString(mdw.KeyUserID) == "" {
				resp.Abort(c, http.StatusUnauthorized, "")
				return
			}
			if len(a.Roles) > 0 && !hasRole(c.GetString(mdw.KeyRole), a.Roles) {
				resp.Abort(c, http.StatusForbidden, "")
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			resp.Abort(c, http.StatusBadRequest, bindMessage(c, a.Binder, bindErr))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		resp.Success(c, status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

func bindMessage(c *gin.Context, b Binder, err error) string {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return resp.CodeMsgMap[resp.CodeTooLarge]
	}
	if b == BindQuery {
		return validation.QueryMessage(err, c.Request.URL.Query())
	}
	return validation.Message(err)
}

// fail maps err to a status. Unknown errors are logged and answered with a
// generic 500.
func (e EZ) fail(c *gin.Context, err error) {
	var ae *AErr
	switch {
	case errors.As(err, &ae):
		if ae.Code >= http.StatusInternalServerError {
			e.log(c, err)
			resp.Abort(c, ae.Code, "")
			return
		}
		resp.Abort(c, ae.Code, ae.Error())
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUsernameTaken):
		resp.Abort(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidRefreshToken):
		resp.Abort(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		resp.Abort(c, http.StatusNotFound, err.Error())
	default:
		e.log(c, err)
		resp.Abort(c, http.StatusInternalServerError, "")
	}
}

func (e EZ) log(c *gin.Context, err error) {
	if e.l == nil {
		return
	}
	e.l.Error("request failed",
		zap.String("rid", c.GetString(mdw.KeyRequestID)),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	_ = c.Error(err)
}

// ParamID reads a positive integer id from the path, falling back to the
// query string.
func ParamID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, BadRequest("a valid id is required")
	}
	return uint(id), nil
}
