// Package validation registers the custom binding rules used by request DTOs
// and turns validator errors into messages safe to return to clients.
package validation

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	once    sync.Once
	onceErr error
)

// Register installs the custom rules on gin's default validator. Safe to call
// more than once; later calls return the first result.
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			onceErr = fmt.Errorf("validation: unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		if err := v.RegisterValidation("notfuture", notFuture); err != nil {
			onceErr = fmt.Errorf("validation: register notfuture: %w", err)
			return
		}
		v.RegisterTagNameFunc(jsonName)
	})
	return onceErr
}

// MustRegister is Register for engine constructors that cannot return an error.
func MustRegister() {
	if err := Register(); err != nil {
		panic(err)
	}
}

// notFuture rejects times after now. Zero times pass; pair with required.
func notFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !t.After(time.Now())
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Message renders a binding error. Validation failures become one sentence per
// field; anything else (malformed JSON, wrong types) a generic message.
func Message(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "malformed request body"
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

// QueryMessage is Message for query-string binding. A value that failed to
// parse is reported with the name of the parameter that carried it.
func QueryMessage(err error, q url.Values) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return Message(err)
	}
	var bad string
	var ne *strconv.NumError
	var te *time.ParseError
	switch {
	case errors.As(err, &ne):
		bad = ne.Num
	case errors.As(err, &te):
		bad = te.Value
	}
	if bad != "" {
		for _, k := range slices.Sorted(maps.Keys(q)) {
			if slices.Contains(q[k], bad) {
				return fmt.Sprintf("query parameter %s has an invalid value %q", k, bad)
			}
		}
	}
	return "malformed query string"
}

func fieldMessage(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return "a valid email is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
	case "gt":
		return fmt.Sprintf("a valid %s is required", f)
	case "notfuture":
		return f + " cannot be in the future"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, fe.Param())
	}
	return f + " is invalid"
}
