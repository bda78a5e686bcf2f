// Package ctx provides the request context handlers receive instead of the
// (http.ResponseWriter, *http.Request) pair:
//
//	func (sc *StoreController) Show(c *ctx.Context) {
//	    id, ok := c.ParamID("id")
//	    if !ok {
//	        return // 400 already sent
//	    }
//	    store, err := sc.stores.Get(c.Context(), id)
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(store)
//	}
//
//	router.Get("/stores/{id}", "stores.show", ctx.Wrap(sc.Show))
package ctx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/inventory/pkg/apperror"
	"github.com/shashiranjanraj/inventory/pkg/bind"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/orm"
	"github.com/shashiranjanraj/inventory/pkg/response"
	"github.com/shashiranjanraj/inventory/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{
	New: func() any { return new(Context) },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ParamID parses a positive integer path parameter. On failure it sends a
// 400 and returns false.
func (c *Context) ParamID(key string) (uint, bool) {
	raw := chi.URLParam(c.R, key)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.ValidationError(map[string]string{key: fmt.Sprintf("The %s must be a positive integer.", key)})
		return 0, false
	}
	return uint(id), true
}

// Method returns the HTTP method of the request.
func (c *Context) Method() string { return c.R.Method }

// Path returns the request URL path.
func (c *Context) Path() string { return c.R.URL.Path }

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// BindJSON decodes the JSON body into dest and runs validation.
// On validation failure it sends a 400 with field errors and returns false.
// On a decode error it sends a 400 with the decode message and returns false.
//
//	var input services.CreateStoreInput
//	if !c.BindJSON(&input) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// BindQuery decodes the query string into dest (defaults preset by the
// caller) and runs validation, sending a 400 on failure.
func (c *Context) BindQuery(dest any) bool {
	if errs := bind.Query(c.R.URL.Query(), dest); validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// Success sends a 200 envelope: {"status":200,"data":...}
func (c *Context) Success(data any) {
	c.status = http.StatusOK
	response.Success(c.W, data)
}

// Created sends a 201 envelope.
func (c *Context) Created(data any) {
	c.status = http.StatusCreated
	response.Created(c.W, data)
}

// NoContent sends a 204 with no body.
func (c *Context) NoContent() {
	c.status = http.StatusNoContent
	response.NoContent(c.W)
}

// Paginated sends a 200 envelope with items and pagination metadata.
func (c *Context) Paginated(items any, p orm.Pagination) {
	c.status = http.StatusOK
	response.Paginated(c.W, items, p)
}

// Error sends an error envelope with the given status and message.
func (c *Context) Error(code int, message string) {
	c.status = code
	response.Error(c.W, code, message)
}

// ValidationError sends a 400 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.status = http.StatusBadRequest
	response.ValidationError(c.W, errs)
}

// Fail answers err according to its apperror kind. Unclassified errors are
// logged with the request logger and answered with a generic 500.
func (c *Context) Fail(err error) {
	e, ok := apperror.As(err)
	if !ok || e.Kind == apperror.Internal {
		logger.WithCtx(c.Context()).Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		c.Error(http.StatusInternalServerError, "Internal server error")
		return
	}

	if e.Kind == apperror.Validation && len(e.Fields) > 0 {
		c.ValidationError(e.Fields)
		return
	}
	c.Error(e.Kind.Status(), e.Message)
}

// WrittenStatus returns the HTTP status code that was written to the response,
// or 0 if no response has been written yet.
func (c *Context) WrittenStatus() int { return c.status }
