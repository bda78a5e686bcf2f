package ctx_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/pkg/apperror"
	appctx "github.com/shashiranjanraj/inventory/pkg/ctx"
)

func run(t *testing.T, method, target, body string, h appctx.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, "/items/{id}", appctx.Wrap(h))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	return rec
}

func TestParamID(t *testing.T) {
	var got uint
	rec := run(t, http.MethodGet, "/items/42", "", func(c *appctx.Context) {
		id, ok := c.ParamID("id")
		require.True(t, ok)
		got = id
		c.Success(map[string]uint{"id": id})
	})
	assert.EqualValues(t, 42, got)
	assert.JSONEq(t, `{"status":200,"data":{"id":42}}`, rec.Body.String())

	for _, bad := range []string{"abc", "0", "-3", "1.5"} {
		rec = run(t, http.MethodGet, "/items/"+bad, "", func(c *appctx.Context) {
			_, ok := c.ParamID("id")
			assert.False(t, ok)
			assert.Equal(t, http.StatusBadRequest, c.WrittenStatus())
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
		assert.Contains(t, rec.Body.String(), `"message":"Validation failed"`)
	}
}

type input struct {
	Name string `json:"name" validate:"required"`
}

func TestBindJSON(t *testing.T) {
	rec := run(t, http.MethodPost, "/items/1", `{}`, func(c *appctx.Context) {
		var in input
		assert.False(t, c.BindJSON(&in))
	})
	assert.JSONEq(t, `{"status":400,"message":"Validation failed","errors":{"name":"The name field is required."}}`, rec.Body.String())

	rec = run(t, http.MethodPost, "/items/1", `not json`, func(c *appctx.Context) {
		var in input
		assert.False(t, c.BindJSON(&in))
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")
}

func TestBindQuery(t *testing.T) {
	type filters struct {
		Page int `json:"page" validate:"gte=1"`
	}
	rec := run(t, http.MethodGet, "/items/1?page=0", "", func(c *appctx.Context) {
		f := filters{Page: 1}
		assert.False(t, c.BindQuery(&f))
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"page"`)
}

func TestFailMapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body string
	}{
		{apperror.NotFoundf("Store with ID %d not found", 7), 404, `{"status":404,"message":"Store with ID 7 not found"}`},
		{fmt.Errorf("svc: %w", apperror.Conflictf(errors.New("dup"), "Product with SKU %q already exists", "X")), 409, `{"status":409,"message":"Product with SKU \"X\" already exists"}`},
		{apperror.InvalidField("lowStockThreshold", "bad"), 400, `{"status":400,"message":"Validation failed","errors":{"lowStockThreshold":"bad"}}`},
		{errors.New("connection refused"), 500, `{"status":500,"message":"Internal server error"}`},
	}
	for _, tc := range cases {
		rec := run(t, http.MethodGet, "/items/1", "", func(c *appctx.Context) { c.Fail(tc.err) })
		assert.Equal(t, tc.code, rec.Code)
		assert.JSONEq(t, tc.body, rec.Body.String())
	}
}

func TestNoContent(t *testing.T) {
	rec := run(t, http.MethodDelete, "/items/1", "", func(c *appctx.Context) {
		c.NoContent()
		assert.Equal(t, http.StatusNoContent, c.WrittenStatus())
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
