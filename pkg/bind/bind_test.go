package bind_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/pkg/bind"
)

type storeInput struct {
	Name    string  `json:"name"    validate:"required,max=255"`
	Address *string `json:"address" validate:"max=500"`
}

func TestJSONValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Downtown","address":"1 Main St"}`))
	var in storeInput
	errs, err := bind.JSON(r, &in)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "Downtown", in.Name)
	require.NotNil(t, in.Address)
	assert.Equal(t, "1 Main St", *in.Address)
}

func TestJSONValidationErrors(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"address":"x"}`))
	var in storeInput
	errs, err := bind.JSON(r, &in)
	require.NoError(t, err)
	assert.Equal(t, "The name field is required.", errs["name"])
}

func TestJSONMalformed(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
	var in storeInput
	_, err := bind.JSON(r, &in)
	assert.Error(t, err)
}

func TestJSONWrongType(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":42}`))
	var in storeInput
	errs, err := bind.JSON(r, &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "name")
}

type filters struct {
	Page     int              `json:"page"     validate:"gte=1"`
	Limit    int              `json:"limit"    validate:"gte=1,lte=100"`
	Category string           `json:"category"`
	MinPrice *decimal.Decimal `json:"minPrice" validate:"gte=0"`
	InStock  *bool            `json:"inStock"`
	SortBy   string           `json:"sortBy"   validate:"in=name|price"`
}

func TestQueryCoercion(t *testing.T) {
	f := filters{Page: 1, Limit: 20, SortBy: "name"}
	errs := bind.Query(url.Values{
		"page":     {"2"},
		"category": {"Tools"},
		"minPrice": {"9.50"},
		"inStock":  {"1"},
	}, &f)

	assert.Empty(t, errs)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 20, f.Limit, "absent key keeps the default")
	assert.Equal(t, "Tools", f.Category)
	require.NotNil(t, f.MinPrice)
	assert.True(t, f.MinPrice.Equal(decimal.RequireFromString("9.5")))
	require.NotNil(t, f.InStock)
	assert.True(t, *f.InStock)
}

func TestQueryParseErrors(t *testing.T) {
	f := filters{Page: 1, Limit: 20, SortBy: "name"}
	errs := bind.Query(url.Values{
		"page":     {"two"},
		"minPrice": {"cheap"},
		"inStock":  {"maybe"},
	}, &f)

	assert.Equal(t, "The page field must be an integer.", errs["page"])
	assert.Equal(t, "The minPrice field must be a number.", errs["minPrice"])
	assert.Equal(t, "The inStock field must be true or false.", errs["inStock"])
}

func TestQueryRuleErrors(t *testing.T) {
	f := filters{Page: 1, Limit: 20, SortBy: "name"}
	errs := bind.Query(url.Values{"limit": {"500"}, "sortBy": {"sku"}, "minPrice": {"-1"}}, &f)

	assert.Contains(t, errs, "limit")
	assert.Contains(t, errs, "sortBy")
	assert.Contains(t, errs, "minPrice")
}
