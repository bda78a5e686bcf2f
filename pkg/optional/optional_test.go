package optional_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/pkg/optional"
)

type patch struct {
	SKU      optional.Value[string] `json:"sku"`
	Quantity optional.Value[int]    `json:"quantity"`
}

func TestOmittedNullAndPresent(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"sku": null}`), &p))

	assert.True(t, p.SKU.IsSet())
	assert.True(t, p.SKU.IsNull())
	assert.Nil(t, p.SKU.Ptr())
	_, ok := p.SKU.Get()
	assert.False(t, ok)

	assert.False(t, p.Quantity.IsSet(), "omitted key stays unset")
	assert.False(t, p.Quantity.IsNull())
}

func TestPresentValue(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"sku":"ABC-1","quantity":0}`), &p))

	sku, ok := p.SKU.Get()
	assert.True(t, ok)
	assert.Equal(t, "ABC-1", sku)

	qty, ok := p.Quantity.Get()
	assert.True(t, ok, "zero is a real value, not absence")
	assert.Equal(t, 0, qty)
	require.NotNil(t, p.Quantity.Ptr())
}

func TestEmptyStringIsNotNull(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"sku":""}`), &p))

	assert.True(t, p.SKU.IsSet())
	assert.False(t, p.SKU.IsNull())
	require.NotNil(t, p.SKU.Ptr())
	assert.Equal(t, "", *p.SKU.Ptr())
}

func TestTypeMismatch(t *testing.T) {
	var p patch
	assert.Error(t, json.Unmarshal([]byte(`{"quantity":"many"}`), &p))
}

func TestMarshal(t *testing.T) {
	out, err := json.Marshal(patch{SKU: optional.Of("X"), Quantity: optional.Null[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"sku":"X","quantity":null}`, string(out))
}
