package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/inventory/pkg/apperror"
)

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, apperror.NotFound.Status())
	assert.Equal(t, http.StatusConflict, apperror.Conflict.Status())
	assert.Equal(t, http.StatusBadRequest, apperror.Validation.Status())
	assert.Equal(t, http.StatusInternalServerError, apperror.Internal.Status())
}

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("store service: %w", apperror.NotFoundf("Store with ID %d not found", 7))

	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.False(t, errors.Is(err, apperror.ErrConflict))
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))
}

func TestConflictKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := apperror.Conflictf(cause, "Store with name %q already exists", "A")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `Store with name "A" already exists`, err.Message)
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, apperror.Internal, apperror.KindOf(errors.New("connection refused")))
	_, ok := apperror.As(errors.New("boom"))
	assert.False(t, ok)
}

func TestInvalidField(t *testing.T) {
	err := apperror.InvalidField("price", "The price must be greater than 0.")

	e, ok := apperror.As(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.Validation, e.Kind)
	assert.Equal(t, map[string]string{"price": "The price must be greater than 0."}, e.Fields)
}
