package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/pkg/logger"
)

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, logger.L, logger.WithCtx(context.Background()))
}

func TestInjectedLoggerCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, true).With("request_id", "abc")
	ctx := logger.InjectLogger(context.Background(), log)

	logger.WithCtx(ctx).Info("store created", "store_id", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc", line["request_id"])
	assert.Equal(t, "store created", line["msg"])
	assert.EqualValues(t, 3, line["store_id"])
}

func TestDevelopmentLoggerIncludesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger.New(&buf, false).Debug("hidden in prod")
	assert.Contains(t, buf.String(), "hidden in prod")

	buf.Reset()
	logger.New(&buf, true).Debug("hidden in prod")
	assert.Empty(t, buf.String())
}
