package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "storefront", Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-1")
	ctx = logg.WithFields(ctx, map[string]any{"product_id": 7})
	logg.Info(ctx, "cart.add")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "storefront", entry["service"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, float64(7), entry["product_id"])
	assert.Equal(t, "cart.add", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestLogger_ErrorIncludesCause(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "storefront", Output: &buf})

	logg.Error(context.Background(), "cart.persist_failed", errors.New("disk full"))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "disk full", entry["error"])
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "storefront", Level: zerolog.WarnLevel, Output: &buf})

	logg.Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	logg.Warn(context.Background(), "shown")
	assert.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}
