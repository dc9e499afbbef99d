package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"locadora-erp-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	InitializeWithWriter(buf, level, "json")
	t.Cleanup(func() { Initialize("info", "text") })
	return buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	entry := map[string]any{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestConsistencyWarning(t *testing.T) {
	buf := capture(t, "info")
	ctx := WithRequestID(context.Background(), "req-1")
	day := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)

	ConsistencyWarning(ctx, "p1", domain.DateRange{Start: day, End: day}, -2)

	entry := lastEntry(t, buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "consistency_warning", entry["event"])
	assert.Equal(t, "p1", entry["product_id"])
	assert.Equal(t, "2025-01-04", entry["start_date"])
	assert.Equal(t, float64(-2), entry["raw_available"])
	assert.Equal(t, "req-1", entry["request_id"])
}

func TestExitMethodWithError(t *testing.T) {
	t.Run("Business errors are warnings", func(t *testing.T) {
		buf := capture(t, "debug")
		ExitMethodWithError("QuoteService.Submit", domain.NewError(domain.KindValidation, "cart is empty"))
		entry := lastEntry(t, buf)
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "VALIDATION", entry["error_kind"])
	})

	t.Run("Storage errors are errors", func(t *testing.T) {
		buf := capture(t, "debug")
		ExitMethodWithError("OrderService.Convert", domain.WrapError(domain.KindStorageTimeout, "lock quote", context.DeadlineExceeded))
		assert.Equal(t, "ERROR", lastEntry(t, buf)["level"])
	})

	t.Run("Untyped errors are errors", func(t *testing.T) {
		buf := capture(t, "debug")
		ExitMethodWithError("X", assert.AnError)
		entry := lastEntry(t, buf)
		assert.Equal(t, "ERROR", entry["level"])
		assert.NotContains(t, entry, "error_kind")
	})
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
	assert.Equal(t, "abc", RequestID(WithRequestID(context.Background(), "abc")))
}
