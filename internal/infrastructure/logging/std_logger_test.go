package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

func fixedClock() *shared.MockClock {
	return shared.NewMockClock(time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC))
}

func TestStdLogger_TextFormatFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLogger(&buf, "warn", "text", fixedClock())

	logger.Log("INFO", "hidden", nil)
	logger.Log("ERROR", "Dispatch solve failed", map[string]interface{}{"strategy": "exact", "action": "plan_dispatch"})

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "08:30:00.000 ERROR   Dispatch solve failed action=plan_dispatch strategy=exact")
}

func TestStdLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLogger(&buf, "debug", "json", fixedClock())

	logger.Log("DEBUG", "Replaying plan", map[string]interface{}{"trips": 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "Replaying plan", entry["msg"])
	assert.Equal(t, 3.0, entry["trips"])
	assert.Equal(t, "2026-04-01T08:30:00Z", entry["time"])
}

func TestStdLogger_DedupWindow(t *testing.T) {
	var buf bytes.Buffer
	clock := fixedClock()
	logger := NewStdLogger(&buf, "info", "text", clock).WithDedupWindow(time.Minute)

	logger.Log("INFO", "tick", nil)
	logger.Log("INFO", "tick", nil)
	clock.Advance(2 * time.Minute)
	logger.Log("INFO", "tick", nil)

	assert.Equal(t, 2, strings.Count(buf.String(), "tick"))
}

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, "WARNING", normalizeLevel("warn"))
	assert.Equal(t, "INFO", normalizeLevel("info"))
	assert.Equal(t, "TRACE", normalizeLevel("trace"))
}
