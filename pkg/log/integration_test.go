package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggerInterface tests the TestLogger implementation of Logger
func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationRidge)
	testLogger.Warn("warning message", StepSizeKey, 0.1)
	testLogger.Error("error message", fmt.Errorf("test error"), ErrorTypeKey, "ModelError")

	require.NotEmpty(t, buffer.String())

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		assert.True(t, testLogger.ContainsMessage(msg), "missing %q", msg)
	}
	assert.True(t, testLogger.ContainsField("key1", "value1"))
	// JSON unmarshaling converts numbers to float64
	assert.True(t, testLogger.ContainsField("number", 42.0))
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "test error"))
	assert.True(t, testLogger.ContainsField(OperationKey, OperationRidge))
}

func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	child := testLogger.With(ModelNameKey, "Model", ComponentKey, "linear")
	child.Info("fit finished", SamplesKey, 10)

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Model", entries[0][ModelNameKey])
	assert.Equal(t, "linear", entries[0][ComponentKey])
	assert.Equal(t, 10.0, entries[0][SamplesKey])
}

func TestLoggerEnabled(t *testing.T) {
	ctx := context.Background()
	testLogger, buffer := NewTestLogger(LevelWarn)

	assert.False(t, testLogger.Enabled(ctx, LevelDebug))
	assert.False(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelWarn))
	assert.True(t, testLogger.Enabled(ctx, LevelError))

	testLogger.Debug("dropped")
	assert.Empty(t, buffer.String())
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo).With(ModelNameKey, "Model")

	logger.Debug("hidden")
	logger.Info("ridge fit finished", OperationKey, OperationRidge, RegularizationKey, 0.5)
	logger.Error("solve failed", errors.NewSingularMatrixError("Model.Solve"), OperationKey, OperationSolve)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &info))
	assert.Equal(t, "info", info["level"])
	assert.Equal(t, "Model", info[ModelNameKey])
	assert.Equal(t, 0.5, info[RegularizationKey])

	var errEntry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &errEntry))
	assert.Equal(t, "error", errEntry["level"])
	assert.Equal(t, "ModelError", errEntry["type"])
	assert.Contains(t, errEntry["error"], "singular matrix")

	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
}

func TestSlogLoggerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger := NewSlogLogger(handler)

	logger.Error("solve failed", errors.NewSingularMatrixError("Model.Solve"), OperationKey, OperationSolve)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, OperationSolve, entry[OperationKey])
	assert.NotEmpty(t, entry[StacktraceAttrKey])
}

func TestSetLoggerRoutesWarnings(t *testing.T) {
	previous := GetLogger()
	defer SetLogger(previous)

	testLogger, _ := NewTestLogger(LevelDebug)
	SetLogger(testLogger)
	assert.Same(t, testLogger, GetLogger())

	errors.Warn(errors.NewConvergenceWarning("LAR", 5, "step budget exhausted"))
	assert.True(t, testLogger.ContainsMessage("LAR failed to converge after 5 iterations"))
	assert.True(t, testLogger.ContainsField(ErrorTypeKey, "*errors.ConvergenceWarning"))
}

func TestToLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ToLogLevel("debug"))
	assert.Equal(t, slog.LevelError, ToLogLevel("error"))
	assert.Panics(t, func() { ToLogLevel("verbose") })
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}
