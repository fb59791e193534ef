package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		if got := ToLogLevel(tt.in); got != tt.want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	t.Run("Invalid level panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for unknown level")
			}
		}()
		ToLogLevel("verbose")
	})
}

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Error("operation failed", ErrAttr(errors.New("boom")))

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if _, ok := record[ErrAttrKey]; !ok {
		t.Error("error attribute missing")
	}
	st, ok := record[StacktraceAttrKey].(string)
	if !ok || st == "" {
		t.Error("stacktrace attribute missing for a cockroachdb error")
	}
}

func TestErrFmtHandlerPlainRecord(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Info("epoch completed", EpochKey, 3)

	if strings.Contains(buf.String(), StacktraceAttrKey) {
		t.Error("stacktrace attribute added to a record with no error")
	}
}

func TestTestLoggerCapture(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)

	logger.Info("epoch completed", EpochKey, 1, LossKey, 0.6931)
	logger.Debug("suppressed below the level")

	lines := logger.Lines()
	if len(lines) != 1 {
		t.Fatalf("captured %d lines, want 1", len(lines))
	}
	if !logger.Contains("epoch completed") {
		t.Error("message not captured")
	}
	if !logger.Contains("0.6931") {
		t.Error("field value not captured")
	}
}

func TestTestLoggerWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)
	tagged := logger.With(ComponentKey, "train.trainer")

	tagged.Info("training started")

	if !logger.Contains("train.trainer") {
		t.Error("With fields not propagated to records")
	}
}

func TestProviderSwap(t *testing.T) {
	provider, _ := NewTestLoggerProvider(LevelDebug)
	SetProvider(provider)
	t.Cleanup(func() { SetProvider(&slogProvider{level: new(slog.LevelVar)}) })

	logger := GetLoggerWithName("checkpoint.store")
	logger.Info("checkpoint saved")

	captured := provider.logger
	if !captured.Contains("checkpoint.store") {
		t.Error("component name missing from captured record")
	}
	if !captured.Contains("checkpoint saved") {
		t.Error("record not routed through the swapped provider")
	}
}

func TestLoggerEnabled(t *testing.T) {
	logger, _ := NewTestLogger(LevelWarn)
	ctx := context.Background()

	if logger.Enabled(ctx, LevelDebug) {
		t.Error("debug should be disabled at warn level")
	}
	if !logger.Enabled(ctx, LevelError) {
		t.Error("error should be enabled at warn level")
	}
}
