package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New("debug", true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level must be enabled")
	}

	l, err = New("warn", false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info must be disabled at warn level")
	}

	if _, err := New("loud", false); err == nil {
		t.Error("expected error for unknown level")
	}
}
