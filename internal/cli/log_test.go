package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gdsr/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("loaded") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("encoded") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("encoded") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("unresolved") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	prog.done("Flattened top")

	if !strings.Contains(buf.String(), "Flattened top (") {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without logger should return log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("attached")
	if !strings.Contains(buf.String(), "attached") {
		t.Error("attached logger should write to its buffer")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()
	stats := observability.StreamStats{Cells: 3, Elements: 12, Bytes: 480}

	h.OnEncodeComplete(ctx, "out.gds", stats, time.Millisecond, nil)
	h.OnDecodeComplete(ctx, "in.gds", observability.StreamStats{}, 0, errors.New("boom"))
	h.OnFlattenComplete(ctx, "top", 7, time.Millisecond, nil)
	h.OnWarning(ctx, "in.gds", "reference to undefined cell")
	h.OnWarning(ctx, "in.gds", "reference to undefined cell")

	out := buf.String()
	for _, want := range []string{"encoded", "cells=3", "decode failed", "boom", "flattened", "elements=7"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if h.warnings != 2 {
		t.Errorf("warnings = %d, want 2", h.warnings)
	}
	if strings.Contains(out, "undefined cell") {
		t.Error("warnings should be counted, not logged")
	}
}
