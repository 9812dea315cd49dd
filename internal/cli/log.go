package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gdsr/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Flattened top (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks forwards codec and flatten events to a logger. Decoder warnings
// are already logged by the decoder, so they are only counted here.
type logHooks struct {
	logger   *log.Logger
	warnings int
}

func (h *logHooks) OnEncodeStart(_ context.Context, path string) {
	h.logger.Debug("encoding", "path", path)
}

func (h *logHooks) OnEncodeComplete(_ context.Context, path string, s observability.StreamStats, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("encode failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("encoded", "path", path, "cells", s.Cells, "elements", s.Elements, "bytes", s.Bytes, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnDecodeStart(_ context.Context, path string) {
	h.logger.Debug("decoding", "path", path)
}

func (h *logHooks) OnDecodeComplete(_ context.Context, path string, s observability.StreamStats, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("decode failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("decoded", "path", path, "cells", s.Cells, "elements", s.Elements, "bytes", s.Bytes, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnWarning(context.Context, string, string) {
	h.warnings++
}

func (h *logHooks) OnFlattenComplete(_ context.Context, cell string, elements int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("flatten failed", "cell", cell, "err", err)
		return
	}
	h.logger.Debug("flattened", "cell", cell, "elements", elements, "took", d.Round(time.Millisecond))
}
