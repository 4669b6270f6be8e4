// Package observability carries the logging, metrics and tracing hooks used by
// the resolver and the nuclide library.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Operation names observed by the resolver and library.
const (
	OpResolve  = "resolve_nuclide"
	OpDownload = "download_nuclide"
	OpParse    = "parse_nuclide"
)

// Logger is the structured logger accepted by components. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsRecorder observes the outcome and latency of an operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer starts spans around operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is ended exactly once with the operation's error, if any.
type TraceSpan interface {
	End(err error)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

type noopSpan struct{}

func (noopSpan) End(error) {}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

// NopLogger discards everything.
func NopLogger() Logger { return noopLogger{} }

// NopMetrics discards observations.
func NopMetrics() MetricsRecorder { return noopMetrics{} }

// NopTracer returns spans that do nothing.
func NopTracer() Tracer { return noopTracer{} }

// LogConfig configures NewLogger.
type LogConfig struct {
	Level     string    // debug|info|warn|error, default info
	Format    string    // text|json, default text
	Writer    io.Writer // default os.Stderr
	Component string
}

// NewLogger builds a slog logger from cfg.
func NewLogger(cfg LogConfig) *slog.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(h)
	if cfg.Component != "" {
		logger = logger.With("component", cfg.Component)
	}
	return logger
}

// ParseLevel maps a level name to slog.Level; unknown names give Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Observer bundles the hooks; zero fields are replaced with no-ops by Normalize.
type Observer struct {
	Logger  Logger
	Metrics MetricsRecorder
	Tracer  Tracer
}

// Normalize fills unset hooks with no-ops.
func (o Observer) Normalize() Observer {
	if o.Logger == nil {
		o.Logger = NopLogger()
	}
	if o.Metrics == nil {
		o.Metrics = NopMetrics()
	}
	if o.Tracer == nil {
		o.Tracer = NopTracer()
	}
	return o
}

// Track starts a span for op and returns a function that ends it and records
// the metric. Call the returned function with the operation's error.
func (o Observer) Track(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := o.Tracer.Start(ctx, op)
	return ctx, func(err error) {
		span.End(err)
		o.Metrics.Observe(ctx, op, err == nil, time.Since(start))
	}
}
