package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerFormatsAndLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Format: "json", Writer: &buf, Component: "resolver"})
	logger.Info("hidden")
	logger.Warn("cache miss", "nuclide", "Li6")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &rec))
	assert.Equal(t, "resolver", rec["component"])
	assert.Equal(t, "Li6", rec["nuclide"])

	buf.Reset()
	NewLogger(LogConfig{Writer: &buf}).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestObserverTrackRecordsSpanAndMetric(t *testing.T) {
	tracer := NewJSONTracer(nil)
	metrics := NewExpvarMetricsRecorder("")
	obs := Observer{Tracer: tracer, Metrics: metrics}.Normalize()
	_, done := obs.Track(context.Background(), OpDownload)
	done(errors.New("status 404"))
	_, done = obs.Track(context.Background(), OpDownload)
	done(nil)

	entries := tracer.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "error", entries[0].Status)
	assert.Equal(t, "status 404", entries[0].Error)
	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Results[OpDownload]["success"])
	assert.Equal(t, int64(1), snap.Results[OpDownload]["error"])
	assert.NotNil(t, expvar.Get(metrics.Name()))
	obs.Logger.Info("discarded")
}

func TestJSONTracerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), OpParse)
	span.End(nil)
	var entry JSONTraceEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, OpParse, entry.Operation)
	assert.Equal(t, "success", entry.Status)
}

func TestExpvarIgnoresEmptyOperation(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	rec.Observe(context.Background(), "", true, time.Millisecond)
	assert.Empty(t, rec.Snapshot().Results)
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)
	multi := MultiRecorder{rec, NopMetrics()}
	multi.Observe(context.Background(), OpResolve, true, 10*time.Millisecond)
	multi.Observe(context.Background(), OpResolve, false, time.Millisecond)
	multi.Observe(context.Background(), OpResolve, true, time.Millisecond)
	assert.Equal(t, 2.0, promtest.ToFloat64(rec.total.WithLabelValues(OpResolve, "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(rec.total.WithLabelValues(OpResolve, "error")))

	_, err = NewPrometheusRecorder(reg)
	assert.Error(t, err, "second registration must fail")
}
