package session

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("ideclang.session")
	meter  = otel.Meter("ideclang.session")
)

var (
	completionLatency metric.Float64Histogram
	completionResults metric.Int64Histogram
	unitsOpen         metric.Int64UpDownCounter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		completionLatency, err = meter.Float64Histogram(
			"ideclang_completion_duration_seconds",
			metric.WithDescription("Duration of completion queries"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		completionResults, err = meter.Int64Histogram(
			"ideclang_completion_results",
			metric.WithDescription("Number of records produced by completion queries"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		unitsOpen, err = meter.Int64UpDownCounter(
			"ideclang_units_open",
			metric.WithDescription("Number of parsed units held by the session store"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startCompletionSpan(ctx context.Context, path string, line, column int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Store.FindCompletions",
		trace.WithAttributes(
			attribute.String("file.path", path),
			attribute.String("file.ext", filepath.Ext(path)),
			attribute.Int("position.line", line),
			attribute.Int("position.column", column),
		),
	)
}

func recordCompletion(ctx context.Context, span trace.Span, duration time.Duration, n int, success bool) {
	span.SetAttributes(
		attribute.Int("completion.results", n),
		attribute.Bool("completion.success", success),
	)
	if !success {
		span.SetStatus(codes.Error, "completion query failed")
	}
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	completionLatency.Record(ctx, duration.Seconds(), attrs)
	if success {
		completionResults.Record(ctx, int64(n))
	}
}

func recordUnitsOpen(ctx context.Context, delta int64) {
	if err := initMetrics(); err != nil {
		return
	}
	unitsOpen.Add(ctx, delta)
}
