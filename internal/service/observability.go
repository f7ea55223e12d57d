package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// Well-known event fields.
const (
	FieldProjectID       = "project_id"
	FieldBaselineVersion = "baseline_version"
)

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes service use-case events to the provided writer.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// NewSlogUseCaseObserver writes service use-case events through logger.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "service_use_case", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "service_use_case", attrs...)
}

// MetricsUseCaseObserver records use-case counts and latencies, and the
// latest baseline version per project.
type MetricsUseCaseObserver struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	baseline *prometheus.GaugeVec
}

// NewMetricsUseCaseObserver registers its collectors on reg.
func NewMetricsUseCaseObserver(reg prometheus.Registerer) *MetricsUseCaseObserver {
	factory := promauto.With(reg)
	return &MetricsUseCaseObserver{
		calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wbs",
				Name:      "use_case_total",
				Help:      "Total number of service use-case executions",
			},
			[]string{"use_case", "result"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "wbs",
				Name:      "use_case_duration_seconds",
				Help:      "Duration of service use cases in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"use_case"},
		),
		baseline: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "wbs",
				Name:      "baseline_version",
				Help:      "Latest committed baseline version per project",
			},
			[]string{"project_id"},
		),
	}
}

func (o *MetricsUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	result := "success"
	if !event.Success {
		result = "error"
	}
	o.calls.WithLabelValues(event.Name, result).Inc()
	o.duration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())

	if !event.Success {
		return
	}
	projectID, _ := event.Fields[FieldProjectID].(string)
	version, ok := event.Fields[FieldBaselineVersion].(int)
	if projectID != "" && ok {
		o.baseline.WithLabelValues(projectID).Set(float64(version))
	}
}

// MultiUseCaseObserver fans each event out to every observer in order.
type MultiUseCaseObserver []UseCaseObserver

func (m MultiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, obs := range m {
		obs.ObserveUseCase(ctx, event)
	}
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var live MultiUseCaseObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	}
	return live
}

// observe reports a finished use case. Call it deferred with a pointer to the
// named error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}
