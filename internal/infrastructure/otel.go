package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName    = "edulake-pipeline"
	ServiceVersion = "v1.0.0"
	MeterName      = "edulake"
)

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// InitializeOTel wires tracing (stdout exporter) and metrics (Prometheus
// exporter) and installs the global providers.
func InitializeOTel(logger *slog.Logger) (*OTelProviders, error) {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(ServiceVersion),
			semconv.DeploymentEnvironmentName(env),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	metricExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(metricExporter),
	)
	otel.SetMeterProvider(mp)

	logger.Info("OpenTelemetry initialized",
		slog.String("service", ServiceName),
		slog.String("environment", env))

	return &OTelProviders{
		TracerProvider: tp,
		MeterProvider:  mp,
		Tracer:         tp.Tracer(MeterName, trace.WithInstrumentationVersion(ServiceVersion)),
		Meter:          mp.Meter(MeterName, metric.WithInstrumentationVersion(ServiceVersion)),
		PrometheusHTTP: promhttp.Handler(),
		Logger:         logger,
	}, nil
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}
	return nil
}

// PipelineMetrics holds the pipeline's business metrics.
type PipelineMetrics struct {
	RunsTotal     metric.Int64Counter
	RunErrors     metric.Int64Counter
	RunDuration   metric.Float64Histogram
	RowsProcessed metric.Int64Counter
}

// CreatePipelineMetrics registers the pipeline metrics on the meter.
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runsTotal, err := meter.Int64Counter(
		"pipeline_runs_total",
		metric.WithDescription("Total number of pipeline runs"),
	)
	if err != nil {
		return nil, err
	}

	runErrors, err := meter.Int64Counter(
		"pipeline_run_errors_total",
		metric.WithDescription("Total number of failed pipeline runs"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"pipeline_run_duration_seconds",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rowsProcessed, err := meter.Int64Counter(
		"pipeline_rows_processed_total",
		metric.WithDescription("Rows emitted per dataset"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RunsTotal:     runsTotal,
		RunErrors:     runErrors,
		RunDuration:   runDuration,
		RowsProcessed: rowsProcessed,
	}, nil
}

// RecordRows adds the row count for one dataset.
func (m *PipelineMetrics) RecordRows(ctx context.Context, dataset string, rows int) {
	if m == nil {
		return
	}
	m.RowsProcessed.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("dataset", dataset)))
}
