// Package telemetry wires OpenTelemetry traces, metrics and logs to an OTLP
// collector, runs continuous profiling against Pyroscope and defines the
// business counters of the rule guards.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported on every exported resource
const ServiceVersion = "1.0.0"

const shutdownTimeout = 10 * time.Second

// Config holds telemetry configuration.
type Config struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Environment       string
	Insecure          bool
	MetricsInterval   time.Duration
	// ProfileSpans tags CPU profiles with the IDs of the spans that were
	// active, letting a trace jump to its profile. Needs a running Profiler.
	ProfileSpans bool
}

// newResource describes this process to the collector
func newResource(cfg Config) (*resource.Resource, error) {
	attrs := []resource.Option{
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	}
	if cfg.Environment != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.DeploymentEnvironmentName(cfg.Environment)))
	}
	own, err := resource.New(context.Background(), attrs...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	res, err := resource.Merge(resource.Default(), own)
	if err != nil {
		return nil, fmt.Errorf("failed to merge resource: %w", err)
	}
	return res, nil
}

// shutdownProvider gives a provider a bounded time to flush. A nil
// shutdown means the pipeline was never started.
func shutdownProvider(ctx context.Context, log *zap.Logger, name string, shutdown func(context.Context) error) error {
	if shutdown == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error("Error shutting down "+name+" provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown %s provider: %w", name, err)
	}
	return nil
}
