// Package telemetry sets up OpenTelemetry tracing from the standard OTEL_*
// environment variables.
//
//	OTEL_ENABLED                 - enable tracing (default: false)
//	OTEL_SERVICE_NAME            - service name (default: stamp)
//	OTEL_SERVICE_VERSION         - service version (default: the binary's version)
//	OTEL_EXPORTER_OTLP_ENDPOINT  - OTLP collector endpoint
//	OTEL_EXPORTER_OTLP_PROTOCOL  - grpc or http/protobuf (default: grpc)
//	OTEL_EXPORTER_OTLP_HEADERS   - e.g. Authorization=Bearer xxx
//	OTEL_EXPORTER_OTLP_INSECURE  - disable TLS
//	OTEL_TRACES_SAMPLER          - sampler (default: always_on)
//	OTEL_TRACES_SAMPLER_ARG      - sampler ratio
//	OTEL_RESOURCE_ATTRIBUTES     - extra resource attributes
//
// When tracing is disabled the global no-op TracerProvider stays in place and
// spans started with otel.Tracer cost nothing.
package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
)

var (
	globalConfig *Config
	configOnce   sync.Once
)

// ShutdownFunc flushes and stops the TracerProvider.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init installs the global TracerProvider. version is reported when
// OTEL_SERVICE_VERSION is unset.
func Init(ctx context.Context, version string) (ShutdownFunc, error) {
	cfg := loadConfig()
	if !cfg.Enabled {
		return noopShutdown, nil
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = version
	}

	res, err := buildResource(cfg)
	if err != nil {
		return noopShutdown, fmt.Errorf("failed to build resource: %w", err)
	}

	exporter, err := createExporter(ctx, cfg)
	if err != nil {
		return noopShutdown, fmt.Errorf("failed to create exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exporter),
		trace.WithSampler(createSampler(cfg)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// Enabled reports whether OTEL_ENABLED turned tracing on.
func Enabled() bool {
	return loadConfig().Enabled
}

// GetConfig returns the cached configuration.
func GetConfig() *Config {
	return loadConfig()
}

func loadConfig() *Config {
	configOnce.Do(func() {
		globalConfig = LoadFromEnv()
	})
	return globalConfig
}
