// Package tracing wires an OpenTelemetry trace provider around apply
// runs. Disabled tracing costs nothing: the engine gets a no-op tracer.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dagimg-dot/floww/internal/config"
	"github.com/dagimg-dot/floww/internal/log"
)

const serviceName = "floww"

// Provider owns the configured tracer provider so it can be flushed on
// exit.
type Provider struct {
	provider *sdktrace.TracerProvider
}

// Setup builds a trace provider from the tracing config and installs it
// as the global otel provider. When tracing is disabled, nothing is
// installed and the engine's otel.Tracer calls resolve to no-ops.
// defaultPath is used for the file exporter when no path is configured.
func Setup(cfg config.Tracing, defaultPath string) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}

	exporter, err := newExporter(cfg, defaultPath)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(provider)
	log.Debug(log.CatTrace, "Tracing enabled", "exporter", cfg.Exporter)

	return &Provider{provider: provider}, nil
}

func newExporter(cfg config.Tracing, defaultPath string) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "file", "":
		path := cfg.Path
		if path == "" {
			path = defaultPath
		}
		exporter, err := NewFileExporter(path)
		if err != nil {
			return nil, fmt.Errorf("creating file exporter: %w", err)
		}
		return exporter, nil
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		return exporter, nil
	case "otlp":
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		exporter, err := otlptracegrpc.New(
			context.Background(),
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("unsupported trace exporter %q", cfg.Exporter)
	}
}

// Shutdown flushes pending spans. Safe to call when tracing was never
// enabled.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
