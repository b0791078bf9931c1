// AngelaMos | 2026
// telemetry.go

package core

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/carterperez-dev/templates/user-backend/internal/authctx"
	"github.com/carterperez-dev/templates/user-backend/internal/config"
)

// OperationScope is the instrumentation scope of service operation spans.
const OperationScope = "github.com/carterperez-dev/templates/user-backend/operations"

const (
	AttrUserID     = attribute.Key("enduser.id")
	AttrUserClaims = attribute.Key("enduser.claims")
)

// Telemetry owns the tracer provider behind the operation tracer. Every
// span started under an authenticated context is stamped with the caller's
// id and claims.
type Telemetry struct {
	provider  *sdktrace.TracerProvider
	operation trace.Tracer
	exporting bool
}

// NewTelemetry exports spans over OTLP/gRPC when otelCfg enables it and
// falls back to NewLocalTelemetry otherwise.
func NewTelemetry(
	ctx context.Context,
	otelCfg config.OtelConfig,
	appCfg config.AppConfig,
) (*Telemetry, error) {
	if !otelCfg.Enabled || otelCfg.Endpoint == "" {
		return NewLocalTelemetry(otelCfg.ServiceName, appCfg), nil
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(otelCfg.Endpoint),
		otlptracegrpc.WithTimeout(5 * time.Second),
	}
	if otelCfg.Insecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(serviceAttributes(otelCfg.ServiceName, appCfg)...),
		resource.WithHost(),
		resource.WithProcess(),
	)
	if err != nil {
		_ = exporter.Shutdown(ctx) //nolint:errcheck // cleanup on setup failure
		return nil, fmt.Errorf("create resource: %w", err)
	}

	sampleRate := otelCfg.SampleRate
	if sampleRate <= 0 || sampleRate > 1 {
		sampleRate = 0.1
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(principalProcessor{}),
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(512),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(
			sdktrace.TraceIDRatioBased(sampleRate),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return newTelemetry(tp, appCfg, true), nil
}

// NewLocalTelemetry samples every operation but never ships a span. It is
// what runs when export is disabled or the exporter cannot be built, so it
// cannot fail. opts are appended to the provider options.
func NewLocalTelemetry(
	serviceName string,
	appCfg config.AppConfig,
	opts ...sdktrace.TracerProviderOption,
) *Telemetry {
	base := []sdktrace.TracerProviderOption{
		sdktrace.WithSpanProcessor(principalProcessor{}),
		sdktrace.WithResource(resource.NewSchemaless(serviceAttributes(serviceName, appCfg)...)),
	}

	tp := sdktrace.NewTracerProvider(append(base, opts...)...)
	return newTelemetry(tp, appCfg, false)
}

func newTelemetry(tp *sdktrace.TracerProvider, appCfg config.AppConfig, exporting bool) *Telemetry {
	return &Telemetry{
		provider: tp,
		operation: tp.Tracer(OperationScope,
			trace.WithInstrumentationVersion(appCfg.Version),
		),
		exporting: exporting,
	}
}

func serviceAttributes(serviceName string, appCfg config.AppConfig) []attribute.KeyValue {
	if serviceName == "" {
		serviceName = appCfg.Name
	}
	return []attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(appCfg.Version),
		semconv.DeploymentEnvironment(appCfg.Environment),
	}
}

// OperationTracer is the tracer the tracing aspect opens operation spans
// with.
func (t *Telemetry) OperationTracer() trace.Tracer {
	return t.operation
}

// Exporting reports whether spans leave the process.
func (t *Telemetry) Exporting() bool {
	return t.exporting
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := t.provider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}

// principalProcessor copies the authenticated caller onto each span as it
// starts.
type principalProcessor struct{}

func (principalProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	p, ok := authctx.From(parent)
	if !ok {
		return
	}
	s.SetAttributes(
		AttrUserID.String(p.UserID),
		AttrUserClaims.StringSlice(p.Claims),
	)
}

func (principalProcessor) OnEnd(sdktrace.ReadOnlySpan)      {}
func (principalProcessor) Shutdown(context.Context) error   { return nil }
func (principalProcessor) ForceFlush(context.Context) error { return nil }

// TraceIDFromContext returns the active trace id or "".
func TraceIDFromContext(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
