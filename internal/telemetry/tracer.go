// Package telemetry selects the graphql-go tracer and records Prometheus
// metrics for executed operations.
package telemetry

import (
	"context"

	otgraphql "github.com/graph-gophers/graphql-go/trace/opentracing"
	otelgraphql "github.com/graph-gophers/graphql-go/trace/otel"
	"github.com/graph-gophers/graphql-go/trace/noop"
	"github.com/graph-gophers/graphql-go/trace/tracer"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/hermdev/graphql-basics/internal/config"
)

// ServiceName names the otel tracer.
const ServiceName = "graphql-basics"

// ShutdownFunc flushes and stops a tracer.
type ShutdownFunc func(context.Context) error

func noShutdown(context.Context) error { return nil }

// NewTracer returns the graphql-go tracer selected by name.
//
// The otel tracer exports spans over OTLP/HTTP when endpoint is set; without
// an endpoint spans are recorded by a provider with no exporter. The provider
// also becomes the global otel provider. The
// opentracing tracer reports to the global opentracing tracer, which the
// process must register itself.
func NewTracer(ctx context.Context, name, endpoint string, log *zap.Logger) (tracer.Tracer, ShutdownFunc, error) {
	switch name {
	case config.TracerNone, "":
		return noop.Tracer{}, noShutdown, nil

	case config.TracerOTel:
		var opts []sdktrace.TracerProviderOption
		if endpoint != "" {
			exp, err := otlptracehttp.New(ctx,
				otlptracehttp.WithEndpoint(endpoint),
				otlptracehttp.WithInsecure(),
			)
			if err != nil {
				return nil, nil, errors.Wrap(err, "creating otlp exporter")
			}
			opts = append(opts, sdktrace.WithBatcher(exp))
		} else {
			log.Warn("otel tracer enabled without an otlp endpoint, spans are not exported")
		}
		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		return &otelgraphql.Tracer{Tracer: tp.Tracer(ServiceName)}, tp.Shutdown, nil

	case config.TracerOpenTracing:
		if !opentracing.IsGlobalTracerRegistered() {
			log.Warn("no global opentracing tracer registered, spans are discarded")
		}
		return otgraphql.Tracer{}, noShutdown, nil
	}
	return nil, nil, errors.Errorf("unknown tracer %q", name)
}
