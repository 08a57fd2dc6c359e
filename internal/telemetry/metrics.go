package telemetry

import (
	"context"
	"time"

	"github.com/graph-gophers/graphql-go/errors"
	"github.com/graph-gophers/graphql-go/introspection"
	"github.com/graph-gophers/graphql-go/trace/tracer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hermdev/graphql-basics/internal/store"
)

const namespace = "graphql_basics"

// Metrics is a graphql-go tracer that records operation and field metrics
// before handing off to Next.
type Metrics struct {
	Next tracer.Tracer

	operations *prometheus.CounterVec
	fields     *prometheus.HistogramVec
}

// NewMetrics registers the operation metrics on reg and wraps next.
func NewMetrics(reg prometheus.Registerer, next tracer.Tracer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Next: next,
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "GraphQL operations executed, by outcome.",
		}, []string{"status"}),
		fields: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "field_duration_seconds",
			Help:      "Time spent resolving non-trivial fields.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"type", "field"}),
	}
}

// RegisterStoreGauges exports the table sizes of st.
func RegisterStoreGauges(reg prometheus.Registerer, st *store.Store) {
	f := promauto.With(reg)
	tables := map[string]func(store.Stats) int{
		"users":    func(s store.Stats) int { return s.Users },
		"posts":    func(s store.Stats) int { return s.Posts },
		"comments": func(s store.Stats) int { return s.Comments },
	}
	for table, get := range tables {
		get := get
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "records",
			Help:        "Rows per in-memory table.",
			ConstLabels: prometheus.Labels{"table": table},
		}, func() float64 {
			return float64(get(st.Stats()))
		})
	}
}

func (m *Metrics) TraceQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}, varTypes map[string]*introspection.Type) (context.Context, tracer.QueryFinishFunc) {
	ctx, finish := m.Next.TraceQuery(ctx, queryString, operationName, variables, varTypes)
	return ctx, func(errs []*errors.QueryError) {
		status := "ok"
		if len(errs) > 0 {
			status = "error"
		}
		m.operations.WithLabelValues(status).Inc()
		finish(errs)
	}
}

func (m *Metrics) TraceField(ctx context.Context, label, typeName, fieldName string, trivial bool, args map[string]interface{}) (context.Context, tracer.FieldFinishFunc) {
	ctx, finish := m.Next.TraceField(ctx, label, typeName, fieldName, trivial, args)
	if trivial {
		return ctx, finish
	}
	start := time.Now()
	return ctx, func(err *errors.QueryError) {
		m.fields.WithLabelValues(typeName, fieldName).Observe(time.Since(start).Seconds())
		finish(err)
	}
}

func (m *Metrics) TraceValidation(ctx context.Context) tracer.ValidationFinishFunc {
	if vt, ok := m.Next.(tracer.ValidationTracer); ok {
		return vt.TraceValidation(ctx)
	}
	return func([]*errors.QueryError) {}
}
