package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/trace/noop"
	otgraphql "github.com/graph-gophers/graphql-go/trace/opentracing"
	otelgraphql "github.com/graph-gophers/graphql-go/trace/otel"
	"github.com/graph-gophers/graphql-go/trace/tracer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hermdev/graphql-basics/internal/blog"
	"github.com/hermdev/graphql-basics/internal/store"
)

func TestInterfaceImplementation(t *testing.T) {
	var _ tracer.ValidationTracer = &Metrics{}
	var _ tracer.Tracer = &Metrics{}
}

func TestNewTracer(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	tr, shutdown, err := NewTracer(ctx, "none", "", log)
	require.NoError(t, err)
	assert.IsType(t, noop.Tracer{}, tr)
	assert.NoError(t, shutdown(ctx))

	tr, shutdown, err = NewTracer(ctx, "otel", "", log)
	require.NoError(t, err)
	assert.IsType(t, &otelgraphql.Tracer{}, tr)
	assert.NoError(t, shutdown(ctx))

	tr, _, err = NewTracer(ctx, "opentracing", "", log)
	require.NoError(t, err)
	assert.IsType(t, otgraphql.Tracer{}, tr)

	_, _, err = NewTracer(ctx, "zipkin", "", log)
	assert.EqualError(t, err, `unknown tracer "zipkin"`)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, noop.Tracer{})
	st := store.NewSeeded()
	RegisterStoreGauges(reg, st)

	schema := blog.MustNewSchema(blog.NewResolver(st), graphql.Tracer(m))

	res := schema.Exec(context.Background(), `{ users { name } }`, "", nil)
	require.Empty(t, res.Errors)
	res = schema.Exec(context.Background(), `mutation { createPost(title: "t", body: "b", published: true, author: "404") { id } }`, "", nil)
	require.Len(t, res.Errors, 1)
	res = schema.Exec(context.Background(), `mutation { createUser(name: "ann", email: "ann@example.com") { id } }`, "", nil)
	require.Empty(t, res.Errors)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("error")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.fields), "users, createPost and createUser take arguments and are timed")

	expected := `
# HELP graphql_basics_records Rows per in-memory table.
# TYPE graphql_basics_records gauge
graphql_basics_records{table="comments"} 3
graphql_basics_records{table="posts"} 3
graphql_basics_records{table="users"} 4
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "graphql_basics_records"))
}
