package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermdev/graphql-basics/internal/blog"
	"github.com/hermdev/graphql-basics/internal/store"
)

func newTestServer(t *testing.T, graphiql bool) (*Server, *store.Store, *prometheus.Registry) {
	t.Helper()
	st := store.NewSeeded()
	reg := prometheus.NewRegistry()
	s := New(Options{
		Addr:            "127.0.0.1:0",
		Schema:          blog.MustNewSchema(blog.NewResolver(st)),
		Store:           st,
		Gatherer:        reg,
		AllowedOrigins:  []string{"*"},
		GraphiQL:        graphiql,
		ShutdownTimeout: time.Second,
	})
	return s, st, reg
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func postQuery(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, gqlResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var res gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return rec, res
}

func TestQuery(t *testing.T) {
	s, _, _ := newTestServer(t, true)

	rec, res := postQuery(t, s.Routes(), `{"query": "{ posts(query: \"best\") { id author { name } } }"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, res.Errors)
	assert.JSONEq(t, `{"posts": [{"id": "2", "author": {"name": "gary"}}]}`, string(res.Data))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestMutationError(t *testing.T) {
	s, st, _ := newTestServer(t, true)

	body := `{
		"query": "mutation($email: String!) { createUser(name: \"x\", email: $email) { id } }",
		"variables": {"email": "herm@gmail.com"}
	}`
	_, res := postQuery(t, s.Routes(), body)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "email taken", res.Errors[0].Message)
	assert.Equal(t, "EMAIL_TAKEN", res.Errors[0].Extensions["code"])
	assert.Equal(t, 3, st.Stats().Users)
}

func TestRequestIDPropagation(t *testing.T) {
	s, _, _ := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "given-id")
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, "given-id", rec.Header().Get(requestIDHeader))
}

func TestHealth(t *testing.T) {
	s, st, _ := newTestServer(t, true)
	_, err := st.CreateUser("ann", "ann@example.com", nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy", "tables": {"users": 4, "posts": 3, "comments": 3}}`, rec.Body.String())
}

func TestMetrics(t *testing.T) {
	s, _, reg := newTestServer(t, true)
	promauto.With(reg).NewCounter(prometheus.CounterOpts{Name: "test_counter", Help: "test"}).Inc()

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_counter 1")
}

func TestGraphiQL(t *testing.T) {
	s, _, _ := newTestServer(t, true)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GraphiQL")
	assert.Contains(t, rec.Body.String(), "graphQLFetcher")

	s, _, _ = newTestServer(t, false)
	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	s, _, _ := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/query", nil)
	req.Header.Set("Origin", "https://client.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServeShutdown(t *testing.T) {
	s, _, _ := newTestServer(t, false)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/healthz")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
