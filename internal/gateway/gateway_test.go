package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/sajtmaskin/prompt-gateway/internal/config"
	"github.com/sajtmaskin/prompt-gateway/internal/engine"
	"github.com/sajtmaskin/prompt-gateway/internal/gateway"
	"github.com/sajtmaskin/prompt-gateway/internal/monitoring"
	"github.com/sajtmaskin/prompt-gateway/internal/store"
)

// fakeStore records decisions in memory.
type fakeStore struct {
	records []store.Record
	failAll bool
}

func (f *fakeStore) RecordDecision(_ context.Context, requestID string, meta engine.StrategyMeta) error {
	if f.failAll {
		return context.DeadlineExceeded
	}
	f.records = append(f.records, store.Record{
		ID:        int64(len(f.records) + 1),
		RequestID: requestID,
		Strategy:  string(meta.Strategy),
		Reason:    meta.Reason,
	})
	return nil
}

func (f *fakeStore) Recent(_ context.Context, limit int) ([]store.Record, error) {
	if f.failAll {
		return nil, context.DeadlineExceeded
	}
	if limit > len(f.records) {
		limit = len(f.records)
	}
	out := make([]store.Record, 0, limit)
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

func testGateway(t *testing.T, st gateway.DecisionStore) (*gateway.Gateway, *monitoring.MetricsCollector) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.RateLimit = 0 // off unless a test enables it
	metrics := monitoring.NewMetricsCollector()
	return gateway.New(cfg, metrics, nil, st), metrics
}

func postOptimize(t *testing.T, gw *gateway.Gateway, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/optimize", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	gw.Handler().ServeHTTP(rec, req)
	return rec
}

func TestOptimizeEndpoint_DirectPassThrough(t *testing.T) {
	gw, _ := testGateway(t, nil)

	rec := postOptimize(t, gw, `{
		"message": "Build a simple landing page for a bakery.",
		"buildMethod": "freeform",
		"isFirstPrompt": true
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := rec.Body.String()
	assert.Equal(t, "Build a simple landing page for a bakery.", gjson.Get(body, "finalMessage").String())
	assert.Equal(t, "direct", gjson.Get(body, "meta.strategy").String())
	assert.Equal(t, "within_budget", gjson.Get(body, "meta.reason").String())
	assert.Equal(t, "freeform", gjson.Get(body, "meta.promptType").String())
	assert.Greater(t, gjson.Get(body, "estimatedTokens").Int(), int64(0))
}

func TestOptimizeEndpoint_MissingFieldsTakeDefaults(t *testing.T) {
	gw, _ := testGateway(t, nil)

	rec := postOptimize(t, gw, `{"message": "hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	// No buildMethod and isFirstPrompt absent (false): follow-up classification.
	assert.Equal(t, "followup_general", gjson.Get(body, "meta.promptType").String())
}

func TestOptimizeEndpoint_EmptyBodyObject(t *testing.T) {
	gw, _ := testGateway(t, nil)

	rec := postOptimize(t, gw, `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "empty_prompt", gjson.Get(rec.Body.String(), "meta.reason").String())
}

func TestOptimizeEndpoint_MalformedJSON(t *testing.T) {
	gw, _ := testGateway(t, nil)

	rec := postOptimize(t, gw, `{"message": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeEndpoint_MethodNotAllowed(t *testing.T) {
	gw, _ := testGateway(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/optimize", nil)
	rec := httptest.NewRecorder()
	gw.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestOptimizeEndpoint_HardCapHonored(t *testing.T) {
	gw, _ := testGateway(t, nil)

	payload := map[string]any{
		"message":       strings.Repeat("finding after finding in the audit. ", 1200),
		"buildMethod":   "audit",
		"isFirstPrompt": true,
		"hardCap":       4000,
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := postOptimize(t, gw, string(raw))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.LessOrEqual(t, len(gjson.Get(body, "finalMessage").String()), 4000)
	assert.Equal(t, "phase_plan_build_polish", gjson.Get(body, "meta.strategy").String())
}

func TestOptimizeEndpoint_RecordsToStoreAndMetrics(t *testing.T) {
	fs := &fakeStore{}
	gw, metrics := testGateway(t, fs)

	rec := postOptimize(t, gw, `{"message": "small", "isFirstPrompt": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, fs.records, 1)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), fs.records[0].RequestID)
	assert.Equal(t, "direct", fs.records[0].Strategy)
	assert.Equal(t, int64(1), metrics.Snapshot().Requests)
}

func TestOptimizeEndpoint_StoreFailureIsNotFatal(t *testing.T) {
	gw, _ := testGateway(t, &fakeStore{failAll: true})

	rec := postOptimize(t, gw, `{"message": "small", "isFirstPrompt": true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptimizationsEndpoint(t *testing.T) {
	fs := &fakeStore{}
	gw, _ := testGateway(t, fs)

	for i := 0; i < 3; i++ {
		postOptimize(t, gw, `{"message": "small", "isFirstPrompt": true}`)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/optimizations?limit=2", nil)
	rec := httptest.NewRecorder()
	gw.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(2), gjson.Get(body, "count").Int())
	assert.Len(t, gjson.Get(body, "optimizations").Array(), 2)
}

func TestOptimizationsEndpoint_BadLimit(t *testing.T) {
	gw, _ := testGateway(t, &fakeStore{})

	for _, raw := range []string{"abc", "0", "-1", "501"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/optimizations?limit="+raw, nil)
		rec := httptest.NewRecorder()
		gw.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", raw)
	}
}

func TestOptimizationsEndpoint_StoreDisabled(t *testing.T) {
	gw, _ := testGateway(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/optimizations", nil)
	rec := httptest.NewRecorder()
	gw.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	gw, _ := testGateway(t, nil)

	postOptimize(t, gw, `{"message": "small", "isFirstPrompt": true}`)

	req := httptest.NewRequest(http.MethodGet, "/v1/metrics", nil)
	rec := httptest.NewRecorder()
	gw.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "requests").Int())
}

func TestHealthEndpoint(t *testing.T) {
	gw, _ := testGateway(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	gw.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", gjson.Get(rec.Body.String(), "status").String())
}

func TestRequestIDPropagation(t *testing.T) {
	gw, _ := testGateway(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	rec := httptest.NewRecorder()
	gw.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "caller-supplied-id", rec.Header().Get("X-Request-ID"))
}

func TestSecurityHeaders(t *testing.T) {
	gw, _ := testGateway(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	gw.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRateLimiting(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RateLimit = 2
	gw := gateway.New(cfg, monitoring.NewMetricsCollector(), nil, nil)

	var tooMany int
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		gw.Handler().ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			tooMany++
		}
	}
	assert.Greater(t, tooMany, 0, "burst over the per-second rate must be rejected")
}
