package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmehdipour/points-claimer/internal/model"
	"github.com/jmehdipour/points-claimer/internal/service/runs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	release chan struct{}
}

func (r *stubRunner) RunWithID(ctx context.Context, id string) model.RunReport {
	if r.release != nil {
		<-r.release
	}
	return model.RunReport{RunID: id, Accounts: 3, Claimed: 2}
}

func newTestServer(t *testing.T, runner runs.Runner) (*Server, *runs.Service) {
	t.Helper()
	svc := runs.New(context.Background(), runner, nil)
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"}))
	return NewServer("secret", svc, reg, nil), svc
}

func do(s *Server, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, &stubRunner{})
	rec := do(s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t, &stubRunner{})
	rec := do(s, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_total")
}

func TestRuns_RequireAPIKey(t *testing.T) {
	s, _ := newTestServer(t, &stubRunner{})

	assert.Equal(t, http.StatusUnauthorized, do(s, http.MethodPost, "/v1/runs", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(s, http.MethodPost, "/v1/runs", "wrong").Code)
}

func TestRuns_DisabledWithoutKey(t *testing.T) {
	svc := runs.New(context.Background(), &stubRunner{}, nil)
	s := NewServer("", svc, prometheus.NewRegistry(), nil)

	assert.Equal(t, http.StatusServiceUnavailable, do(s, http.MethodPost, "/v1/runs", "anything").Code)
}

func TestRuns_TriggerAndLast(t *testing.T) {
	runner := &stubRunner{release: make(chan struct{})}
	s, svc := newTestServer(t, runner)

	rec := do(s, http.MethodGet, "/v1/runs/last", "secret")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(s, http.MethodPost, "/v1/runs", "secret")
	require.Equal(t, http.StatusAccepted, rec.Code)
	var started struct {
		Started bool   `json:"started"`
		RunID   string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	assert.True(t, started.Started)
	assert.NotEmpty(t, started.RunID)

	rec = do(s, http.MethodPost, "/v1/runs", "secret")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "run_in_progress"))

	close(runner.release)
	svc.Wait()

	rec = do(s, http.MethodGet, "/v1/runs/last", "secret")
	require.Equal(t, http.StatusOK, rec.Code)
	var last struct {
		Running bool            `json:"running"`
		Report  model.RunReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &last))
	assert.False(t, last.Running)
	assert.Equal(t, started.RunID, last.Report.RunID)
	assert.Equal(t, 2, last.Report.Claimed)
}
