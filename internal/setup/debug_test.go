package setup

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/proofboard/proofboard/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugRouter(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	m.SubmissionsCreated.Inc()

	server := httptest.NewServer(newDebugRouter(registry, func(context.Context) error { return nil }))
	t.Cleanup(server.Close)

	tests := []struct {
		path     string
		contains string
	}{
		{path: "/metrics", contains: "proofboard_submissions_created_total 1"},
		{path: "/debug/pprof/", contains: "goroutine"},
		{path: "/healthz"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, server.URL+tt.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)

			if tt.contains != "" {
				body := new(bytes.Buffer)
				_, err = body.ReadFrom(resp.Body)
				require.NoError(t, err)
				assert.Contains(t, body.String(), tt.contains)
			}
		})
	}
}

func TestDebugRouterHealthFailure(t *testing.T) {
	t.Parallel()

	check := func(context.Context) error { return errors.New("redis unreachable") }

	server := httptest.NewServer(newDebugRouter(prometheus.NewRegistry(), check))
	t.Cleanup(server.Close)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, server.URL+"/healthz", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
