package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffRetriesUntilSuccess(t *testing.T) {
	b := NewBackoff(time.Millisecond, 3)
	calls := 0
	err := b.Do(context.Background(), func(i int) error {
		calls++
		if i < 2 {
			return errors.New("boom")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestBackoffReturnsLastError(t *testing.T) {
	b := NewBackoff(time.Millisecond, 2)
	calls := 0
	err := b.Do(context.Background(), func(int) error {
		calls++
		return errors.New("down")
	})
	assert.EqualError(t, err, "down")
	assert.Equal(t, 3, calls)
}

func TestBackoffPermanentStops(t *testing.T) {
	b := NewBackoff(time.Millisecond, 5)
	calls := 0
	tooBig := errors.New("too big")
	err := b.Do(context.Background(), func(int) error {
		calls++
		return Permanent(tooBig)
	})
	assert.Equal(t, tooBig, err)
	assert.Equal(t, 1, calls)
}

func TestBackoffStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := NewBackoff(time.Second, 5)
	calls := 0
	err := b.Do(ctx, func(int) error {
		calls++
		return errors.New("down")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
}

func TestHTTPMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	mux := chi.NewRouter()
	mux.Use(m.Middleware)
	mux.Get("/reports/{report}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, p := range []string{"/reports/a", "/reports/b"} {
		mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 1)
	ms := mfs[0].GetMetric()
	require.Len(t, ms, 1)
	assert.Equal(t, 2.0, ms[0].GetCounter().GetValue())
	labels := map[string]string{}
	for _, lp := range ms[0].GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, "/reports/{report}", labels["route"])
	assert.Equal(t, "404", labels["status"])
}
