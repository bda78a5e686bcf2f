package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/inventory/pkg/metrics"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/stores/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/stores/{id}", "418"))
	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stores/"+id, nil))
	}
	after := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/stores/{id}", "418"))

	assert.Equal(t, 3.0, after-before)
}

func TestCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("memory", "hit"))
	misses := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("memory", "miss"))

	metrics.CacheLookup("memory", true)
	metrics.CacheLookup("memory", false)
	metrics.CacheLookup("memory", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("memory", "hit"))-hits)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("memory", "miss"))-misses)
}

func TestHandlerServesRegistry(t *testing.T) {
	metrics.ObserveDBQuery("select", time.Now())
	metrics.StatsTimer()()

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inventory_db_query_duration_seconds")
	assert.Contains(t, rec.Body.String(), "inventory_stats_compute_duration_seconds")
}
