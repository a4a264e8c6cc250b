package handler

import (
	"fmt"
	"net/http"

	"github.com/repocat/repocat/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "repocat_repositories_created_total %d\n", snap.RepositoriesCreated)
	writeMetric(w, "repocat_repositories_updated_total %d\n", snap.RepositoriesUpdated)
	writeMetric(w, "repocat_repositories_deleted_total %d\n", snap.RepositoriesDeleted)

	writeMetric(w, "repocat_listing_cache_hits_total %d\n", snap.ListingCacheHits)
	writeMetric(w, "repocat_listing_cache_misses_total %d\n", snap.ListingCacheMisses)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
