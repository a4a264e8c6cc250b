package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker reports whether a backing dependency is reachable.
// *store.Store and *cache.Cache both satisfy it through Ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// readyzTimeout caps how long a readiness probe may block on slow
// dependencies before the probe itself is counted as failed.
const readyzTimeout = 5 * time.Second

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	deps []healthDep
}

type healthDep struct {
	name    string
	checker HealthChecker
}

// NewHealthHandler wires the probes to the Postgres store and the
// Redis cache. A nil checker marks that dependency as not configured
// without failing readiness.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		deps: []healthDep{
			{name: "postgres", checker: db},
			{name: "redis", checker: cache},
		},
	}
}

// HealthResponse is the wire shape of both probes. Checks is only
// populated by readiness.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz answers GET /healthz. It only proves the process is serving
// requests and never touches a dependency, so a flapping database
// cannot get the pod restarted.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz answers GET /readyz. Every dependency is pinged and reported
// per check; any failure degrades the response to 503 so the instance
// drops out of load-balancer rotation until it recovers.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	healthy := true

	for _, dep := range h.deps {
		if dep.checker == nil {
			checks[dep.name] = "not configured"
			continue
		}
		if err := dep.checker.Ping(ctx); err != nil {
			checks[dep.name] = "error: " + err.Error()
			healthy = false
			continue
		}
		checks[dep.name] = "ok"
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{Status: status, Checks: checks})
}
