package graceful

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const probeTimeout = 5 * time.Second

// Probes answers the liveness and readiness endpoints.
type Probes interface {
	Liveness(ctx context.Context) error
	Readiness(ctx context.Context) error
}

type probeResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NewOpsMux serves /metrics from gatherer, /healthz and /readyz from probes.
func NewOpsMux(probes Probes, gatherer prometheus.Gatherer) *http.ServeMux {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", probeHandler(probes.Liveness))
	mux.HandleFunc("GET /readyz", probeHandler(probes.Readiness))

	return mux
}

func probeHandler(probe func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		status := http.StatusOK
		resp := probeResponse{Status: "ok"}
		if err := probe(ctx); err != nil {
			status = http.StatusServiceUnavailable
			resp = probeResponse{Status: "unavailable", Error: err.Error()}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
