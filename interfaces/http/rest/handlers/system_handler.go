package handlers

import (
	"math"
	"net/http"

	"mtp-backend/infrastructure/config"
	"mtp-backend/pkg/observability"
	"mtp-backend/pkg/utils"
)

// apiVersion is reported by the health endpoint
const apiVersion = "1.0.0"

// degradedErrorRate marks the service degraded once more than half of
// the served requests fail.
const degradedErrorRate = 0.5

// SystemHandler serves the unauthenticated operational endpoints
type SystemHandler struct {
	collector *observability.Collector
	cfg       *config.Config
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(collector *observability.Collector, cfg *config.Config) *SystemHandler {
	return &SystemHandler{collector: collector, cfg: cfg}
}

// Health handles GET /v1/health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	s := h.collector.Snapshot()

	status := "healthy"
	if s.ErrorRate > degradedErrorRate {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": utils.NowISO(),
		"version":   apiVersion,
		"environment": map[string]interface{}{
			"table_name_configured": h.cfg.DynamoDBTable != "",
			"dev_mode":              h.cfg.DevMode,
		},
		"metrics": map[string]interface{}{
			"requests_total": s.RequestsTotal,
			"errors_total":   s.ErrorsTotal,
			"error_rate":     math.Round(s.ErrorRate*10000) / 10000,
			"avg_latency_ms": math.Round(s.AvgLatencySeconds*1000*100) / 100,
			"uptime_seconds": int64(s.UptimeSeconds),
		},
	})
}

// Metrics handles GET /v1/metrics with the Prometheus text format
func (h *SystemHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.collector.PrometheusText()))
}
