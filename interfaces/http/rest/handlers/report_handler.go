package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mtp-backend/application/services"
	"mtp-backend/pkg/auth"
)

// defaultReportLimit bounds how many notes one summary scans
const defaultReportLimit = 200

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reports *services.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *services.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// NotesSummary handles GET /v1/reports/notes-summary
func (h *ReportHandler) NotesSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	limit := parseLimit(r, defaultReportLimit)

	summary, err := h.reports.NotesSummary(r.Context(), userID, from, to, limit)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"summary": summary})
}
