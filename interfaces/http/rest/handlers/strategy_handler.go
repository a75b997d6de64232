package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mtp-backend/application/services"
	"mtp-backend/pkg/auth"
	"mtp-backend/pkg/utils"
)

// StrategyHandler handles strategy-related HTTP requests
type StrategyHandler struct {
	strategies *services.StrategyService
	logger     *zap.Logger
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(strategies *services.StrategyService, logger *zap.Logger) *StrategyHandler {
	return &StrategyHandler{strategies: strategies, logger: logger}
}

// CreateStrategyRequest is the request body for creating a strategy
type CreateStrategyRequest struct {
	Name      string                 `json:"name" validate:"required"`
	Market    string                 `json:"market" validate:"required"`
	Timeframe string                 `json:"timeframe" validate:"required"`
	DSL       map[string]interface{} `json:"dsl,omitempty"`
}

func (req CreateStrategyRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{
		"name":      req.Name,
		"market":    req.Market,
		"timeframe": req.Timeframe,
	}
	if req.DSL != nil {
		fields["dsl"] = req.DSL
	}
	return fields
}

// UpdateStrategyRequest is the request body for updating a strategy
type UpdateStrategyRequest struct {
	Name      *string                `json:"name,omitempty"`
	Market    *string                `json:"market,omitempty"`
	Timeframe *string                `json:"timeframe,omitempty"`
	DSL       map[string]interface{} `json:"dsl,omitempty"`
}

func (req UpdateStrategyRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	putOptional(fields, "name", req.Name)
	putOptional(fields, "market", req.Market)
	putOptional(fields, "timeframe", req.Timeframe)
	if req.DSL != nil {
		fields["dsl"] = req.DSL
	}
	return fields
}

// Create handles POST /v1/strategies
func (h *StrategyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	strategyID, err := h.strategies.Create(r.Context(), userID, req.fields())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message":    "Strategy created successfully",
		"strategyId": strategyID,
	})
}

// List handles GET /v1/strategies
func (h *StrategyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := parseLimit(r, defaultListLimit)
	lastKey := r.URL.Query().Get("lastKey")

	result, err := h.strategies.List(r.Context(), userID, limit, lastKey)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Get handles GET /v1/strategies/{strategyID}
func (h *StrategyHandler) Get(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "strategyID")
	if strategyID == "" {
		respondMessage(w, http.StatusBadRequest, "Strategy ID required")
		return
	}

	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	strategy, err := h.strategies.Get(r.Context(), userID, strategyID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"strategy": strategy})
}

// Update handles PUT/PATCH /v1/strategies/{strategyID}
func (h *StrategyHandler) Update(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "strategyID")
	if strategyID == "" {
		respondMessage(w, http.StatusBadRequest, "Strategy ID required")
		return
	}

	var req UpdateStrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	strategy, err := h.strategies.Update(r.Context(), userID, strategyID, req.fields())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Strategy updated successfully",
		"strategy": strategy,
	})
}

// Delete handles DELETE /v1/strategies/{strategyID}
func (h *StrategyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "strategyID")
	if strategyID == "" {
		respondMessage(w, http.StatusBadRequest, "Strategy ID required")
		return
	}

	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.strategies.Delete(r.Context(), userID, strategyID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "Strategy deleted successfully")
}
