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

// defaultListLimit caps one page of a listing when the caller gives none
const defaultListLimit = 50

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	notes  *services.NoteService
	logger *zap.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(notes *services.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

// CreateNoteRequest is the request body for creating a note
type CreateNoteRequest struct {
	Date       string   `json:"date" validate:"required"`
	Text       string   `json:"text" validate:"required"`
	Direction  *string  `json:"direction,omitempty"`
	Session    *string  `json:"session,omitempty"`
	Risk       *float64 `json:"risk,omitempty"`
	WinAmount  *float64 `json:"win_amount,omitempty"`
	StrategyID *string  `json:"strategyId,omitempty"`
	HitMiss    *string  `json:"hit_miss,omitempty"`
}

func (req CreateNoteRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{
		"date": req.Date,
		"text": req.Text,
	}
	putOptional(fields, "direction", req.Direction)
	putOptional(fields, "session", req.Session)
	putOptionalFloat(fields, "risk", req.Risk)
	putOptionalFloat(fields, "win_amount", req.WinAmount)
	putOptional(fields, "strategyId", req.StrategyID)
	putOptional(fields, "hit_miss", req.HitMiss)
	return fields
}

// UpdateNoteRequest is the request body for updating a note; absent
// fields stay untouched.
type UpdateNoteRequest struct {
	Date       *string  `json:"date,omitempty"`
	Text       *string  `json:"text,omitempty"`
	Direction  *string  `json:"direction,omitempty"`
	Session    *string  `json:"session,omitempty"`
	Risk       *float64 `json:"risk,omitempty"`
	WinAmount  *float64 `json:"win_amount,omitempty"`
	StrategyID *string  `json:"strategyId,omitempty"`
	HitMiss    *string  `json:"hit_miss,omitempty"`
}

func (req UpdateNoteRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	putOptional(fields, "date", req.Date)
	putOptional(fields, "text", req.Text)
	putOptional(fields, "direction", req.Direction)
	putOptional(fields, "session", req.Session)
	putOptionalFloat(fields, "risk", req.Risk)
	putOptionalFloat(fields, "win_amount", req.WinAmount)
	putOptional(fields, "strategyId", req.StrategyID)
	putOptional(fields, "hit_miss", req.HitMiss)
	return fields
}

func putOptional(fields map[string]interface{}, name string, value *string) {
	if value != nil {
		fields[name] = *value
	}
}

func putOptionalFloat(fields map[string]interface{}, name string, value *float64) {
	if value != nil {
		fields[name] = *value
	}
}

// Create handles POST /v1/notes
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
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

	noteID, err := h.notes.Create(r.Context(), userID, req.fields())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "Note created successfully",
		"noteId":  noteID,
	})
}

// List handles GET /v1/notes
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := parseLimit(r, defaultListLimit)
	lastKey := r.URL.Query().Get("lastKey")

	result, err := h.notes.List(r.Context(), userID, limit, lastKey)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Get handles GET /v1/notes/{noteID}
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	if noteID == "" {
		respondMessage(w, http.StatusBadRequest, "Note ID required")
		return
	}

	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	note, err := h.notes.Get(r.Context(), userID, noteID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

// Update handles PUT/PATCH /v1/notes/{noteID}
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	if noteID == "" {
		respondMessage(w, http.StatusBadRequest, "Note ID required")
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	note, err := h.notes.Update(r.Context(), userID, noteID, req.fields())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Note updated successfully",
		"note":    note,
	})
}

// Delete handles DELETE /v1/notes/{noteID}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	if noteID == "" {
		respondMessage(w, http.StatusBadRequest, "Note ID required")
		return
	}

	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.notes.Delete(r.Context(), userID, noteID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "Note deleted successfully")
}
