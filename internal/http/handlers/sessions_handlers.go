package handlers

import (
	"net/http"
	"strconv"

	"loungepos/internal/service"
)

// SessionsHandlers serves the session lifecycle endpoints.
type SessionsHandlers struct {
	sessions *service.SessionsService
}

// NewSessionsHandlers builds SessionsHandlers.
func NewSessionsHandlers(sessions *service.SessionsService) *SessionsHandlers {
	return &SessionsHandlers{sessions: sessions}
}

// Start handles POST /sessions/start.
func (h *SessionsHandlers) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StationID      int64  `json:"station_id"`
		CustomerID     int64  `json:"customer_id"`
		GameID         *int64 `json:"game_id"`
		SessionType    string `json:"session_type"`
		PlannedMinutes *int   `json:"planned_minutes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessions.Start(r.Context(), service.StartSessionInput{
		StationID:      req.StationID,
		CustomerID:     req.CustomerID,
		GameID:         req.GameID,
		SessionType:    req.SessionType,
		PlannedMinutes: req.PlannedMinutes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// End handles POST /sessions/end.
func (h *SessionsHandlers) End(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID int64 `json:"session_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessions.End(r.Context(), req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Active handles GET /sessions/active.
func (h *SessionsHandlers) Active(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	sessions, err := h.sessions.Active(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}
