package handlers

import (
	"net/http"
	"time"

	"loungepos/internal/service"
)

// StationsHandlers serves the station registry endpoints.
type StationsHandlers struct {
	stations *service.StationsService
}

// NewStationsHandlers builds StationsHandlers.
func NewStationsHandlers(stations *service.StationsService) *StationsHandlers {
	return &StationsHandlers{stations: stations}
}

// Create handles POST /stations.
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string   `json:"name"`
		StationType string   `json:"station_type"`
		RatePerHour float64  `json:"rate_per_hour"`
		RatePerGame *float64 `json:"rate_per_game"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	station, err := h.stations.Create(r.Context(), service.CreateStationInput{
		Name:        req.Name,
		StationType: req.StationType,
		RatePerHour: req.RatePerHour,
		RatePerGame: req.RatePerGame,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

// List handles GET /stations.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	stations, err := h.stations.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stations": stations})
}

// SetMaintenance handles POST /stations/maintenance.
func (h *StationsHandlers) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StationID int64      `json:"station_id"`
		Reason    string     `json:"reason"`
		ETA       *time.Time `json:"eta"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	station, err := h.stations.SetMaintenance(r.Context(), req.StationID, req.Reason, req.ETA)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// ClearMaintenance handles POST /stations/available.
func (h *StationsHandlers) ClearMaintenance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StationID int64 `json:"station_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	station, err := h.stations.ClearMaintenance(r.Context(), req.StationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}
