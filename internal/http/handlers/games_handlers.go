package handlers

import (
	"net/http"

	"loungepos/internal/service"
)

// GamesHandlers serves the game catalog endpoints.
type GamesHandlers struct {
	games *service.GamesService
}

// NewGamesHandlers builds GamesHandlers.
func NewGamesHandlers(games *service.GamesService) *GamesHandlers {
	return &GamesHandlers{games: games}
}

// List handles GET /games.
func (h *GamesHandlers) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}

// Create handles POST /games.
func (h *GamesHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string   `json:"name"`
		Genre        string   `json:"genre"`
		PricePerGame *float64 `json:"price_per_game"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	game, err := h.games.Create(r.Context(), service.GameInput{
		Name: req.Name, Genre: req.Genre, PricePerGame: req.PricePerGame,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

// Update handles PUT /games.
func (h *GamesHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID           int64    `json:"id"`
		Name         string   `json:"name"`
		Genre        string   `json:"genre"`
		PricePerGame *float64 `json:"price_per_game"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	game, err := h.games.Update(r.Context(), req.ID, service.GameInput{
		Name: req.Name, Genre: req.Genre, PricePerGame: req.PricePerGame,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// Delete handles DELETE /games.
func (h *GamesHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int64 `json:"id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.games.Delete(r.Context(), req.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
