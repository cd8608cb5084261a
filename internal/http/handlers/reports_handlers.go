package handlers

import (
	"net/http"
	"time"

	"loungepos/internal/service"
)

const dateLayout = "2006-01-02"

// ReportsHandlers serves the daily stats and reporting endpoints.
type ReportsHandlers struct {
	stats *service.StatsService
}

// NewReportsHandlers builds ReportsHandlers.
func NewReportsHandlers(stats *service.StatsService) *ReportsHandlers {
	return &ReportsHandlers{stats: stats}
}

// Daily handles GET /reports/daily, today by default or ?date=YYYY-MM-DD.
func (h *ReportsHandlers) Daily(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		stat, err := h.stats.ForDate(r.Context(), date)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stat)
		return
	}

	stat, err := h.stats.Today(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stat)
}

// Recompute handles POST /reports/daily/recompute.
func (h *ReportsHandlers) Recompute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	stat, err := h.stats.Recompute(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stat)
}

// Revenue handles GET /reports/revenue?from=&to=.
func (h *ReportsHandlers) Revenue(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	points, err := h.stats.Revenue(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"revenue": points})
}

// PaymentMethods handles GET /reports/payment-methods?from=&to=.
func (h *ReportsHandlers) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	breakdown, err := h.stats.PaymentMethods(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"methods": breakdown})
}

// GamePerformance handles GET /reports/games?from=&to=.
func (h *ReportsHandlers) GamePerformance(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	games, err := h.stats.GamePerformance(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}

// LoyaltySegments handles GET /reports/loyalty.
func (h *ReportsHandlers) LoyaltySegments(w http.ResponseWriter, r *http.Request) {
	segments, err := h.stats.LoyaltySegments(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"segments": segments})
}

// dateRange parses ?from= and ?to=, defaulting to the trailing 7 days.
func dateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -7)
	to := now

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	return from, to, true
}
