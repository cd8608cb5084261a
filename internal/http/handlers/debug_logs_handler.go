package handlers

import (
	"net/http"
	"strconv"

	"loungepos/libs/logging"
)

// NewDebugLogsHandler returns the GET /debug/logs handler serving the
// ring-buffered log history, newest last. ?limit= caps the tail.
func NewDebugLogsHandler(ring *logging.Ring) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := ring.Snapshot()

		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			if len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"count": len(entries),
			"logs":  entries,
		})
	}
}
