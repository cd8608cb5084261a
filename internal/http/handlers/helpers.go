package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"loungepos/internal/auth"
	"loungepos/internal/mpesa"
	"loungepos/internal/service"
	"loungepos/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps domain error kinds onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrStationUnavailable):
		writeError(w, http.StatusConflict, "station unavailable")
	case errors.Is(err, store.ErrSessionNotActive):
		writeError(w, http.StatusConflict, "session is not active")
	case errors.Is(err, store.ErrPaymentNotPending):
		writeError(w, http.StatusConflict, "payment already settled")
	case errors.Is(err, service.ErrSplitImbalance):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPartAlreadyPaid):
		writeError(w, http.StatusConflict, "split part already paid")
	case errors.Is(err, store.ErrDuplicate), errors.Is(err, auth.ErrEmailInUse):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, mpesa.ErrUnavailable):
		writeError(w, http.StatusBadGateway, "payment provider unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
