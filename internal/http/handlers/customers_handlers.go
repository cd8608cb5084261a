package handlers

import (
	"net/http"
	"strconv"

	"loungepos/internal/service"
)

// CustomersHandlers serves the customer roster endpoints.
type CustomersHandlers struct {
	customers *service.CustomersService
	sessions  *service.SessionsService
}

// NewCustomersHandlers builds CustomersHandlers.
func NewCustomersHandlers(customers *service.CustomersService, sessions *service.SessionsService) *CustomersHandlers {
	return &CustomersHandlers{customers: customers, sessions: sessions}
}

// List handles GET /customers. With ?id= it returns a single customer along
// with their session history.
func (h *CustomersHandlers) List(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		customer, err := h.customers.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		history, err := h.sessions.ByCustomer(r.Context(), id, 50)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"customer": customer,
			"sessions": history,
		})
		return
	}

	customers, err := h.customers.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"customers": customers})
}

// Create handles POST /customers.
func (h *CustomersHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.customers.Create(r.Context(), service.CustomerInput{
		Name: req.Name, Phone: req.Phone, Email: req.Email,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

// Update handles PUT /customers.
func (h *CustomersHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.customers.Update(r.Context(), req.ID, service.CustomerInput{
		Name: req.Name, Phone: req.Phone, Email: req.Email,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// Delete handles DELETE /customers.
func (h *CustomersHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int64 `json:"id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.customers.Delete(r.Context(), req.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
