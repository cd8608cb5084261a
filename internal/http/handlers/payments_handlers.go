package handlers

import (
	"encoding/base64"
	"net/http"

	"loungepos/internal/service"
)

// PaymentsHandlers serves settlement, split-plan and M-Pesa endpoints.
type PaymentsHandlers struct {
	payments *service.PaymentsService
}

// NewPaymentsHandlers builds PaymentsHandlers.
func NewPaymentsHandlers(payments *service.PaymentsService) *PaymentsHandlers {
	return &PaymentsHandlers{payments: payments}
}

// Settle handles POST /payments/settle.
func (h *PaymentsHandlers) Settle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  int64   `json:"session_id"`
		Method     string  `json:"method"`
		Amount     float64 `json:"amount"`
		CustomerID *int64  `json:"customer_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	payment, err := h.payments.SettleFull(r.Context(), req.SessionID, req.Method, req.Amount, req.CustomerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

// CreateSplit handles POST /payments/split.
func (h *PaymentsHandlers) CreateSplit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TotalAmount float64 `json:"total_amount"`
		Parts       int     `json:"parts"`
		SessionID   *int64  `json:"session_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.payments.CreateSplit(req.TotalAmount, req.Parts, req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// GetSplit handles GET /payments/split?plan_id=.
func (h *PaymentsHandlers) GetSplit(w http.ResponseWriter, r *http.Request) {
	planID := r.URL.Query().Get("plan_id")
	if planID == "" {
		writeError(w, http.StatusBadRequest, "plan_id is required")
		return
	}

	plan, err := h.payments.GetSplit(planID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// AddSplitPart handles POST /payments/split/parts.
func (h *PaymentsHandlers) AddSplitPart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlanID string `json:"plan_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.payments.AddSplitPart(req.PlanID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// RemoveSplitPart handles DELETE /payments/split/parts.
func (h *PaymentsHandlers) RemoveSplitPart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlanID string `json:"plan_id"`
		Index  int    `json:"index"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.payments.RemoveSplitPart(req.PlanID, req.Index)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// PaySplitPart handles POST /payments/split/pay.
func (h *PaymentsHandlers) PaySplitPart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlanID     string `json:"plan_id"`
		Index      int    `json:"index"`
		Method     string `json:"method"`
		CustomerID *int64 `json:"customer_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var settled bool
	payment, err := h.payments.PaySplitPart(r.Context(), req.PlanID, req.Index, req.Method, req.CustomerID, func(*service.SplitPlan) {
		settled = true
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"payment":      payment,
		"plan_settled": settled,
	})
}

// InitiateMpesa handles POST /payments/mpesa/initiate. The handler blocks
// through the bounded confirmation poll and reports the final status. With a
// session_id the confirmed outcome settles or fails the session's pending
// payment.
func (h *PaymentsHandlers) InitiateMpesa(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone      string  `json:"phone"`
		Amount     float64 `json:"amount"`
		SessionID  *int64  `json:"session_id"`
		CustomerID *int64  `json:"customer_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.SessionID != nil {
		checkout, status, payment, err := h.payments.CollectMpesa(r.Context(), *req.SessionID, req.Phone, req.Amount, req.CustomerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"checkout_id": checkout.CheckoutID,
			"status":      status,
			"payment":     payment,
		})
		return
	}

	checkout, err := h.payments.InitiateMpesa(r.Context(), req.Phone, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status, err := h.payments.ConfirmMpesa(r.Context(), checkout.CheckoutID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"checkout_id": checkout.CheckoutID,
		"status":      status,
	})
}

// MpesaQR handles POST /payments/mpesa/qr.
func (h *PaymentsHandlers) MpesaQR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount    float64 `json:"amount"`
		Reference string  `json:"reference"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	qr, err := h.payments.GenerateMpesaQR(r.Context(), req.Amount, req.Reference)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"request_id": qr.RequestID,
		"image_png":  base64.StdEncoding.EncodeToString(qr.Image),
	})
}
