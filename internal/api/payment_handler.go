package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/payment"
	"github.com/go-chi/chi/v5"
)

type PaymentHandler struct {
	payments *payment.Coordinator
}

func NewPaymentHandler(payments *payment.Coordinator) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type ProcessPaymentRequestDTO struct {
	OrderID int64   `json:"order_id"`
	Amount  float64 `json:"amount"`
}

type PaymentResponseDTO struct {
	ID       int64   `json:"id"`
	MemberID int64   `json:"member_id"`
	OrderID  int64   `json:"order_id"`
	Amount   float64 `json:"amount"`
	Status   string  `json:"status"`
	PaidAt   string  `json:"paid_at,omitempty"`
}

func toPaymentDTO(p *domain.Payment) PaymentResponseDTO {
	dto := PaymentResponseDTO{
		ID:       p.ID,
		MemberID: p.MemberID,
		OrderID:  p.OrderID,
		Amount:   p.Amount,
		Status:   string(p.Status),
	}
	if !p.PaidAt.IsZero() {
		dto.PaidAt = p.PaidAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return dto
}

// POST /api/v1/payments
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	memberID := memberIDFromContext(r.Context())

	var req ProcessPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	p, err := h.payments.ProcessPayment(r.Context(), memberID, req.OrderID, req.Amount)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPaymentDTO(p))
}

// GET /api/v1/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	memberID := memberIDFromContext(r.Context())
	payments, err := h.payments.PaymentsByMember(r.Context(), memberID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	dtos := make([]PaymentResponseDTO, 0, len(payments))
	for _, p := range payments {
		dtos = append(dtos, toPaymentDTO(p))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/payments/{payment_id}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	memberID := memberIDFromContext(r.Context())
	paymentID, ok := paymentIDParam(w, r)
	if !ok {
		return
	}
	p, err := h.payments.FindPayment(r.Context(), memberID, paymentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPaymentDTO(p))
}

// POST /api/v1/payments/{payment_id}/cancel
func (h *PaymentHandler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	memberID := memberIDFromContext(r.Context())
	paymentID, ok := paymentIDParam(w, r)
	if !ok {
		return
	}
	p, err := h.payments.CancelPayment(r.Context(), memberID, paymentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPaymentDTO(p))
}

// POST /api/v1/payments/{payment_id}/refund
func (h *PaymentHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	memberID := memberIDFromContext(r.Context())
	paymentID, ok := paymentIDParam(w, r)
	if !ok {
		return
	}
	p, err := h.payments.RefundPayment(r.Context(), memberID, paymentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPaymentDTO(p))
}

func paymentIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	paymentID, err := strconv.ParseInt(chi.URLParam(r, "payment_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payment_id", "payment_id must be an integer")
		return 0, false
	}
	return paymentID, true
}
