package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Fangsangik/shopping/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: message,
	})
}

// respondDomainError maps a domain sentinel to an HTTP status.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrOrderLineNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrPromotionNotFound),
		errors.Is(err, domain.ErrBucketNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrItemExists),
		errors.Is(err, domain.ErrPromotionExists):
		respondError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDiscountRate),
		errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidCoupon),
		errors.Is(err, domain.ErrNoActivePromotion),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrItemPriceChanged),
		errors.Is(err, domain.ErrItemNotSale),
		errors.Is(err, domain.ErrPaymentCannotBeCanceled),
		errors.Is(err, domain.ErrPaymentRefundNotAllowed),
		errors.Is(err, domain.ErrOrderNotDeletable),
		errors.Is(err, domain.ErrIllegalTransition):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
