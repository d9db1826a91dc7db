package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Fangsangik/shopping/internal/promotion"
	"github.com/go-chi/chi/v5"
)

type PromotionHandler struct {
	promotions *promotion.Engine
}

func NewPromotionHandler(promotions *promotion.Engine) *PromotionHandler {
	return &PromotionHandler{promotions: promotions}
}

type CreatePromotionRequestDTO struct {
	ItemID       int64  `json:"item_id"`
	DiscountRate int    `json:"discount_rate"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

type ApplyPromotionRequestDTO struct {
	CouponCode string `json:"coupon_code"`
}

type PromotionResponseDTO struct {
	ID           int64  `json:"id"`
	ItemID       int64  `json:"item_id"`
	DiscountRate int    `json:"discount_rate"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	CouponCode   string `json:"coupon_code"`
}

// POST /api/v1/promotions
func (h *PromotionHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req CreatePromotionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_start_date", "start_date must be RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_end_date", "end_date must be RFC3339")
		return
	}

	created, err := h.promotions.CreatePromotion(r.Context(), req.ItemID, req.DiscountRate, start, end)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, PromotionResponseDTO{
		ID:           created.ID,
		ItemID:       created.ItemID,
		DiscountRate: created.DiscountRate,
		StartDate:    created.StartDate.Format(time.RFC3339),
		EndDate:      created.EndDate.Format(time.RFC3339),
		CouponCode:   created.CouponCode,
	})
}

// POST /api/v1/items/{item_id}/apply-promotion
func (h *PromotionHandler) ApplyPromotion(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be an integer")
		return
	}
	var req ApplyPromotionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	updated, err := h.promotions.ApplyPromotion(r.Context(), itemID, req.CouponCode)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toItemDTO(updated))
}

// GET /api/v1/promotions/active-items
func (h *PromotionHandler) ListActiveItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.promotions.ItemsWithActivePromotions(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	dtos := make([]ItemResponseDTO, 0, len(items))
	for _, i := range items {
		dtos = append(dtos, toItemDTO(i))
	}
	respondJSON(w, http.StatusOK, dtos)
}
