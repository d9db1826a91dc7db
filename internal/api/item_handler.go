package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/item"
	"github.com/Fangsangik/shopping/internal/promotion"
	"github.com/go-chi/chi/v5"
)

type ItemHandler struct {
	items      *item.Service
	promotions *promotion.Engine
}

func NewItemHandler(items *item.Service, promotions *promotion.Engine) *ItemHandler {
	return &ItemHandler{items: items, promotions: promotions}
}

type CreateItemRequestDTO struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
	Stock int    `json:"stock"`
}

type ItemResponseDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Price  int    `json:"price"`
	Stock  int    `json:"stock"`
	Status string `json:"status"`
}

func toItemDTO(i *domain.Item) ItemResponseDTO {
	return ItemResponseDTO{
		ID:     i.ID,
		Name:   i.Name,
		Price:  i.Price,
		Stock:  i.Stock,
		Status: string(i.Status),
	}
}

// POST /api/v1/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	created, err := h.items.CreateItem(r.Context(), req.Name, req.Price, req.Stock)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toItemDTO(created))
}

// GET /api/v1/items/{item_id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be an integer")
		return
	}
	found, err := h.items.FindByID(r.Context(), itemID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toItemDTO(found))
}

// GET /api/v1/items/{item_id}/display
// Same item but with any active discount applied to the shown price.
func (h *ItemHandler) GetItemWithPromotion(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be an integer")
		return
	}
	found, err := h.promotions.ItemWithPromotion(r.Context(), itemID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toItemDTO(found))
}
