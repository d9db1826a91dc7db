package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Fangsangik/shopping/internal/bucket"
	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/go-chi/chi/v5"
)

type BucketHandler struct {
	buckets *bucket.Service
}

func NewBucketHandler(buckets *bucket.Service) *BucketHandler {
	return &BucketHandler{buckets: buckets}
}

type AddBucketItemRequestDTO struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type UpdateBucketQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type BucketLineResponseDTO struct {
	ID        int64 `json:"id"`
	ItemID    int64 `json:"item_id"`
	Quantity  int   `json:"quantity"`
	ItemTotal int   `json:"item_total"`
	Selected  bool  `json:"selected"`
}

func toBucketLineDTO(l *domain.BucketLine) BucketLineResponseDTO {
	return BucketLineResponseDTO{
		ID:        l.ID,
		ItemID:    l.ItemID,
		Quantity:  l.Quantity,
		ItemTotal: l.ItemTotal,
		Selected:  l.Selected,
	}
}

// POST /api/v1/bucket/items
func (h *BucketHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	memberID := memberIDFromContext(r.Context())

	var req AddBucketItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	line, err := h.buckets.AddItem(r.Context(), memberID, req.ItemID, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBucketLineDTO(line))
}

// GET /api/v1/bucket
func (h *BucketHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	memberID := memberIDFromContext(r.Context())
	lines, err := h.buckets.LinesByMember(r.Context(), memberID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	dtos := make([]BucketLineResponseDTO, 0, len(lines))
	for _, l := range lines {
		dtos = append(dtos, toBucketLineDTO(l))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// PUT /api/v1/bucket/lines/{line_id}
func (h *BucketHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	memberID := memberIDFromContext(r.Context())
	lineID, ok := bucketLineIDParam(w, r)
	if !ok {
		return
	}
	var req UpdateBucketQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	line, err := h.buckets.UpdateQuantity(r.Context(), memberID, lineID, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBucketLineDTO(line))
}

// DELETE /api/v1/bucket/lines/{line_id}
func (h *BucketHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	memberID := memberIDFromContext(r.Context())
	lineID, ok := bucketLineIDParam(w, r)
	if !ok {
		return
	}
	if err := h.buckets.RemoveLine(r.Context(), memberID, lineID); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/bucket/validate
func (h *BucketHandler) Validate(w http.ResponseWriter, r *http.Request) {
	memberID := memberIDFromContext(r.Context())
	if err := h.buckets.ValidateBucket(r.Context(), memberID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func bucketLineIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	lineID, err := strconv.ParseInt(chi.URLParam(r, "line_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_line_id", "line_id must be an integer")
		return 0, false
	}
	return lineID, true
}
