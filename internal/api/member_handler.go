package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/inventory"
	"github.com/Fangsangik/shopping/internal/repository"
	"github.com/go-chi/chi/v5"
)

type MemberHandler struct {
	repo repository.Repository
}

func NewMemberHandler(repo repository.Repository) *MemberHandler {
	return &MemberHandler{repo: repo}
}

type RegisterMemberRequestDTO struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type MemberResponseDTO struct {
	ID     int64  `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// POST /api/v1/members
func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterMemberRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.UserID == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "user_id and name are required")
		return
	}
	member := &domain.Member{
		UserID:    req.UserID,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}
	if err := h.repo.SaveMember(r.Context(), member); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, MemberResponseDTO{
		ID:     member.ID,
		UserID: member.UserID,
		Name:   member.Name,
	})
}

// GET /api/v1/members/{member_id}
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseInt(chi.URLParam(r, "member_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_member_id", "member_id must be an integer")
		return
	}
	member, err := h.repo.FindMember(r.Context(), memberID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, MemberResponseDTO{
		ID:     member.ID,
		UserID: member.UserID,
		Name:   member.Name,
	})
}

type InventoryHandler struct {
	ledger *inventory.Ledger
}

func NewInventoryHandler(ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// POST /api/v1/inventory/low-stock-sweep?threshold=N
// Flags items at or below the threshold as out of stock and publishes a
// stock alert for each.
func (h *InventoryHandler) LowStockSweep(w http.ResponseWriter, r *http.Request) {
	threshold, err := strconv.Atoi(r.URL.Query().Get("threshold"))
	if err != nil || threshold < 0 {
		respondError(w, http.StatusBadRequest, "invalid_threshold", "threshold must be a non-negative integer")
		return
	}
	flagged, err := h.ledger.MarkLowStock(r.Context(), threshold)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	dtos := make([]ItemResponseDTO, 0, len(flagged))
	for _, i := range flagged {
		dtos = append(dtos, toItemDTO(i))
	}
	respondJSON(w, http.StatusOK, dtos)
}
