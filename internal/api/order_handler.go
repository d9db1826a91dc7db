package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/order"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orders *order.Service
}

func NewOrderHandler(orders *order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type OrderLineRequestDTO struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type CreateOrderRequestDTO struct {
	Lines []OrderLineRequestDTO `json:"lines"`
}

type UpdateLineRequestDTO struct {
	Quantity int `json:"quantity"`
	Price    int `json:"price"`
}

type OrderLineResponseDTO struct {
	ID       int64 `json:"id"`
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
	Price    int   `json:"price"`
}

type OrderResponseDTO struct {
	ID        int64                  `json:"id"`
	MemberID  int64                  `json:"member_id"`
	Status    string                 `json:"status"`
	Total     int                    `json:"total"`
	Lines     []OrderLineResponseDTO `json:"lines"`
	CreatedAt string                 `json:"created_at"`
}

type HistoryEntryDTO struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func toOrderDTO(o *domain.Order) OrderResponseDTO {
	lines := make([]OrderLineResponseDTO, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponseDTO{
			ID:       l.ID,
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
	}
	return OrderResponseDTO{
		ID:        o.ID,
		MemberID:  o.MemberID,
		Status:    o.Status.String(),
		Total:     o.Total,
		Lines:     lines,
		CreatedAt: o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	memberID := memberIDFromContext(r.Context())

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	lines := make([]order.LineRequest, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, order.LineRequest{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	created, err := h.orders.CreateOrder(r.Context(), memberID, lines)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toOrderDTO(created))
}

// GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	memberID := memberIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.orders.FindOrdersByMember(r.Context(), memberID, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, toOrderDTO(o))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	o, err := h.orders.FindOrder(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(o))
}

// POST /api/v1/orders/{order_id}/advance
func (h *OrderHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	o, err := h.orders.AdvanceStatus(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(o))
}

// POST /api/v1/orders/{order_id}/ship
func (h *OrderHandler) MarkShipped(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	o, err := h.orders.MarkShipped(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(o))
}

// POST /api/v1/orders/{order_id}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	o, err := h.orders.CancelOrder(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(o))
}

// GET /api/v1/orders/{order_id}/history
func (h *OrderHandler) TrackHistory(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	history, err := h.orders.TrackHistory(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	dtos := make([]HistoryEntryDTO, 0, len(history))
	for _, entry := range history {
		dtos = append(dtos, HistoryEntryDTO{
			Status:    entry.Status.String(),
			Timestamp: entry.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	respondJSON(w, http.StatusOK, dtos)
}

// PUT /api/v1/orders/lines/{line_id}
func (h *OrderHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	lineID, err := strconv.ParseInt(chi.URLParam(r, "line_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_line_id", "line_id must be an integer")
		return
	}
	var req UpdateLineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	o, err := h.orders.UpdateLine(r.Context(), lineID, req.Quantity, req.Price)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(o))
}

// DELETE /api/v1/orders/{order_id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	if err := h.orders.DeleteOrder(r.Context(), orderID); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be an integer")
		return 0, false
	}
	return orderID, true
}
