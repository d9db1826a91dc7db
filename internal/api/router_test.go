package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Fangsangik/shopping/internal/bucket"
	"github.com/Fangsangik/shopping/internal/cache"
	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/inventory"
	"github.com/Fangsangik/shopping/internal/item"
	"github.com/Fangsangik/shopping/internal/notify"
	"github.com/Fangsangik/shopping/internal/order"
	"github.com/Fangsangik/shopping/internal/payment"
	"github.com/Fangsangik/shopping/internal/promotion"
	"github.com/Fangsangik/shopping/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StubGateway always authorizes and captures.
type StubGateway struct{}

func (StubGateway) Authorize(context.Context, *domain.Payment) bool { return true }
func (StubGateway) Capture(context.Context, *domain.Payment) error  { return nil }

type testApp struct {
	router http.Handler
	repo   *repository.MemoryRepository
	member *domain.Member
	item   *domain.Item
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	member := &domain.Member{UserID: "hong", Name: "Hong", CreatedAt: time.Now()}
	require.NoError(t, repo.SaveMember(ctx, member))
	catalogItem := &domain.Item{Name: "keyboard", Price: 50000, Stock: 10, Status: domain.ItemStatusAvailable}
	require.NoError(t, repo.SaveItem(ctx, catalogItem))

	ledger := inventory.NewLedger(repo, notify.Noop{})
	payments := payment.NewCoordinator(repo, StubGateway{})
	router := NewRouter(Services{
		Repo:       repo,
		Items:      item.NewService(repo, cache.Noop{}),
		Orders:     order.NewService(repo, ledger, payments),
		Payments:   payments,
		Promotions: promotion.NewEngine(repo, cache.Noop{}),
		Buckets:    bucket.NewService(repo),
		Ledger:     ledger,
	}, 30*time.Second)

	return &testApp{router: router, repo: repo, member: member, item: catalogItem}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, asMember bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	request := httptest.NewRequest(method, path, &buf)
	if asMember {
		request.Header.Set("X-Member-ID", fmt.Sprint(a.member.ID))
	}
	recorder := httptest.NewRecorder()
	a.router.ServeHTTP(recorder, request)
	return recorder
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	recorder := app.do(t, "GET", "/health", nil, false)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGetItem(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(t, "GET", fmt.Sprintf("/api/v1/items/%d", app.item.ID), nil, false)
	require.Equal(t, http.StatusOK, recorder.Code)

	var dto ItemResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&dto))
	assert.Equal(t, "keyboard", dto.Name)
	assert.Equal(t, 50000, dto.Price)
}

func TestGetItem_NotFound(t *testing.T) {
	app := newTestApp(t)
	recorder := app.do(t, "GET", "/api/v1/items/999", nil, false)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCreateItem_DuplicateConflicts(t *testing.T) {
	app := newTestApp(t)

	body := CreateItemRequestDTO{Name: "mouse", Price: 20000, Stock: 5}
	recorder := app.do(t, "POST", "/api/v1/items/", body, false)
	assert.Equal(t, http.StatusCreated, recorder.Code)

	recorder = app.do(t, "POST", "/api/v1/items/", body, false)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestCreateOrder_EndToEnd(t *testing.T) {
	app := newTestApp(t)

	body := CreateOrderRequestDTO{Lines: []OrderLineRequestDTO{{ItemID: app.item.ID, Quantity: 2}}}
	recorder := app.do(t, "POST", "/api/v1/orders/", body, true)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var dto OrderResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&dto))
	assert.Equal(t, "ORDERED", dto.Status)
	assert.Equal(t, 100000, dto.Total)
	require.Len(t, dto.Lines, 1)

	// Stock reserved.
	stored, err := app.repo.FindItem(context.Background(), app.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Stock)

	// Lifecycle over HTTP: ship, deliver, history.
	recorder = app.do(t, "POST", fmt.Sprintf("/api/v1/orders/%d/ship", dto.ID), nil, true)
	assert.Equal(t, http.StatusOK, recorder.Code)
	recorder = app.do(t, "POST", fmt.Sprintf("/api/v1/orders/%d/advance", dto.ID), nil, true)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = app.do(t, "GET", fmt.Sprintf("/api/v1/orders/%d/history", dto.ID), nil, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	var history []HistoryEntryDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&history))
	assert.Len(t, history, 3)
}

func TestCreateOrder_Unauthorized(t *testing.T) {
	app := newTestApp(t)
	body := CreateOrderRequestDTO{Lines: []OrderLineRequestDTO{{ItemID: app.item.ID, Quantity: 1}}}
	recorder := app.do(t, "POST", "/api/v1/orders/", body, false)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCreateOrder_OutOfStock(t *testing.T) {
	app := newTestApp(t)
	body := CreateOrderRequestDTO{Lines: []OrderLineRequestDTO{{ItemID: app.item.ID, Quantity: 50}}}
	recorder := app.do(t, "POST", "/api/v1/orders/", body, true)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCancelOrder_OverHTTP(t *testing.T) {
	app := newTestApp(t)

	body := CreateOrderRequestDTO{Lines: []OrderLineRequestDTO{{ItemID: app.item.ID, Quantity: 3}}}
	recorder := app.do(t, "POST", "/api/v1/orders/", body, true)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var dto OrderResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&dto))

	recorder = app.do(t, "POST", fmt.Sprintf("/api/v1/orders/%d/cancel", dto.ID), nil, true)
	require.Equal(t, http.StatusOK, recorder.Code)

	stored, err := app.repo.FindItem(context.Background(), app.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Stock)
}

func TestBucketFlow(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(t, "POST", "/api/v1/bucket/items", AddBucketItemRequestDTO{ItemID: app.item.ID, Quantity: 2}, true)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var line BucketLineResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&line))
	assert.Equal(t, 100000, line.ItemTotal)

	recorder = app.do(t, "PUT", fmt.Sprintf("/api/v1/bucket/lines/%d", line.ID), UpdateBucketQuantityRequestDTO{Quantity: 4}, true)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = app.do(t, "POST", "/api/v1/bucket/validate", nil, true)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = app.do(t, "DELETE", fmt.Sprintf("/api/v1/bucket/lines/%d", line.ID), nil, true)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestPromotionFlow(t *testing.T) {
	app := newTestApp(t)

	start := time.Now().Add(-time.Hour).Format(time.RFC3339)
	end := time.Now().Add(time.Hour).Format(time.RFC3339)
	recorder := app.do(t, "POST", "/api/v1/promotions/", CreatePromotionRequestDTO{
		ItemID: app.item.ID, DiscountRate: 20, StartDate: start, EndDate: end,
	}, false)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var promo PromotionResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&promo))
	require.Len(t, promo.CouponCode, 8)

	// Overlapping window conflicts.
	recorder = app.do(t, "POST", "/api/v1/promotions/", CreatePromotionRequestDTO{
		ItemID: app.item.ID, DiscountRate: 10, StartDate: start, EndDate: end,
	}, false)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	// Wrong coupon rejected, right coupon reprices.
	recorder = app.do(t, "POST", fmt.Sprintf("/api/v1/items/%d/apply-promotion", app.item.ID),
		ApplyPromotionRequestDTO{CouponCode: "WRONG123"}, false)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = app.do(t, "POST", fmt.Sprintf("/api/v1/items/%d/apply-promotion", app.item.ID),
		ApplyPromotionRequestDTO{CouponCode: promo.CouponCode}, false)
	require.Equal(t, http.StatusOK, recorder.Code)
	var updated ItemResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&updated))
	assert.Equal(t, 40000, updated.Price)
}

func TestPaymentFlow(t *testing.T) {
	app := newTestApp(t)

	body := CreateOrderRequestDTO{Lines: []OrderLineRequestDTO{{ItemID: app.item.ID, Quantity: 1}}}
	recorder := app.do(t, "POST", "/api/v1/orders/", body, true)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = app.do(t, "GET", "/api/v1/payments/", nil, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	var payments []PaymentResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&payments))
	require.Len(t, payments, 1)
	assert.Equal(t, "COMPLETED", payments[0].Status)

	recorder = app.do(t, "POST", fmt.Sprintf("/api/v1/payments/%d/refund", payments[0].ID), nil, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	var refunded PaymentResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&refunded))
	assert.Equal(t, "REFUNDED", refunded.Status)
}

func TestLowStockSweep(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	low := &domain.Item{Name: "low", Price: 100, Stock: 1, Status: domain.ItemStatusAvailable}
	require.NoError(t, app.repo.SaveItem(ctx, low))

	recorder := app.do(t, "POST", "/api/v1/inventory/low-stock-sweep?threshold=2", nil, false)
	require.Equal(t, http.StatusOK, recorder.Code)
	var flagged []ItemResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&flagged))
	require.Len(t, flagged, 1)
	assert.Equal(t, "OUT_OF_STOCK", flagged[0].Status)
}

func TestRegisterMember(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(t, "POST", "/api/v1/members", RegisterMemberRequestDTO{UserID: "kim", Name: "Kim"}, false)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var dto MemberResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&dto))
	assert.NotZero(t, dto.ID)

	recorder = app.do(t, "POST", "/api/v1/members", RegisterMemberRequestDTO{}, false)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
