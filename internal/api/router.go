package api

import (
	"net/http"
	"time"

	"github.com/Fangsangik/shopping/internal/bucket"
	"github.com/Fangsangik/shopping/internal/inventory"
	"github.com/Fangsangik/shopping/internal/item"
	"github.com/Fangsangik/shopping/internal/order"
	"github.com/Fangsangik/shopping/internal/payment"
	"github.com/Fangsangik/shopping/internal/promotion"
	"github.com/Fangsangik/shopping/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Services bundles everything the router serves.
type Services struct {
	Repo       repository.Repository
	Items      *item.Service
	Orders     *order.Service
	Payments   *payment.Coordinator
	Promotions *promotion.Engine
	Buckets    *bucket.Service
	Ledger     *inventory.Ledger
}

// NewRouter builds the full HTTP surface. The returned handler is wrapped
// with otelhttp so every request carries a span.
func NewRouter(s Services, requestTimeout time.Duration) http.Handler {
	itemHandler := NewItemHandler(s.Items, s.Promotions)
	orderHandler := NewOrderHandler(s.Orders)
	paymentHandler := NewPaymentHandler(s.Payments)
	promotionHandler := NewPromotionHandler(s.Promotions)
	bucketHandler := NewBucketHandler(s.Buckets)
	memberHandler := NewMemberHandler(s.Repo)
	inventoryHandler := NewInventoryHandler(s.Ledger)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/members", memberHandler.Register)
		r.Get("/members/{member_id}", memberHandler.GetMember)

		r.Route("/items", func(r chi.Router) {
			r.Post("/", itemHandler.CreateItem)
			r.Get("/{item_id}", itemHandler.GetItem)
			r.Get("/{item_id}/display", itemHandler.GetItemWithPromotion)
			r.Post("/{item_id}/apply-promotion", promotionHandler.ApplyPromotion)
		})

		r.Route("/promotions", func(r chi.Router) {
			r.Post("/", promotionHandler.CreatePromotion)
			r.Get("/active-items", promotionHandler.ListActiveItems)
		})

		r.Post("/inventory/low-stock-sweep", inventoryHandler.LowStockSweep)

		// Member-scoped routes need the caller resolved first.
		r.Group(func(r chi.Router) {
			r.Use(MemberAuthMiddleware)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", orderHandler.CreateOrder)
				r.Get("/", orderHandler.ListOrders)
				r.Get("/{order_id}", orderHandler.GetOrder)
				r.Delete("/{order_id}", orderHandler.DeleteOrder)
				r.Post("/{order_id}/advance", orderHandler.AdvanceStatus)
				r.Post("/{order_id}/ship", orderHandler.MarkShipped)
				r.Post("/{order_id}/cancel", orderHandler.CancelOrder)
				r.Get("/{order_id}/history", orderHandler.TrackHistory)
				r.Put("/lines/{line_id}", orderHandler.UpdateLine)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", paymentHandler.ProcessPayment)
				r.Get("/", paymentHandler.ListPayments)
				r.Get("/{payment_id}", paymentHandler.GetPayment)
				r.Post("/{payment_id}/cancel", paymentHandler.CancelPayment)
				r.Post("/{payment_id}/refund", paymentHandler.RefundPayment)
			})

			r.Route("/bucket", func(r chi.Router) {
				r.Get("/", bucketHandler.ListLines)
				r.Post("/items", bucketHandler.AddItem)
				r.Put("/lines/{line_id}", bucketHandler.UpdateQuantity)
				r.Delete("/lines/{line_id}", bucketHandler.RemoveLine)
				r.Post("/validate", bucketHandler.Validate)
			})
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
