package payment

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/sony/gobreaker/v2"
)

var ErrGatewayDeclined = errors.New("payment gateway declined capture")

// Gateway is the external settlement collaborator. Authorize reports
// whether the payment may proceed; Capture moves the money. Failures from
// either are absorbed by the coordinator into a FAILED payment record.
type Gateway interface {
	Authorize(ctx context.Context, payment *domain.Payment) bool
	Capture(ctx context.Context, payment *domain.Payment) error
}

// RandomGateway simulates a settlement provider: roughly half of all
// authorizations and captures succeed. Injected as the default so the
// production path never depends on hardcoded randomness.
type RandomGateway struct{}

func (RandomGateway) Authorize(context.Context, *domain.Payment) bool {
	return rand.Float64() > 0.5
}

func (RandomGateway) Capture(context.Context, *domain.Payment) error {
	if rand.Float64() > 0.5 {
		return nil
	}
	return ErrGatewayDeclined
}

// BreakerGateway wraps another gateway in a circuit breaker so a flapping
// provider trips open instead of holding the payment unit of work on every
// call. Open-circuit results count as authorization refusal / capture
// failure, which the coordinator absorbs as usual.
type BreakerGateway struct {
	inner Gateway
	cb    *gobreaker.CircuitBreaker[bool]
}

func NewBreakerGateway(inner Gateway) *BreakerGateway {
	settings := gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
	}
	return &BreakerGateway{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[bool](settings),
	}
}

func (g *BreakerGateway) Authorize(ctx context.Context, payment *domain.Payment) bool {
	authorized, err := g.cb.Execute(func() (bool, error) {
		return g.inner.Authorize(ctx, payment), nil
	})
	if err != nil {
		return false
	}
	return authorized
}

func (g *BreakerGateway) Capture(ctx context.Context, payment *domain.Payment) error {
	_, err := g.cb.Execute(func() (bool, error) {
		return true, g.inner.Capture(ctx, payment)
	})
	return err
}
