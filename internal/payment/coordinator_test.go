package payment

import (
	"context"
	"testing"
	"time"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StubGateway answers deterministically.
type StubGateway struct {
	AuthorizeResult bool
	CaptureErr      error
}

func (s StubGateway) Authorize(context.Context, *domain.Payment) bool {
	return s.AuthorizeResult
}

func (s StubGateway) Capture(context.Context, *domain.Payment) error {
	return s.CaptureErr
}

func setup(t *testing.T, gateway Gateway) (*Coordinator, *repository.MemoryRepository, *domain.Member, *domain.Order) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	member := &domain.Member{UserID: "hong", Name: "Hong", CreatedAt: time.Now()}
	require.NoError(t, repo.SaveMember(ctx, member))
	order := &domain.Order{MemberID: member.ID, Status: domain.OrderStatusOrdered, CreatedAt: time.Now()}
	require.NoError(t, repo.SaveOrder(ctx, order))

	return NewCoordinator(repo, gateway), repo, member, order
}

func TestProcessPayment_Completed(t *testing.T) {
	coordinator, repo, member, order := setup(t, StubGateway{AuthorizeResult: true})
	ctx := context.Background()

	p, err := coordinator.ProcessPayment(ctx, member.ID, order.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, p.Status)
	assert.False(t, p.PaidAt.IsZero())

	stored, err := repo.FindPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, stored.Status)
}

func TestProcessPayment_AuthorizationRefused(t *testing.T) {
	coordinator, repo, member, order := setup(t, StubGateway{AuthorizeResult: false})
	ctx := context.Background()

	// A refused gateway is an outcome, not an error.
	p, err := coordinator.ProcessPayment(ctx, member.ID, order.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, p.Status)

	stored, err := repo.FindPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, stored.Status)
}

func TestProcessPayment_CaptureFails(t *testing.T) {
	coordinator, _, member, order := setup(t, StubGateway{AuthorizeResult: true, CaptureErr: ErrGatewayDeclined})
	ctx := context.Background()

	p, err := coordinator.ProcessPayment(ctx, member.ID, order.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, p.Status)
	assert.True(t, p.PaidAt.IsZero())
}

func TestProcessPayment_InvalidAmount(t *testing.T) {
	coordinator, repo, member, order := setup(t, StubGateway{AuthorizeResult: true})
	ctx := context.Background()

	_, err := coordinator.ProcessPayment(ctx, member.ID, order.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = coordinator.ProcessPayment(ctx, member.ID, order.ID, -100)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	// No record is written for a rejected amount.
	payments, err := repo.PaymentsByMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 0)
}

func TestProcessPayment_UnknownMemberOrOrder(t *testing.T) {
	coordinator, _, member, order := setup(t, StubGateway{AuthorizeResult: true})
	ctx := context.Background()

	_, err := coordinator.ProcessPayment(ctx, 999, order.ID, 5000)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	_, err = coordinator.ProcessPayment(ctx, member.ID, 999, 5000)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestProcessPayment_OrderOwnedByOther(t *testing.T) {
	coordinator, repo, _, order := setup(t, StubGateway{AuthorizeResult: true})
	ctx := context.Background()

	other := &domain.Member{UserID: "kim", Name: "Kim", CreatedAt: time.Now()}
	require.NoError(t, repo.SaveMember(ctx, other))

	_, err := coordinator.ProcessPayment(ctx, other.ID, order.ID, 5000)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCancelPayment(t *testing.T) {
	coordinator, _, member, order := setup(t, StubGateway{AuthorizeResult: false})
	ctx := context.Background()

	p, err := coordinator.ProcessPayment(ctx, member.ID, order.ID, 5000)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusFailed, p.Status)

	// FAILED payments cannot be canceled.
	_, err = coordinator.CancelPayment(ctx, member.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrPaymentCannotBeCanceled)
}

func TestCancelPayment_PendingSucceeds(t *testing.T) {
	coordinator, repo, member, order := setup(t, StubGateway{AuthorizeResult: true})
	ctx := context.Background()

	pending := &domain.Payment{MemberID: member.ID, OrderID: order.ID, Amount: 5000, Status: domain.PaymentStatusPending}
	require.NoError(t, repo.SavePayment(ctx, pending))

	canceled, err := coordinator.CancelPayment(ctx, member.ID, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCanceled, canceled.Status)
}

func TestCancelPayment_CompletedRejected(t *testing.T) {
	coordinator, _, member, order := setup(t, StubGateway{AuthorizeResult: true})
	ctx := context.Background()

	p, err := coordinator.ProcessPayment(ctx, member.ID, order.ID, 5000)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusCompleted, p.Status)

	_, err = coordinator.CancelPayment(ctx, member.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrPaymentCannotBeCanceled)
}

func TestCancelPayment_WrongOwner(t *testing.T) {
	coordinator, repo, member, order := setup(t, StubGateway{AuthorizeResult: true})
	ctx := context.Background()

	pending := &domain.Payment{MemberID: member.ID, OrderID: order.ID, Amount: 5000, Status: domain.PaymentStatusPending}
	require.NoError(t, repo.SavePayment(ctx, pending))

	other := &domain.Member{UserID: "kim", Name: "Kim", CreatedAt: time.Now()}
	require.NoError(t, repo.SaveMember(ctx, other))

	_, err := coordinator.CancelPayment(ctx, other.ID, pending.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRefundPayment(t *testing.T) {
	coordinator, _, member, order := setup(t, StubGateway{AuthorizeResult: true})
	ctx := context.Background()

	p, err := coordinator.ProcessPayment(ctx, member.ID, order.ID, 5000)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusCompleted, p.Status)

	refunded, err := coordinator.RefundPayment(ctx, member.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusRefunded, refunded.Status)

	// Only COMPLETED payments refund; a second attempt fails.
	_, err = coordinator.RefundPayment(ctx, member.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrPaymentRefundNotAllowed)
}

func TestFindPayment_EnforcesOwnership(t *testing.T) {
	coordinator, repo, member, order := setup(t, StubGateway{AuthorizeResult: true})
	ctx := context.Background()

	p, err := coordinator.ProcessPayment(ctx, member.ID, order.ID, 5000)
	require.NoError(t, err)

	found, err := coordinator.FindPayment(ctx, member.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	other := &domain.Member{UserID: "kim", Name: "Kim", CreatedAt: time.Now()}
	require.NoError(t, repo.SaveMember(ctx, other))
	_, err = coordinator.FindPayment(ctx, other.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
