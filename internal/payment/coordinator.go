package payment

import (
	"context"
	"log"
	"time"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/repository"
)

// Coordinator owns the payment lifecycle. A record moves PENDING ->
// AUTHORIZED -> COMPLETED on the happy path; any gateway refusal lands it
// on FAILED. Gateway failure is a recorded outcome, not an error: the
// order that triggered the payment still commits.
type Coordinator struct {
	repo    repository.Repository
	gateway Gateway
}

func NewCoordinator(repo repository.Repository, gateway Gateway) *Coordinator {
	return &Coordinator{repo: repo, gateway: gateway}
}

// ProcessPayment runs the full cycle in its own unit of work.
func (c *Coordinator) ProcessPayment(ctx context.Context, memberID, orderID int64, amount float64) (*domain.Payment, error) {
	var payment *domain.Payment
	err := c.repo.Within(ctx, func(tx repository.Store) error {
		p, err := c.ProcessPaymentIn(ctx, tx, memberID, orderID, amount)
		if err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// ProcessPaymentIn is the transactional body of ProcessPayment, exposed so
// order creation can settle inside its own unit of work.
func (c *Coordinator) ProcessPaymentIn(ctx context.Context, tx repository.Store, memberID, orderID int64, amount float64) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if _, err := tx.FindMember(ctx, memberID); err != nil {
		return nil, err
	}
	order, err := tx.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.MemberID != memberID {
		return nil, domain.ErrForbidden
	}

	payment := &domain.Payment{
		MemberID: memberID,
		OrderID:  orderID,
		Amount:   amount,
		Status:   domain.PaymentStatusPending,
	}
	if err := tx.SavePayment(ctx, payment); err != nil {
		return nil, err
	}

	if !c.gateway.Authorize(ctx, payment) {
		log.Printf("payment %d for order %d not authorized", payment.ID, orderID)
		payment.Status = domain.PaymentStatusFailed
		if err := tx.SavePayment(ctx, payment); err != nil {
			return nil, err
		}
		return payment, nil
	}
	payment.Status = domain.PaymentStatusAuthorized
	if err := tx.SavePayment(ctx, payment); err != nil {
		return nil, err
	}

	if err := c.gateway.Capture(ctx, payment); err != nil {
		log.Printf("payment %d capture failed: %v", payment.ID, err)
		payment.Status = domain.PaymentStatusFailed
		if err := tx.SavePayment(ctx, payment); err != nil {
			return nil, err
		}
		return payment, nil
	}
	payment.Status = domain.PaymentStatusCompleted
	payment.PaidAt = time.Now()
	if err := tx.SavePayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// CancelPayment voids a payment that has not completed. Completed payments
// must go through RefundPayment instead; both cases answer with
// ErrPaymentCannotBeCanceled so callers cannot probe settlement state.
func (c *Coordinator) CancelPayment(ctx context.Context, memberID, paymentID int64) (*domain.Payment, error) {
	var payment *domain.Payment
	err := c.repo.Within(ctx, func(tx repository.Store) error {
		p, err := tx.FindPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		if p.MemberID != memberID {
			return domain.ErrForbidden
		}
		if p.Status == domain.PaymentStatusCompleted {
			return domain.ErrPaymentCannotBeCanceled
		}
		if p.Status != domain.PaymentStatusPending && p.Status != domain.PaymentStatusAuthorized {
			return domain.ErrPaymentCannotBeCanceled
		}
		p.Status = domain.PaymentStatusCanceled
		if err := tx.SavePayment(ctx, p); err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// RefundPayment reverses a completed payment.
func (c *Coordinator) RefundPayment(ctx context.Context, memberID, paymentID int64) (*domain.Payment, error) {
	var payment *domain.Payment
	err := c.repo.Within(ctx, func(tx repository.Store) error {
		p, err := tx.FindPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		if p.MemberID != memberID {
			return domain.ErrForbidden
		}
		if p.Status != domain.PaymentStatusCompleted {
			return domain.ErrPaymentRefundNotAllowed
		}
		p.Status = domain.PaymentStatusRefunded
		if err := tx.SavePayment(ctx, p); err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (c *Coordinator) FindPayment(ctx context.Context, memberID, paymentID int64) (*domain.Payment, error) {
	p, err := c.repo.FindPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.MemberID != memberID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (c *Coordinator) PaymentsByMember(ctx context.Context, memberID int64) ([]*domain.Payment, error) {
	return c.repo.PaymentsByMember(ctx, memberID)
}
