package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/inventory"
	"github.com/Fangsangik/shopping/internal/payment"
	"github.com/Fangsangik/shopping/internal/repository"
)

// LineRequest is one requested order line.
type LineRequest struct {
	ItemID   int64
	Quantity int
}

// Service drives the order lifecycle. Creation reserves stock, snapshots
// prices, settles payment and clears the bucket inside one unit of work;
// a failure on any line rolls the whole order back.
type Service struct {
	repo     repository.Repository
	ledger   *inventory.Ledger
	payments *payment.Coordinator
}

func NewService(repo repository.Repository, ledger *inventory.Ledger, payments *payment.Coordinator) *Service {
	return &Service{repo: repo, ledger: ledger, payments: payments}
}

// CreateOrder places an order for the given lines. Stock is reserved per
// line; each line snapshots the item's unit price at order time. Payment
// runs inside the same transaction but a declined payment does not fail
// the order, it is recorded on the payment itself.
func (s *Service) CreateOrder(ctx context.Context, memberID int64, lines []LineRequest) (*domain.Order, error) {
	if memberID == 0 || len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range lines {
		if l.ItemID == 0 || l.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	var order *domain.Order
	err := s.repo.Within(ctx, func(tx repository.Store) error {
		if _, err := tx.FindMember(ctx, memberID); err != nil {
			return err
		}

		o := &domain.Order{
			MemberID:  memberID,
			Status:    domain.OrderStatusOrdered,
			CreatedAt: time.Now(),
		}
		for _, req := range lines {
			item, err := tx.FindItem(ctx, req.ItemID)
			if err != nil {
				return err
			}
			if err := s.ledger.Reserve(ctx, tx, req.ItemID, req.Quantity); err != nil {
				return fmt.Errorf("item %d: %w", req.ItemID, err)
			}
			o.Lines = append(o.Lines, domain.OrderLine{
				ItemID:   req.ItemID,
				Quantity: req.Quantity,
				Price:    item.Price,
			})
		}
		o.RecalculateTotal()
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}
		for i := range o.Lines {
			o.Lines[i].OrderID = o.ID
			if err := tx.SaveOrderLine(ctx, &o.Lines[i]); err != nil {
				return err
			}
		}
		if err := appendHistoryOnce(ctx, tx, o.ID, domain.OrderStatusOrdered); err != nil {
			return err
		}

		if _, err := s.payments.ProcessPaymentIn(ctx, tx, memberID, o.ID, float64(o.Total)); err != nil {
			return err
		}

		if err := s.clearOrderedBucketLines(ctx, tx, memberID, o.Lines); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// clearOrderedBucketLines drops the member's bucket lines for items that
// just became order lines.
func (s *Service) clearOrderedBucketLines(ctx context.Context, tx repository.Store, memberID int64, lines []domain.OrderLine) error {
	for _, line := range lines {
		bucketLine, err := tx.BucketLineByMemberAndItem(ctx, memberID, line.ItemID)
		if errors.Is(err, domain.ErrBucketNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := tx.DeleteBucketLine(ctx, bucketLine.ID); err != nil {
			return err
		}
	}
	return nil
}

// AdvanceStatus moves an order one step forward. An ORDERED order is
// returned unchanged; SHIPPED becomes DELIVERED after a read-only check
// that every line's item still has stock on the shelf.
func (s *Service) AdvanceStatus(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order *domain.Order
	err := s.repo.Within(ctx, func(tx repository.Store) error {
		o, err := tx.FindOrder(ctx, orderID)
		if err != nil {
			return err
		}
		switch o.Status {
		case domain.OrderStatusOrdered:
			order = o
			return nil
		case domain.OrderStatusShipped:
			for _, line := range o.Lines {
				item, err := tx.FindItem(ctx, line.ItemID)
				if err != nil {
					return err
				}
				if item.Stock < 1 {
					return fmt.Errorf("item %d: %w", item.ID, domain.ErrOutOfStock)
				}
			}
			o.Status = domain.OrderStatusDelivered
		default:
			return domain.ErrIllegalTransition
		}
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}
		if err := appendHistoryOnce(ctx, tx, o.ID, o.Status); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// MarkShipped transitions ORDERED to SHIPPED.
func (s *Service) MarkShipped(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order *domain.Order
	err := s.repo.Within(ctx, func(tx repository.Store) error {
		o, err := tx.FindOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.Status.CanTransitionTo(domain.OrderStatusShipped) {
			return domain.ErrIllegalTransition
		}
		o.Status = domain.OrderStatusShipped
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}
		if err := appendHistoryOnce(ctx, tx, o.ID, o.Status); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancels an order and releases its reserved stock. Canceling
// an already canceled order is a no-op; a delivered order cannot be
// canceled.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order *domain.Order
	err := s.repo.Within(ctx, func(tx repository.Store) error {
		o, err := tx.FindOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status == domain.OrderStatusCanceled {
			order = o
			return nil
		}
		if !o.Status.CanTransitionTo(domain.OrderStatusCanceled) {
			return domain.ErrIllegalTransition
		}
		for _, line := range o.Lines {
			if err := s.ledger.Release(ctx, tx, line.ItemID, line.Quantity); err != nil {
				return err
			}
		}
		o.Status = domain.OrderStatusCanceled
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}
		if err := appendHistoryOnce(ctx, tx, o.ID, o.Status); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateLine changes quantity and unit price of an existing order line and
// recomputes the order total.
func (s *Service) UpdateLine(ctx context.Context, lineID int64, quantity, price int) (*domain.Order, error) {
	if quantity <= 0 || price < 0 {
		return nil, domain.ErrInvalidInput
	}
	var order *domain.Order
	err := s.repo.Within(ctx, func(tx repository.Store) error {
		line, err := tx.FindOrderLine(ctx, lineID)
		if err != nil {
			return err
		}
		item, err := tx.FindItem(ctx, line.ItemID)
		if err != nil {
			return err
		}
		if quantity > item.Stock {
			return domain.ErrOutOfStock
		}
		line.Quantity = quantity
		line.Price = price
		if err := tx.SaveOrderLine(ctx, line); err != nil {
			return err
		}

		o, err := tx.FindOrder(ctx, line.OrderID)
		if err != nil {
			return err
		}
		o.RecalculateTotal()
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) FindOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.repo.FindOrder(ctx, orderID)
}

func (s *Service) FindOrdersByMember(ctx context.Context, memberID int64, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListOrdersByMember(ctx, memberID, limit, offset)
}

// TrackHistory returns the order's status history, oldest first.
func (s *Service) TrackHistory(ctx context.Context, orderID int64) ([]domain.StatusHistoryEntry, error) {
	if _, err := s.repo.FindOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.HistoryByOrder(ctx, orderID)
}

// DeleteOrder removes an order and everything hanging off it. In-flight
// orders must be canceled or delivered first.
func (s *Service) DeleteOrder(ctx context.Context, orderID int64) error {
	return s.repo.Within(ctx, func(tx repository.Store) error {
		o, err := tx.FindOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status == domain.OrderStatusOrdered || o.Status == domain.OrderStatusShipped {
			return domain.ErrOrderNotDeletable
		}
		log.Printf("deleting order %d (status %s)", o.ID, o.Status)
		return tx.DeleteOrder(ctx, orderID)
	})
}

// appendHistoryOnce records a status transition exactly once per status.
func appendHistoryOnce(ctx context.Context, tx repository.Store, orderID int64, status domain.OrderStatus) error {
	exists, err := tx.HistoryExists(ctx, orderID, status)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return tx.AppendHistory(ctx, orderID, status, time.Now())
}
