package bucket

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/repository"
)

// Service manages per-member buckets. A bucket line caches the item price
// at add time; ValidateBucket replays those assumptions against the live
// catalog before checkout.
type Service struct {
	repo repository.Repository
}

func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// AddItem puts quantity units of an item into the member's bucket. Adding
// an item already present merges into the existing line and reprices it at
// the item's current price.
func (s *Service) AddItem(ctx context.Context, memberID, itemID int64, quantity int) (*domain.BucketLine, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var line *domain.BucketLine
	err := s.repo.Within(ctx, func(tx repository.Store) error {
		if _, err := tx.FindMember(ctx, memberID); err != nil {
			return err
		}
		item, err := tx.FindItem(ctx, itemID)
		if err != nil {
			return err
		}

		existing, err := tx.BucketLineByMemberAndItem(ctx, memberID, itemID)
		switch {
		case err == nil:
			existing.Quantity += quantity
			existing.ItemTotal = item.Price * existing.Quantity
			line = existing
		case errors.Is(err, domain.ErrBucketNotFound):
			line = &domain.BucketLine{
				MemberID:  memberID,
				ItemID:    itemID,
				Quantity:  quantity,
				ItemTotal: item.Price * quantity,
				Selected:  true,
			}
		default:
			return err
		}
		return tx.SaveBucketLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateQuantity sets a line to an exact quantity, repricing the line total
// from its cached unit price.
func (s *Service) UpdateQuantity(ctx context.Context, memberID, lineID int64, quantity int) (*domain.BucketLine, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var line *domain.BucketLine
	err := s.repo.Within(ctx, func(tx repository.Store) error {
		found, err := tx.FindBucketLine(ctx, lineID)
		if err != nil {
			return err
		}
		if found.MemberID != memberID {
			return domain.ErrForbidden
		}
		unit := found.UnitPrice()
		found.Quantity = quantity
		found.ItemTotal = unit * quantity
		if err := tx.SaveBucketLine(ctx, found); err != nil {
			return err
		}
		line = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (s *Service) RemoveLine(ctx context.Context, memberID, lineID int64) error {
	return s.repo.Within(ctx, func(tx repository.Store) error {
		found, err := tx.FindBucketLine(ctx, lineID)
		if err != nil {
			return err
		}
		if found.MemberID != memberID {
			return domain.ErrForbidden
		}
		return tx.DeleteBucketLine(ctx, lineID)
	})
}

func (s *Service) LinesByMember(ctx context.Context, memberID int64) ([]*domain.BucketLine, error) {
	return s.repo.BucketLinesByMember(ctx, memberID)
}

// ValidateBucket replays every selected line against the live catalog:
// enough stock, unchanged price, item still on sale. The first violation
// aborts the check.
func (s *Service) ValidateBucket(ctx context.Context, memberID int64) error {
	lines, err := s.repo.BucketLinesByMember(ctx, memberID)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if !line.Selected {
			continue
		}
		item, err := s.repo.FindItem(ctx, line.ItemID)
		if err != nil {
			return err
		}
		if item.Stock < line.Quantity {
			return fmt.Errorf("item %d: %w", item.ID, domain.ErrOutOfStock)
		}
		if item.Price != line.UnitPrice() {
			return fmt.Errorf("item %d: %w", item.ID, domain.ErrItemPriceChanged)
		}
		if item.Status != domain.ItemStatusAvailable {
			return fmt.Errorf("item %d: %w", item.ID, domain.ErrItemNotSale)
		}
	}
	return nil
}
