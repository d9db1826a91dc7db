package inventory

import (
	"context"
	"log"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/notify"
	"github.com/Fangsangik/shopping/internal/repository"
)

// Ledger owns item stock counts. Reserve and Release operate on whatever
// store they are handed, so order creation can run them inside its own unit
// of work while standalone callers pass the repository directly.
type Ledger struct {
	repo     repository.Repository
	notifier notify.Notifier
}

func NewLedger(repo repository.Repository, notifier notify.Notifier) *Ledger {
	return &Ledger{repo: repo, notifier: notifier}
}

// Reserve takes quantity units of stock from the item, failing with
// domain.ErrOutOfStock when fewer remain. Never oversells: the underlying
// decrement is conditional on sufficient stock.
func (l *Ledger) Reserve(ctx context.Context, store repository.ItemStore, itemID int64, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	return store.ReserveStock(ctx, itemID, quantity)
}

// Release returns quantity units of stock to the item; used on cancellation.
func (l *Ledger) Release(ctx context.Context, store repository.ItemStore, itemID int64, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	return store.ReleaseStock(ctx, itemID, quantity)
}

// MarkLowStock flips AVAILABLE items at or below threshold to OUT_OF_STOCK
// and signals the notification sink once per flipped item. Runs as one unit
// of work; the notifier is fire-and-forget and cannot fail it.
func (l *Ledger) MarkLowStock(ctx context.Context, threshold int) ([]*domain.Item, error) {
	var flagged []*domain.Item
	err := l.repo.Within(ctx, func(tx repository.Store) error {
		items, err := tx.ItemsAtOrBelowStock(ctx, threshold, domain.ItemStatusAvailable)
		if err != nil {
			return err
		}

		for _, item := range items {
			item.Status = domain.ItemStatusOutOfStock
			if err := tx.SaveItem(ctx, item); err != nil {
				return err
			}
			l.notifier.NotifyLowStock(ctx, item)
			flagged = append(flagged, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(flagged) > 0 {
		log.Printf("marked %d items as out of stock at threshold %d", len(flagged), threshold)
	}
	return flagged, nil
}
