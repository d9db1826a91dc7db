package promotion

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Fangsangik/shopping/internal/cache"
	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/repository"
	"github.com/google/uuid"
)

// Engine manages discount windows. At most one promotion is active per item
// at any moment; applying one rewrites the item price and is gated by the
// coupon code minted at creation.
type Engine struct {
	repo  repository.Repository
	cache cache.ItemCache
	// now is swappable in tests.
	now func() time.Time
}

func NewEngine(repo repository.Repository, itemCache cache.ItemCache) *Engine {
	return &Engine{repo: repo, cache: itemCache, now: time.Now}
}

// CreatePromotion opens a discount window for an item and mints its coupon
// code. Windows for the same item must not overlap.
func (e *Engine) CreatePromotion(ctx context.Context, itemID int64, discountRate int, start, end time.Time) (*domain.Promotion, error) {
	if discountRate < 0 || discountRate > 100 {
		return nil, domain.ErrInvalidDiscountRate
	}
	if !start.Before(end) {
		return nil, domain.ErrInvalidWindow
	}

	promotion := &domain.Promotion{
		ItemID:       itemID,
		DiscountRate: discountRate,
		StartDate:    start,
		EndDate:      end,
		CouponCode:   newCouponCode(),
	}
	err := e.repo.Within(ctx, func(tx repository.Store) error {
		if _, err := tx.FindItem(ctx, itemID); err != nil {
			return err
		}
		overlaps, err := tx.OverlapExists(ctx, itemID, start, end)
		if err != nil {
			return err
		}
		if overlaps {
			return domain.ErrPromotionExists
		}
		return tx.SavePromotion(ctx, promotion)
	})
	if err != nil {
		return nil, err
	}
	return promotion, nil
}

// ApplyPromotion redeems a coupon against the item's currently active
// promotion and commits the discounted price to the item.
func (e *Engine) ApplyPromotion(ctx context.Context, itemID int64, couponCode string) (*domain.Item, error) {
	var item *domain.Item
	err := e.repo.Within(ctx, func(tx repository.Store) error {
		promotion, err := tx.ActivePromotionForItem(ctx, itemID, e.now())
		if errors.Is(err, domain.ErrPromotionNotFound) {
			return domain.ErrNoActivePromotion
		}
		if err != nil {
			return err
		}
		if promotion.CouponCode != couponCode {
			return domain.ErrInvalidCoupon
		}

		found, err := tx.FindItem(ctx, itemID)
		if err != nil {
			return err
		}
		discounted, err := CalculateDiscountedPrice(found.Price, promotion.DiscountRate)
		if err != nil {
			return err
		}
		found.Price = int(discounted)
		if err := tx.SaveItem(ctx, found); err != nil {
			return err
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := e.cache.Delete(ctx, itemID); err != nil {
		log.Printf("item cache delete failed for %d: %v", itemID, err)
	}
	return item, nil
}

// ItemWithPromotion returns the item with any active discount applied to
// the displayed price. Nothing is written.
func (e *Engine) ItemWithPromotion(ctx context.Context, itemID int64) (*domain.Item, error) {
	item, err := e.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	promotion, err := e.repo.ActivePromotionForItem(ctx, itemID, e.now())
	if errors.Is(err, domain.ErrPromotionNotFound) {
		return item, nil
	}
	if err != nil {
		return nil, err
	}
	discounted, err := CalculateDiscountedPrice(item.Price, promotion.DiscountRate)
	if err != nil {
		return nil, err
	}
	item.Price = int(discounted)
	return item, nil
}

// ItemsWithActivePromotions lists every item with a promotion running now.
func (e *Engine) ItemsWithActivePromotions(ctx context.Context) ([]*domain.Item, error) {
	return e.repo.ItemsWithActivePromotions(ctx, e.now())
}

// DiscountedPriceForItem resolves the item and applies the given rate to
// its current price. Pure read.
func (e *Engine) DiscountedPriceForItem(ctx context.Context, itemID int64, discountRate int) (float64, error) {
	item, err := e.repo.FindItem(ctx, itemID)
	if err != nil {
		return 0, err
	}
	return CalculateDiscountedPrice(item.Price, discountRate)
}

// CalculateDiscountedPrice applies a percentage discount. A rate of zero or
// less leaves the price unchanged.
func CalculateDiscountedPrice(price, discountRate int) (float64, error) {
	if discountRate > 100 {
		return 0, domain.ErrInvalidDiscountRate
	}
	if discountRate <= 0 {
		return float64(price), nil
	}
	return float64(price) * float64(100-discountRate) / 100, nil
}

// newCouponCode mints a short uppercase code from a fresh uuid.
func newCouponCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}
