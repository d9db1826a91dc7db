package cache

import (
	"context"
	"errors"

	"github.com/Fangsangik/shopping/internal/domain"
)

var ErrCacheMiss = errors.New("item not found in cache")

// ItemCache is a read-through cache for catalog items. Implementations are
// best effort: the item service logs and bypasses cache errors, it never
// fails a lookup over them.
type ItemCache interface {
	Get(ctx context.Context, itemID int64) (*domain.Item, error)
	Set(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, itemID int64) error
}

// Noop satisfies ItemCache without caching anything. Used when no redis
// address is configured.
type Noop struct{}

func (Noop) Get(context.Context, int64) (*domain.Item, error) { return nil, ErrCacheMiss }
func (Noop) Set(context.Context, *domain.Item) error          { return nil }
func (Noop) Delete(context.Context, int64) error              { return nil }
