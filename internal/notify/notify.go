package notify

import (
	"context"

	"github.com/Fangsangik/shopping/internal/domain"
)

// Notifier is the fire-and-forget notification collaborator. Implementations
// must not fail the caller's unit of work: delivery problems are theirs to
// log and swallow.
type Notifier interface {
	NotifyLowStock(ctx context.Context, item *domain.Item)
}

// Noop discards notifications; used in tests and local runs without a broker.
type Noop struct{}

func (Noop) NotifyLowStock(context.Context, *domain.Item) {}
