package repository

import (
	"context"
	"time"

	"github.com/Fangsangik/shopping/internal/domain"
)

// Credentials holds postgres connection settings plus the migrations dir.
type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type ItemStore interface {
	FindItem(ctx context.Context, id int64) (*domain.Item, error)
	FindItemByName(ctx context.Context, name string) (*domain.Item, error)
	SaveItem(ctx context.Context, item *domain.Item) error

	// ReserveStock atomically decrements stock by quantity, failing with
	// domain.ErrOutOfStock when fewer than quantity units remain. The
	// check and the write are one operation so concurrent reservations
	// serialize.
	ReserveStock(ctx context.Context, itemID int64, quantity int) error
	ReleaseStock(ctx context.Context, itemID int64, quantity int) error

	ItemsAtOrBelowStock(ctx context.Context, threshold int, status domain.ItemStatus) ([]*domain.Item, error)
}

type OrderStore interface {
	SaveOrder(ctx context.Context, order *domain.Order) error
	FindOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrdersByMember(ctx context.Context, memberID int64, limit, offset int) ([]*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error

	FindOrderLine(ctx context.Context, id int64) (*domain.OrderLine, error)
	SaveOrderLine(ctx context.Context, line *domain.OrderLine) error

	HistoryExists(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error)
	AppendHistory(ctx context.Context, orderID int64, status domain.OrderStatus, at time.Time) error
	HistoryByOrder(ctx context.Context, orderID int64) ([]domain.StatusHistoryEntry, error)
}

type PaymentStore interface {
	SavePayment(ctx context.Context, payment *domain.Payment) error
	FindPayment(ctx context.Context, id int64) (*domain.Payment, error)
	PaymentsByMember(ctx context.Context, memberID int64) ([]*domain.Payment, error)
}

type PromotionStore interface {
	SavePromotion(ctx context.Context, promotion *domain.Promotion) error
	ActivePromotionForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Promotion, error)
	OverlapExists(ctx context.Context, itemID int64, start, end time.Time) (bool, error)
	ItemsWithActivePromotions(ctx context.Context, now time.Time) ([]*domain.Item, error)
}

type BucketStore interface {
	SaveBucketLine(ctx context.Context, line *domain.BucketLine) error
	FindBucketLine(ctx context.Context, id int64) (*domain.BucketLine, error)
	BucketLineByMemberAndItem(ctx context.Context, memberID, itemID int64) (*domain.BucketLine, error)
	BucketLinesByMember(ctx context.Context, memberID int64) ([]*domain.BucketLine, error)
	DeleteBucketLine(ctx context.Context, id int64) error
}

type MemberStore interface {
	FindMember(ctx context.Context, id int64) (*domain.Member, error)
	SaveMember(ctx context.Context, member *domain.Member) error
}

// Store is the full persistence surface the services work against. Save
// methods insert when the entity's ID is zero (assigning a fresh id) and
// update otherwise. Find methods return the domain NotFound sentinels.
type Store interface {
	ItemStore
	OrderStore
	PaymentStore
	PromotionStore
	BucketStore
	MemberStore
}

// UnitOfWork runs fn atomically: either every write fn performs commits, or
// none do. Every mutating service operation executes through Within.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(tx Store) error) error
}

type Repository interface {
	Store
	UnitOfWork
	Close() error
}
