package domain

import "time"

type ItemStatus string

const (
	ItemStatusAvailable    ItemStatus = "AVAILABLE"
	ItemStatusOutOfStock   ItemStatus = "OUT_OF_STOCK"
	ItemStatusDiscontinued ItemStatus = "DISCONTINUED"
)

type OrderStatus string

const (
	OrderStatusOrdered   OrderStatus = "ORDERED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// CanTransitionTo encodes the order state machine: forward through
// SHIPPED/DELIVERED, sideways to CANCELED from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusOrdered:
		return next == OrderStatusShipped || next == OrderStatusCanceled
	case OrderStatusShipped:
		return next == OrderStatusDelivered || next == OrderStatusCanceled
	default: // DELIVERED and CANCELED are terminal
		return false
	}
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

func (s OrderStatus) String() string {
	return string(s)
}

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusAuthorized PaymentStatus = "AUTHORIZED"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusCanceled   PaymentStatus = "CANCELED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
)

type Member struct {
	ID        int64
	UserID    string
	Name      string
	CreatedAt time.Time
}

type Item struct {
	ID     int64
	Name   string
	Price  int
	Stock  int
	Status ItemStatus
}

type OrderLine struct {
	ID       int64
	OrderID  int64
	ItemID   int64
	Quantity int
	// Price is the unit price snapshotted at order time. Later item price
	// changes never touch it.
	Price int
}

type Order struct {
	ID        int64
	MemberID  int64
	Status    OrderStatus
	Total     int
	Lines     []OrderLine
	CreatedAt time.Time
}

// RecalculateTotal derives the order total from its lines.
func (o *Order) RecalculateTotal() {
	total := 0
	for _, l := range o.Lines {
		total += l.Price * l.Quantity
	}
	o.Total = total
}

type StatusHistoryEntry struct {
	ID        int64
	OrderID   int64
	Status    OrderStatus
	Timestamp time.Time
}

type Payment struct {
	ID       int64
	MemberID int64
	OrderID  int64
	Amount   float64
	Status   PaymentStatus
	PaidAt   time.Time
}

type Promotion struct {
	ID           int64
	ItemID       int64
	DiscountRate int
	StartDate    time.Time
	EndDate      time.Time
	CouponCode   string
}

// ActiveAt reports whether now falls inside the promotion window,
// boundaries included.
func (p Promotion) ActiveAt(now time.Time) bool {
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}

type BucketLine struct {
	ID       int64
	MemberID int64
	ItemID   int64
	Quantity int
	// ItemTotal caches unit price x quantity at add time; the validator
	// uses it to detect price drift.
	ItemTotal int
	Selected  bool
}

// UnitPrice recovers the cached unit price from the line total.
func (b BucketLine) UnitPrice() int {
	if b.Quantity == 0 {
		return 0
	}
	return b.ItemTotal / b.Quantity
}
