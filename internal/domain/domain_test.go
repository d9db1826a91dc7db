package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusOrdered.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusOrdered.CanTransitionTo(OrderStatusCanceled))
	assert.False(t, OrderStatusOrdered.CanTransitionTo(OrderStatusDelivered))

	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusCanceled))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusOrdered))

	// Terminal states go nowhere.
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCanceled))
	assert.False(t, OrderStatusCanceled.CanTransitionTo(OrderStatusOrdered))

	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCanceled.IsTerminal())
	assert.False(t, OrderStatusOrdered.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestRecalculateTotal(t *testing.T) {
	order := &Order{Lines: []OrderLine{
		{Quantity: 2, Price: 1000},
		{Quantity: 3, Price: 500},
	}}
	order.RecalculateTotal()
	assert.Equal(t, 3500, order.Total)

	order.Lines = nil
	order.RecalculateTotal()
	assert.Equal(t, 0, order.Total)
}

func TestPromotionActiveAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	promo := Promotion{StartDate: start, EndDate: end}

	assert.True(t, promo.ActiveAt(start))
	assert.True(t, promo.ActiveAt(end))
	assert.True(t, promo.ActiveAt(start.AddDate(0, 0, 3)))
	assert.False(t, promo.ActiveAt(start.Add(-time.Second)))
	assert.False(t, promo.ActiveAt(end.Add(time.Second)))
}

func TestBucketLineUnitPrice(t *testing.T) {
	line := BucketLine{Quantity: 4, ItemTotal: 2000}
	assert.Equal(t, 500, line.UnitPrice())

	empty := BucketLine{}
	assert.Equal(t, 0, empty.UnitPrice())
}
