package domain

import "errors"

// Typed domain failures. Every rule violation in the core surfaces as one of
// these; callers branch with errors.Is. Technical failures (store down etc.)
// are wrapped separately and never match these sentinels.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrPromotionNotFound = errors.New("promotion not found")
	ErrBucketNotFound    = errors.New("bucket line not found")
	ErrOrderLineNotFound = errors.New("order line not found")

	ErrOutOfStock   = errors.New("item out of stock")
	ErrInvalidInput = errors.New("invalid input value")
	ErrItemExists   = errors.New("item already exists")

	ErrInvalidAmount           = errors.New("payment amount must be positive")
	ErrPaymentCannotBeCanceled = errors.New("payment cannot be canceled")
	ErrPaymentRefundNotAllowed = errors.New("only completed payments can be refunded")
	ErrForbidden               = errors.New("payment does not belong to member")

	ErrInvalidDiscountRate = errors.New("discount rate must be between 0 and 100")
	ErrInvalidWindow       = errors.New("promotion start date must be before end date")
	ErrPromotionExists     = errors.New("overlapping promotion already exists for item")
	ErrNoActivePromotion   = errors.New("no active promotion for item")
	ErrInvalidCoupon       = errors.New("coupon code does not match")
	ErrItemPriceChanged    = errors.New("item price changed since added to bucket")
	ErrItemNotSale         = errors.New("item is no longer on sale")
	ErrOrderNotDeletable   = errors.New("open orders cannot be deleted")
	ErrIllegalTransition   = errors.New("illegal order status transition")
)
