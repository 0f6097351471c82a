package status

import "errors"

var (
	ErrQuantityOutOfRange = errors.New("purchase: quantity out of per-order bounds")
	ErrSoldOut            = errors.New("purchase: not enough tickets remaining")
	ErrTierNotOnSale      = errors.New("purchase: tier is not on sale")
	ErrPromoInvalid       = errors.New("promo: code is not usable")
	ErrPromoExhausted     = errors.New("promo: usage limit reached")
	ErrTicketNotFound     = errors.New("ticket: ticket not found")
	ErrInviteNotFound     = errors.New("invite: invitation code not found")
	ErrNotCancellable     = errors.New("ticket: ticket can no longer be cancelled")
	ErrFailedPayment      = errors.New("payment: payment failed")
	ErrIntentNotFound     = errors.New("payment: payment intent not found")
)
