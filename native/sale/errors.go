package sale

import "errors"

var (
	ErrNilState           = errors.New("sale: state not configured")
	ErrTokenNotConfigured = errors.New("sale: token ledger not configured")
	ErrNotConfigured      = errors.New("sale: sale not configured")

	// Authorization.
	ErrUnauthorized = errors.New("sale: caller is not the owner")

	// Phase.
	ErrSaleStarted     = errors.New("sale: sale already started")
	ErrNotStarted      = errors.New("sale: sale not started yet")
	ErrSaleEnded       = errors.New("sale: sale ended")
	ErrSaleNotEnded    = errors.New("sale: sale not ended yet")
	ErrCliffNotReached = errors.New("sale: withdrawal not started yet")

	// Validation.
	ErrInvalidConfig        = errors.New("sale: invalid configuration value")
	ErrInvalidAmount        = errors.New("sale: amount must be positive")
	ErrBelowMinimum         = errors.New("sale: under minimum buy value")
	ErrAboveMaximum         = errors.New("sale: above maximum token amount per address")
	ErrInvalidReferral      = errors.New("sale: invalid referral address")
	ErrUnauthorizedCurrency = errors.New("sale: unauthorized payment currency")

	// Supply.
	ErrInsufficientSupply = errors.New("sale: not enough tokens available")
)
