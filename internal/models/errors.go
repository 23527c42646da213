package models

import "errors"

// Error taxonomy surfaced to callers. Handlers match these with errors.Is
// to pick a status code; lower layers wrap them with context via
// fmt.Errorf("...: %w", err).
var (
	ErrInvalidOrder            = errors.New("invalid order: shares must be positive and symbol non-empty")
	ErrInvalidAmount           = errors.New("invalid amount: deposit amount must be positive")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrInsufficientShares      = errors.New("insufficient shares")
	ErrPriceUnavailable        = errors.New("price unavailable")
	ErrUnknownSymbol           = errors.New("unknown symbol")
	ErrAccountStoreUnavailable = errors.New("account store unavailable")
)
