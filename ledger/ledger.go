// Package ledger abstracts the chip accounting the engine debits buy-ins
// from and credits winnings back to. The ledger is authoritative for
// balances outside a hand; during a hand only table state moves chips.
package ledger

import "context"

type Ledger interface {
	Balance(ctx context.Context, userID string) (int64, error)
	// Debit removes amount from the user's balance. It fails with
	// ErrInsufficientFunds instead of going negative.
	Debit(ctx context.Context, userID string, amount int64) error
	Credit(ctx context.Context, userID string, amount int64) error
}

// DefaultStartingChips is credited to an account the first time it is
// seen by the in-memory ledger.
const DefaultStartingChips int64 = 1000
