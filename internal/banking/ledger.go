package banking

import (
	"context"
	"fmt"
	"math"
)

// Store is the append-only log of bank entries.
type Store interface {
	Append(ctx context.Context, shipID string, year int, amount float64) (*BankEntry, error)
	// SumThrough sums every entry of the ship with entry.year <= year.
	SumThrough(ctx context.Context, shipID string, year int) (float64, error)
	// ListByYear returns the entries of exactly that year, most recent first.
	ListByYear(ctx context.Context, shipID string, year int) ([]BankEntry, error)
}

// Ledger applies the banking rules on top of a Store. It holds no state of its
// own; serialising concurrent applies for one ship is the caller's job.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// ValidateAmount rejects amounts that are not strictly positive finite numbers.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidAmount, amount)
	}
	return nil
}

// CheckApply validates an apply of amount against a previously read available balance.
func CheckApply(amount, availableBanked float64) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if amount > availableBanked {
		return fmt.Errorf("%w: available %v, requested %v", ErrInsufficientBanked, availableBanked, amount)
	}
	return nil
}

// Bank records a positive ledger line.
func (l *Ledger) Bank(ctx context.Context, shipID string, year int, amount float64) (*BankEntry, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	return l.store.Append(ctx, shipID, year, amount)
}

// Apply appends -amount after checking it against availableBanked, which the
// caller must have read for the same ship and year beforehand.
func (l *Ledger) Apply(ctx context.Context, shipID string, year int, amount, availableBanked float64) error {
	if err := CheckApply(amount, availableBanked); err != nil {
		return err
	}
	_, err := l.store.Append(ctx, shipID, year, -amount)
	return err
}

// AvailableBanked is the signed sum of the ship's entries up to and including year.
func (l *Ledger) AvailableBanked(ctx context.Context, shipID string, year int) (float64, error) {
	return l.store.SumThrough(ctx, shipID, year)
}

// Records returns the entries booked for exactly year, most recent first.
func (l *Ledger) Records(ctx context.Context, shipID string, year int) ([]BankEntry, error) {
	return l.store.ListByYear(ctx, shipID, year)
}
