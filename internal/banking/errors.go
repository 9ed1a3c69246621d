package banking

import "errors"

var (
	// ErrInvalidAmount is returned for a bank or apply amount that is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientBanked is returned when an apply exceeds the available banked surplus.
	ErrInsufficientBanked = errors.New("insufficient banked surplus")
	// ErrNonPositiveCB blocks banking for a ship-year without a surplus.
	ErrNonPositiveCB = errors.New("compliance balance must be positive to bank surplus")
	// ErrLockNotObtained is returned when another writer holds the ship lock for too long.
	ErrLockNotObtained = errors.New("ship ledger is busy")
)
