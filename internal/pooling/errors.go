package pooling

import "errors"

var (
	// ErrNegativePoolTotal is returned when the members' CB sums to less than zero.
	ErrNegativePoolTotal = errors.New("pool total CB is negative")
	// ErrConstraintViolation signals an allocation that made a deficit ship
	// worse or pushed a surplus ship into deficit.
	ErrConstraintViolation = errors.New("pool allocation violates member constraints")
	ErrInvalidBalance      = errors.New("member CB must be a finite number")
	ErrDuplicateMember     = errors.New("ship appears more than once in pool")
	ErrNotFound            = errors.New("pool not found")
)
