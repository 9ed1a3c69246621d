package compliance

import "errors"

// ErrNotFound is returned when no CB has been computed for a ship-year.
var ErrNotFound = errors.New("compliance balance not found")
