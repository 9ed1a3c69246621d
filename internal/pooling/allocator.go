package pooling

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

type slot struct {
	index  int
	shipID string
	before decimal.Decimal
	after  decimal.Decimal
}

// Allocate redistributes surplus CB to deficit members of a pool.
//
// Members are ordered by (-cbBefore, request index). Each surplus member, in
// that order, pays off the deficit members after it starting from the tail
// until it reaches zero. Balances are carried as exact decimals so the pool
// total is conserved exactly.
func Allocate(year int, members []Member) (*PoolResult, error) {
	slots := make([]slot, len(members))
	total := decimal.Zero
	for i, m := range members {
		if math.IsNaN(m.CbBefore) || math.IsInf(m.CbBefore, 0) {
			return nil, fmt.Errorf("%w: %s has %v", ErrInvalidBalance, m.ShipID, m.CbBefore)
		}
		before := decimal.NewFromFloat(m.CbBefore)
		slots[i] = slot{index: i, shipID: m.ShipID, before: before, after: before}
		total = total.Add(before)
	}

	if total.IsNegative() {
		return nil, fmt.Errorf("%w: total is %s", ErrNegativePoolTotal, total)
	}

	redistribute(slots)

	if err := checkConstraints(slots); err != nil {
		return nil, err
	}

	totalAfter := decimal.Zero
	allocated := make([]AllocatedMember, len(slots))
	for i, s := range slots {
		totalAfter = totalAfter.Add(s.after)
		allocated[i] = AllocatedMember{
			ShipID:   s.shipID,
			CbBefore: s.before.InexactFloat64(),
			CbAfter:  s.after.InexactFloat64(),
		}
	}
	if !totalAfter.Equal(total) {
		return nil, fmt.Errorf("%w: total moved from %s to %s", ErrConstraintViolation, total, totalAfter)
	}

	return &PoolResult{
		Year:          year,
		Members:       allocated,
		TotalCbBefore: total.InexactFloat64(),
		TotalCbAfter:  totalAfter.InexactFloat64(),
		Valid:         true,
	}, nil
}

// redistribute sorts slots into allocation order and performs the transfers in place.
func redistribute(slots []slot) {
	sort.Slice(slots, func(a, b int) bool {
		if c := slots[a].before.Cmp(slots[b].before); c != 0 {
			return c > 0
		}
		return slots[a].index < slots[b].index
	})

	for i := range slots {
		if !slots[i].after.IsPositive() {
			continue
		}
		for j := len(slots) - 1; j > i; j-- {
			if !slots[j].after.IsNegative() {
				continue
			}
			t := decimal.Min(slots[i].after, slots[j].after.Neg())
			slots[i].after = slots[i].after.Sub(t)
			slots[j].after = slots[j].after.Add(t)
			if slots[i].after.IsZero() {
				break
			}
		}
	}
}

func checkConstraints(slots []slot) error {
	for _, s := range slots {
		if s.before.IsNegative() && s.after.LessThan(s.before) {
			return fmt.Errorf("%w: deficit ship %s would exit worse (%s -> %s)", ErrConstraintViolation, s.shipID, s.before, s.after)
		}
		if s.before.IsPositive() && s.after.IsNegative() {
			return fmt.Errorf("%w: surplus ship %s would exit in deficit (%s -> %s)", ErrConstraintViolation, s.shipID, s.before, s.after)
		}
	}
	return nil
}
