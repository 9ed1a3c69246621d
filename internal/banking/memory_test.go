package banking

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memRepository is an in-memory Repository used by the service tests.
type memRepository struct {
	mu      sync.Mutex
	entries []BankEntry
	base    time.Time
}

func newMemRepository() *memRepository {
	return &memRepository{base: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memRepository) Append(_ context.Context, shipID string, year int, amount float64) (*BankEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := int64(len(m.entries) + 1)
	entry := BankEntry{
		ID:           id,
		ShipID:       shipID,
		Year:         year,
		AmountGCO2eq: amount,
		CreatedAt:    m.base.Add(time.Duration(id) * time.Second),
	}
	m.entries = append(m.entries, entry)
	return &entry, nil
}

func (m *memRepository) SumThrough(_ context.Context, shipID string, year int) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total float64
	for _, e := range m.entries {
		if e.ShipID == shipID && e.Year <= year {
			total += e.AmountGCO2eq
		}
	}
	return total, nil
}

func (m *memRepository) ListByYear(_ context.Context, shipID string, year int) ([]BankEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []BankEntry{}
	for _, e := range m.entries {
		if e.ShipID == shipID && e.Year == year {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memRepository) WithShipLock(_ context.Context, _ string, fn func(tx Store) error) error {
	return fn(m)
}

func (m *memRepository) ListOverdrawn(ctx context.Context) ([]Overdraft, error) {
	m.mu.Lock()
	type key struct {
		ship string
		year int
	}
	seen := map[key]bool{}
	var keys []key
	for _, e := range m.entries {
		k := key{e.ShipID, e.Year}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	m.mu.Unlock()

	out := []Overdraft{}
	for _, k := range keys {
		total, _ := m.SumThrough(ctx, k.ship, k.year)
		if total < 0 {
			out = append(out, Overdraft{ShipID: k.ship, Year: k.year, Available: total})
		}
	}
	return out, nil
}
