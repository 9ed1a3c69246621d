package banking

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository is the Postgres-backed Store plus the per-ship critical section
type Repository interface {
	Store
	// WithShipLock runs fn in one transaction holding an exclusive lock on shipID.
	// Writes made through tx are committed only if fn returns nil.
	WithShipLock(ctx context.Context, shipID string, fn func(tx Store) error) error
	ListOverdrawn(ctx context.Context) ([]Overdraft, error)
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db, q: db}
}

func (r *PostgresRepository) Append(ctx context.Context, shipID string, year int, amount float64) (*BankEntry, error) {
	var entry BankEntry
	err := sqlx.GetContext(ctx, r.q, &entry, `
		INSERT INTO bank_entries (ship_id, year, amount_gco2eq)
		VALUES ($1, $2, $3)
		RETURNING id, ship_id, year, amount_gco2eq, created_at`, shipID, year, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to append bank entry: %w", err)
	}
	return &entry, nil
}

func (r *PostgresRepository) SumThrough(ctx context.Context, shipID string, year int) (float64, error) {
	var total float64
	err := sqlx.GetContext(ctx, r.q, &total,
		"SELECT COALESCE(SUM(amount_gco2eq), 0) FROM bank_entries WHERE ship_id = $1 AND year <= $2",
		shipID, year)
	if err != nil {
		return 0, fmt.Errorf("failed to sum bank entries: %w", err)
	}
	return total, nil
}

func (r *PostgresRepository) ListByYear(ctx context.Context, shipID string, year int) ([]BankEntry, error) {
	entries := []BankEntry{}
	err := sqlx.SelectContext(ctx, r.q, &entries, `
		SELECT id, ship_id, year, amount_gco2eq, created_at
		FROM bank_entries
		WHERE ship_id = $1 AND year = $2
		ORDER BY created_at DESC, id DESC`, shipID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank entries: %w", err)
	}
	return entries, nil
}

func (r *PostgresRepository) WithShipLock(ctx context.Context, shipID string, fn func(tx Store) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// released automatically at commit or rollback
	if _, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", shipID); err != nil {
		return fmt.Errorf("failed to lock ship %s: %w", shipID, err)
	}

	if err = fn(&PostgresRepository{db: r.db, q: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListOverdrawn(ctx context.Context) ([]Overdraft, error) {
	overdrafts := []Overdraft{}
	err := sqlx.SelectContext(ctx, r.q, &overdrafts, `
		SELECT y.ship_id, y.year, SUM(e.amount_gco2eq) AS available
		FROM (SELECT DISTINCT ship_id, year FROM bank_entries) y
		JOIN bank_entries e ON e.ship_id = y.ship_id AND e.year <= y.year
		GROUP BY y.ship_id, y.year
		HAVING SUM(e.amount_gco2eq) < 0
		ORDER BY y.ship_id, y.year`)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdrawn ledgers: %w", err)
	}
	return overdrafts, nil
}
