package pooling

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines the interface for pool persistence
type Repository interface {
	// CreatePool inserts the pool and all of its members in one transaction.
	CreatePool(ctx context.Context, year int, members []AllocatedMember) (*Pool, error)
	ListPools(ctx context.Context, year int) ([]Pool, error)
	// GetPool returns nil when no pool has the id.
	GetPool(ctx context.Context, id int64) (*Pool, error)
	ListMembers(ctx context.Context, poolID int64) ([]PoolMember, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a new pool repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreatePool(ctx context.Context, year int, members []AllocatedMember) (pool *Pool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	pool = &Pool{}
	if err = tx.GetContext(ctx, pool,
		"INSERT INTO pools (year) VALUES ($1) RETURNING id, year, created_at", year); err != nil {
		return nil, fmt.Errorf("failed to insert pool: %w", err)
	}

	for i, m := range members {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO pool_members (pool_id, ship_id, cb_before, cb_after, position)
			VALUES ($1, $2, $3, $4, $5)`,
			pool.ID, m.ShipID, m.CbBefore, m.CbAfter, i); err != nil {
			return nil, fmt.Errorf("failed to insert pool member %s: %w", m.ShipID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit pool: %w", err)
	}
	return pool, nil
}

func (r *postgresRepository) ListPools(ctx context.Context, year int) ([]Pool, error) {
	pools := []Pool{}
	err := r.db.SelectContext(ctx, &pools,
		"SELECT id, year, created_at FROM pools WHERE year = $1 ORDER BY created_at DESC, id DESC", year)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}
	return pools, nil
}

func (r *postgresRepository) GetPool(ctx context.Context, id int64) (*Pool, error) {
	var pool Pool
	err := r.db.GetContext(ctx, &pool, "SELECT id, year, created_at FROM pools WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	return &pool, nil
}

func (r *postgresRepository) ListMembers(ctx context.Context, poolID int64) ([]PoolMember, error) {
	members := []PoolMember{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT pool_id, ship_id, cb_before, cb_after
		FROM pool_members
		WHERE pool_id = $1
		ORDER BY position`, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pool members: %w", err)
	}
	return members, nil
}
