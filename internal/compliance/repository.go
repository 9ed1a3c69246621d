package compliance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Repository persists compliance balances keyed by (ship_id, year)
type Repository interface {
	SaveCB(ctx context.Context, cb *ComplianceBalance) error
	FindCB(ctx context.Context, shipID string, year int) (*ComplianceBalance, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) SaveCB(ctx context.Context, cb *ComplianceBalance) error {
	query := `
		INSERT INTO ship_compliance (
			ship_id, year, cb_gco2eq, target_intensity, actual_intensity, energy_in_scope
		) VALUES (
			:ship_id, :year, :cb_gco2eq, :target_intensity, :actual_intensity, :energy_in_scope
		)
		ON CONFLICT (ship_id, year) DO UPDATE SET
			cb_gco2eq = EXCLUDED.cb_gco2eq,
			target_intensity = EXCLUDED.target_intensity,
			actual_intensity = EXCLUDED.actual_intensity,
			energy_in_scope = EXCLUDED.energy_in_scope,
			updated_at = NOW()`
	_, err := r.db.NamedExecContext(ctx, query, cb)
	return err
}

func (r *postgresRepository) FindCB(ctx context.Context, shipID string, year int) (*ComplianceBalance, error) {
	var cb ComplianceBalance
	err := r.db.GetContext(ctx, &cb, `
		SELECT ship_id, year, cb_gco2eq, target_intensity, actual_intensity, energy_in_scope, updated_at
		FROM ship_compliance
		WHERE ship_id = $1 AND year = $2`, shipID, year)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cb, nil
}
