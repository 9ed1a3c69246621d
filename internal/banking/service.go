package banking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"carbon-scribe/fueleu-compliance/compliance-backend/internal/compliance"
	"carbon-scribe/fueleu-compliance/compliance-backend/internal/export"
	"carbon-scribe/fueleu-compliance/compliance-backend/internal/metrics"
)

// BalanceSource reads the current stored CB of a ship-year.
type BalanceSource interface {
	GetCB(ctx context.Context, shipID string, year int) (*compliance.ComplianceBalance, error)
}

// Service provides the banking use cases on top of the ledger
type Service struct {
	repo     Repository
	ledger   *Ledger
	locker   Locker
	balances BalanceSource
	logger   *zap.Logger
}

// NewService creates a new banking service
func NewService(repo Repository, locker Locker, balances BalanceSource, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		ledger:   NewLedger(repo),
		locker:   locker,
		balances: balances,
		logger:   logger,
	}
}

// BankSurplus banks amount for a ship-year whose current CB is positive.
func (s *Service) BankSurplus(ctx context.Context, req *OperationRequest) (entry *BankEntry, err error) {
	defer func() { metrics.RecordBankingOperation("bank", err) }()

	if err := ValidateAmount(*req.Amount); err != nil {
		return nil, err
	}

	cb, err := s.balances.GetCB(ctx, req.ShipID, req.Year)
	if errors.Is(err, compliance.ErrNotFound) {
		return nil, fmt.Errorf("%w: no compliance balance for %s in %d", ErrNonPositiveCB, req.ShipID, req.Year)
	}
	if err != nil {
		return nil, err
	}
	if cb.CBGCO2eq <= 0 {
		return nil, fmt.Errorf("%w: current CB is %v", ErrNonPositiveCB, cb.CBGCO2eq)
	}

	entry, err = s.ledger.Bank(ctx, req.ShipID, req.Year, *req.Amount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Surplus banked",
		zap.String("ship_id", req.ShipID),
		zap.Int("year", req.Year),
		zap.Float64("amount", *req.Amount))

	return entry, nil
}

// ApplyBanked reads the available balance, validates and appends the applied
// amount as one unit serialised per ship.
func (s *Service) ApplyBanked(ctx context.Context, req *OperationRequest) (result *ApplyResult, err error) {
	defer func() { metrics.RecordBankingOperation("apply", err) }()

	amount := *req.Amount
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, req.ShipID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var available float64
	err = s.repo.WithShipLock(ctx, req.ShipID, func(tx Store) error {
		ledger := NewLedger(tx)

		var err error
		available, err = ledger.AvailableBanked(ctx, req.ShipID, req.Year)
		if err != nil {
			return err
		}
		return ledger.Apply(ctx, req.ShipID, req.Year, amount, available)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Banked surplus applied",
		zap.String("ship_id", req.ShipID),
		zap.Int("year", req.Year),
		zap.Float64("amount", amount),
		zap.Float64("available_before", available))

	return &ApplyResult{
		Message:   "Banked surplus applied",
		ShipID:    req.ShipID,
		Year:      req.Year,
		Amount:    amount,
		Available: available - amount,
	}, nil
}

// AvailableBanked satisfies compliance.BankedBalance.
func (s *Service) AvailableBanked(ctx context.Context, shipID string, year int) (float64, error) {
	return s.ledger.AvailableBanked(ctx, shipID, year)
}

// Records returns the entries of exactly year, most recent first
func (s *Service) Records(ctx context.Context, shipID string, year int) ([]BankEntry, error) {
	return s.ledger.Records(ctx, shipID, year)
}

// ExportRecords renders Records as a statement in the requested format.
func (s *Service) ExportRecords(ctx context.Context, shipID string, year int, format export.Format) ([]byte, error) {
	records, err := s.Records(ctx, shipID, year)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, len(records))
	for i, r := range records {
		rows[i] = []interface{}{r.ID, r.ShipID, r.Year, r.AmountGCO2eq, r.CreatedAt}
	}

	return export.Render(format, "Bank Entries",
		[]string{"Entry ID", "Ship ID", "Year", "Amount (gCO2eq)", "Created At"}, rows)
}
