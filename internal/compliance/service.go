package compliance

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"carbon-scribe/fueleu-compliance/compliance-backend/internal/metrics"
)

// BankedBalance reports the surplus a ship has banked up to and including a year.
type BankedBalance interface {
	AvailableBanked(ctx context.Context, shipID string, year int) (float64, error)
}

// Service computes, stores and reads compliance balances
type Service struct {
	repo       Repository
	calculator Calculator
	banked     BankedBalance
	logger     *zap.Logger
}

// NewService creates a new compliance service
func NewService(repo Repository, calculator Calculator, banked BankedBalance, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		calculator: calculator,
		banked:     banked,
		logger:     logger,
	}
}

// ComputeAndSave computes the CB with the configured constants and upserts it.
func (s *Service) ComputeAndSave(ctx context.Context, req *ComputeRequest) (*ComplianceBalance, error) {
	cb := s.calculator.Compute(req.ShipID, req.Year, *req.ActualIntensity, *req.FuelConsumption)

	if err := s.repo.SaveCB(ctx, &cb); err != nil {
		return nil, fmt.Errorf("failed to save compliance balance: %w", err)
	}
	metrics.RecordCBComputed()

	s.logger.Info("Compliance balance computed",
		zap.String("ship_id", cb.ShipID),
		zap.Int("year", cb.Year),
		zap.Float64("cb_gco2eq", cb.CBGCO2eq))

	return &cb, nil
}

// GetCB returns the stored CB or ErrNotFound
func (s *Service) GetCB(ctx context.Context, shipID string, year int) (*ComplianceBalance, error) {
	cb, err := s.repo.FindCB(ctx, shipID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load compliance balance: %w", err)
	}
	if cb == nil {
		return nil, ErrNotFound
	}
	return cb, nil
}

// GetAdjustedCB adds the ship's available banked surplus to its stored CB.
func (s *Service) GetAdjustedCB(ctx context.Context, shipID string, year int) (*AdjustedComplianceBalance, error) {
	cb, err := s.GetCB(ctx, shipID, year)
	if err != nil {
		return nil, err
	}

	banked, err := s.banked.AvailableBanked(ctx, shipID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load banked balance: %w", err)
	}

	return &AdjustedComplianceBalance{
		ShipID:           shipID,
		Year:             year,
		CBGCO2eq:         cb.CBGCO2eq,
		BankedApplied:    banked,
		AdjustedCBGCO2eq: cb.CBGCO2eq + banked,
	}, nil
}
