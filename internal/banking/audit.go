package banking

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"carbon-scribe/fueleu-compliance/compliance-backend/internal/metrics"
)

// Auditor periodically scans the ledger for ship-years whose available banked
// balance went negative, which can only happen if a writer bypassed the ship lock.
type Auditor struct {
	repo     Repository
	cron     *cron.Cron
	schedule string
	logger   *zap.Logger
	mu       sync.Mutex
	running  bool
}

// NewAuditor creates an auditor for the given cron schedule. An empty schedule disables it.
func NewAuditor(repo Repository, schedule string, logger *zap.Logger) *Auditor {
	return &Auditor{
		repo:     repo,
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the audit job and starts the scheduler
func (a *Auditor) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.schedule == "" {
		a.logger.Info("Ledger audit disabled")
		return nil
	}
	if a.running {
		return fmt.Errorf("ledger auditor already running")
	}

	if _, err := a.cron.AddFunc(a.schedule, func() {
		_, _ = a.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid audit schedule %q: %w", a.schedule, err)
	}

	a.cron.Start()
	a.running = true
	a.logger.Info("Ledger audit scheduled", zap.String("schedule", a.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running audit to finish
func (a *Auditor) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	<-a.cron.Stop().Done()
	a.running = false
}

// RunOnce performs a single audit pass
func (a *Auditor) RunOnce(ctx context.Context) ([]Overdraft, error) {
	overdrafts, err := a.repo.ListOverdrawn(ctx)
	if err != nil {
		a.logger.Error("Ledger audit failed", zap.Error(err))
		return nil, err
	}

	metrics.RecordLedgerOverdrawn(len(overdrafts))
	for _, o := range overdrafts {
		a.logger.Warn("Banked balance overdrawn",
			zap.String("ship_id", o.ShipID),
			zap.Int("year", o.Year),
			zap.Float64("available", o.Available))
	}

	a.logger.Info("Ledger audit completed", zap.Int("overdrawn", len(overdrafts)))
	return overdrafts, nil
}
