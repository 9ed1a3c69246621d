package pooling

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"carbon-scribe/fueleu-compliance/compliance-backend/internal/export"
	"carbon-scribe/fueleu-compliance/compliance-backend/internal/metrics"
)

// Service provides pool creation and lookup
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new pooling service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreatePool allocates the members and stores the pool. Nothing is stored
// when allocation fails.
func (s *Service) CreatePool(ctx context.Context, req *CreatePoolRequest) (result *PoolResult, err error) {
	defer func() { metrics.RecordPoolCreated(err) }()

	seen := make(map[string]struct{}, len(req.Members))
	members := make([]Member, len(req.Members))
	for i, m := range req.Members {
		if _, dup := seen[m.ShipID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMember, m.ShipID)
		}
		seen[m.ShipID] = struct{}{}
		members[i] = Member{ShipID: m.ShipID, CbBefore: *m.CbBefore}
	}

	result, err = Allocate(req.Year, members)
	if err != nil {
		return nil, err
	}

	pool, err := s.repo.CreatePool(ctx, req.Year, result.Members)
	if err != nil {
		s.logger.Error("Failed to store pool", zap.Error(err), zap.Int("year", req.Year))
		return nil, err
	}
	result.PoolID = pool.ID

	s.logger.Info("Pool created",
		zap.Int64("pool_id", pool.ID),
		zap.Int("year", req.Year),
		zap.Int("members", len(result.Members)),
		zap.Float64("total_cb", result.TotalCbAfter))

	return result, nil
}

// ListPools returns the pools of a year, most recent first
func (s *Service) ListPools(ctx context.Context, year int) ([]Pool, error) {
	return s.repo.ListPools(ctx, year)
}

// GetPool returns a pool with its members in allocation order
func (s *Service) GetPool(ctx context.Context, id int64) (*PoolDetail, error) {
	pool, err := s.repo.GetPool(ctx, id)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	members, err := s.repo.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	before, after := decimal.Zero, decimal.Zero
	for _, m := range members {
		before = before.Add(decimal.NewFromFloat(m.CbBefore))
		after = after.Add(decimal.NewFromFloat(m.CbAfter))
	}

	return &PoolDetail{
		Pool:          *pool,
		Members:       members,
		TotalCbBefore: before.InexactFloat64(),
		TotalCbAfter:  after.InexactFloat64(),
	}, nil
}

// ExportPool renders a pool's members as a statement in the requested format
func (s *Service) ExportPool(ctx context.Context, id int64, format export.Format) ([]byte, error) {
	detail, err := s.GetPool(ctx, id)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, len(detail.Members))
	for i, m := range detail.Members {
		rows[i] = []interface{}{detail.ID, detail.Year, m.ShipID, m.CbBefore, m.CbAfter}
	}

	return export.Render(format, "Pool Members",
		[]string{"Pool ID", "Year", "Ship ID", "CB Before (gCO2eq)", "CB After (gCO2eq)"}, rows)
}
