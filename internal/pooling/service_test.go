package pooling

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"carbon-scribe/fueleu-compliance/compliance-backend/internal/export"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreatePool(ctx context.Context, year int, members []AllocatedMember) (*Pool, error) {
	args := m.Called(ctx, year, members)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Pool), args.Error(1)
}

func (m *MockRepository) ListPools(ctx context.Context, year int) ([]Pool, error) {
	args := m.Called(ctx, year)
	return args.Get(0).([]Pool), args.Error(1)
}

func (m *MockRepository) GetPool(ctx context.Context, id int64) (*Pool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Pool), args.Error(1)
}

func (m *MockRepository) ListMembers(ctx context.Context, poolID int64) ([]PoolMember, error) {
	args := m.Called(ctx, poolID)
	return args.Get(0).([]PoolMember), args.Error(1)
}

func floatPtr(v float64) *float64 { return &v }

func poolRequest(year int, members ...MemberRequest) *CreatePoolRequest {
	return &CreatePoolRequest{Year: year, Members: members}
}

func member(shipID string, cb float64) MemberRequest {
	return MemberRequest{ShipID: shipID, CbBefore: floatPtr(cb)}
}

var testPool = &Pool{ID: 11, Year: 2025, CreatedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)}

func TestCreatePool(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("CreatePool", mock.Anything, 2025, []AllocatedMember{
		{ShipID: "SHIP001", CbBefore: 1000, CbAfter: 600},
		{ShipID: "SHIP002", CbBefore: -400, CbAfter: 0},
	}).Return(testPool, nil)

	result, err := service.CreatePool(context.Background(), poolRequest(2025, member("SHIP002", -400), member("SHIP001", 1000)))

	require.NoError(t, err)
	assert.Equal(t, int64(11), result.PoolID)
	assert.True(t, result.Valid)
	repo.AssertExpectations(t)
}

func TestCreatePoolStoresNothingOnFailure(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	_, err := service.CreatePool(context.Background(), poolRequest(2025, member("SHIP001", -1000), member("SHIP002", -500)))
	assert.ErrorIs(t, err, ErrNegativePoolTotal)

	_, err = service.CreatePool(context.Background(), poolRequest(2025, member("SHIP001", 10), member("SHIP001", -5)))
	assert.ErrorIs(t, err, ErrDuplicateMember)

	repo.AssertNotCalled(t, "CreatePool", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePoolRepositoryFailure(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())
	failure := errors.New("connection reset")

	repo.On("CreatePool", mock.Anything, 2025, mock.Anything).Return(nil, failure)

	result, err := service.CreatePool(context.Background(), poolRequest(2025, member("SHIP001", 10)))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, failure)
}

func TestGetPool(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("GetPool", mock.Anything, int64(11)).Return(testPool, nil)
	repo.On("ListMembers", mock.Anything, int64(11)).Return([]PoolMember{
		{PoolID: 11, ShipID: "SHIP001", CbBefore: 1000, CbAfter: 600},
		{PoolID: 11, ShipID: "SHIP002", CbBefore: -400, CbAfter: 0},
	}, nil)

	detail, err := service.GetPool(context.Background(), 11)

	require.NoError(t, err)
	assert.Equal(t, 2025, detail.Year)
	assert.Len(t, detail.Members, 2)
	assert.Equal(t, 600.0, detail.TotalCbBefore)
	assert.Equal(t, 600.0, detail.TotalCbAfter)
}

func TestGetPoolTotalsMatchCreation(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	created, err := Allocate(2025, []Member{
		{ShipID: "SHIP001", CbBefore: 0.1},
		{ShipID: "SHIP002", CbBefore: 0.2},
		{ShipID: "SHIP003", CbBefore: -0.3},
	})
	require.NoError(t, err)

	stored := make([]PoolMember, len(created.Members))
	for i, m := range created.Members {
		stored[i] = PoolMember{PoolID: 11, ShipID: m.ShipID, CbBefore: m.CbBefore, CbAfter: m.CbAfter}
	}
	repo.On("GetPool", mock.Anything, int64(11)).Return(testPool, nil)
	repo.On("ListMembers", mock.Anything, int64(11)).Return(stored, nil)

	detail, err := service.GetPool(context.Background(), 11)

	require.NoError(t, err)
	assert.Equal(t, created.TotalCbBefore, detail.TotalCbBefore)
	assert.Equal(t, created.TotalCbAfter, detail.TotalCbAfter)
	assert.Equal(t, 0.0, detail.TotalCbBefore)
}

func TestGetPoolNotFound(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("GetPool", mock.Anything, int64(99)).Return(nil, nil)

	_, err := service.GetPool(context.Background(), 99)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportPool(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("GetPool", mock.Anything, int64(11)).Return(testPool, nil)
	repo.On("ListMembers", mock.Anything, int64(11)).Return([]PoolMember{
		{PoolID: 11, ShipID: "SHIP001", CbBefore: 1000, CbAfter: 600},
	}, nil)

	data, err := service.ExportPool(context.Background(), 11, export.FormatXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Pool Members", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SHIP001", rows[1][2])
	assert.Equal(t, "600", rows[1][4])
}
