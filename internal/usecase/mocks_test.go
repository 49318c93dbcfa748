package usecase_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/railatlas-loader/internal/domain"
)

// MockLineRepository is a mock of LineRepository
type MockLineRepository struct {
	mock.Mock
}

func (m *MockLineRepository) Create(ctx context.Context, gen uuid.UUID, line *domain.Line) error {
	args := m.Called(ctx, gen, line)
	return args.Error(0)
}

func (m *MockLineRepository) Update(ctx context.Context, gen uuid.UUID, line *domain.Line) error {
	args := m.Called(ctx, gen, line)
	return args.Error(0)
}

func (m *MockLineRepository) List(ctx context.Context, gen uuid.UUID) ([]*domain.Line, error) {
	args := m.Called(ctx, gen)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Line), args.Error(1)
}

func (m *MockLineRepository) GetByName(ctx context.Context, gen uuid.UUID, name string) (*domain.Line, error) {
	args := m.Called(ctx, gen, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Line), args.Error(1)
}

func (m *MockLineRepository) DuplicateNames(ctx context.Context, gen uuid.UUID) ([]string, error) {
	args := m.Called(ctx, gen)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLineRepository) IDsByName(ctx context.Context, gen uuid.UUID, name string) ([]int64, error) {
	args := m.Called(ctx, gen, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockLineRepository) UnionByName(ctx context.Context, gen uuid.UUID, name string, srid int) (domain.Geometry, error) {
	args := m.Called(ctx, gen, name, srid)
	return args.Get(0).(domain.Geometry), args.Error(1)
}

func (m *MockLineRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// MockStopRepository is a mock of StopRepository
type MockStopRepository struct {
	mock.Mock
}

func (m *MockStopRepository) Create(ctx context.Context, gen uuid.UUID, stop *domain.Stop) error {
	args := m.Called(ctx, gen, stop)
	return args.Error(0)
}

func (m *MockStopRepository) Update(ctx context.Context, gen uuid.UUID, stop *domain.Stop) error {
	args := m.Called(ctx, gen, stop)
	return args.Error(0)
}

func (m *MockStopRepository) List(ctx context.Context, gen uuid.UUID) ([]*domain.Stop, error) {
	args := m.Called(ctx, gen)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Stop), args.Error(1)
}

// MockStationRepository is a mock of StationRepository
type MockStationRepository struct {
	mock.Mock
}

func (m *MockStationRepository) GetOrCreate(ctx context.Context, gen uuid.UUID, name, slug string) (*domain.Station, error) {
	args := m.Called(ctx, gen, name, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Station), args.Error(1)
}

func (m *MockStationRepository) Update(ctx context.Context, gen uuid.UUID, station *domain.Station) error {
	args := m.Called(ctx, gen, station)
	return args.Error(0)
}

func (m *MockStationRepository) List(ctx context.Context, gen uuid.UUID) ([]*domain.Station, error) {
	args := m.Called(ctx, gen)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Station), args.Error(1)
}

// stubTransformer tags geometries with the target SRID without changing
// coordinates. Transform determinism is all the engines rely on.
type stubTransformer struct {
	fn    func(g domain.Geometry, targetSRID int) (domain.Geometry, error)
	calls []int
}

func (s *stubTransformer) Transform(_ context.Context, g domain.Geometry, targetSRID int) (domain.Geometry, error) {
	s.calls = append(s.calls, targetSRID)
	if s.fn != nil {
		return s.fn(g, targetSRID)
	}
	return domain.Geometry{SRID: targetSRID, Geom: g.Geom}, nil
}

// stubSimplifier returns a fixed geometry, standing in for a reduction
// primitive that may structurally degenerate its input.
type stubSimplifier struct {
	result domain.Geometry
	calls  int
}

func (s *stubSimplifier) Simplify(g domain.Geometry, tolerance float64) domain.Geometry {
	s.calls++
	if s.result.Geom != nil {
		return domain.Geometry{SRID: g.SRID, Geom: s.result.Geom}
	}
	return g
}
