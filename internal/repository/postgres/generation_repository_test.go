package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/suite"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/repository/postgres/testhelpers"
)

// GenerationRepositoryTestSuite tests the shadow-dataset generation
// lifecycle against a live database
type GenerationRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.GenerationRepository
	lines  repository.LineRepository
	stops  repository.StopRepository
	ctx    context.Context
}

func (s *GenerationRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.repo = testhelpers.NewGenerationRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.lines = testhelpers.NewLineRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.stops = testhelpers.NewStopRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *GenerationRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

// SetupTest starts every test from an empty store
func (s *GenerationRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *GenerationRepositoryTestSuite) seedLine(gen uuid.UUID, name string) {
	line := domain.NewLine(name)
	geom := orb.MultiLineString{{{6500000, 1800000}, {6501000, 1801000}}}
	s.Require().NoError(line.Geometries.SetGeometry(domain.LineCanonicalSRID, geom))
	s.Require().NoError(s.lines.Create(s.ctx, gen, line))
}

func (s *GenerationRepositoryTestSuite) TestActive_EmptyStore() {
	gen, err := s.repo.Active(s.ctx)
	s.Require().NoError(err)
	s.Equal(uuid.Nil, gen)
}

func (s *GenerationRepositoryTestSuite) TestActivate_FlipsThePointer() {
	first := uuid.New()
	s.Require().NoError(s.repo.Activate(s.ctx, first))

	active, err := s.repo.Active(s.ctx)
	s.Require().NoError(err)
	s.Equal(first, active)

	// A second activation replaces the pointer row rather than adding one.
	second := uuid.New()
	s.Require().NoError(s.repo.Activate(s.ctx, second))

	active, err = s.repo.Active(s.ctx)
	s.Require().NoError(err)
	s.Equal(second, active)

	var rows int
	s.Require().NoError(s.testDB.DB.Get(&rows, "SELECT COUNT(*) FROM active_generation"))
	s.Equal(1, rows)
}

func (s *GenerationRepositoryTestSuite) TestDrop_RemovesOnlyItsGeneration() {
	kept, dropped := uuid.New(), uuid.New()
	s.seedLine(kept, "Gold")
	s.seedLine(dropped, "Gold")
	stop := domain.NewStop(100, "UNION STATION")
	s.Require().NoError(s.stops.Create(s.ctx, dropped, stop))

	s.Require().NoError(s.repo.Drop(s.ctx, dropped))

	remaining, err := s.lines.List(s.ctx, kept)
	s.Require().NoError(err)
	s.Len(remaining, 1)

	gone, err := s.lines.List(s.ctx, dropped)
	s.Require().NoError(err)
	s.Empty(gone)

	stops, err := s.stops.List(s.ctx, dropped)
	s.Require().NoError(err)
	s.Empty(stops)
}

func (s *GenerationRepositoryTestSuite) TestPurge_KeepsOnlyTheGivenGeneration() {
	kept, stale := uuid.New(), uuid.New()
	s.seedLine(kept, "Gold")
	s.seedLine(stale, "Gold")
	s.seedLine(stale, "Red")

	s.Require().NoError(s.repo.Purge(s.ctx, kept))

	remaining, err := s.lines.List(s.ctx, kept)
	s.Require().NoError(err)
	s.Len(remaining, 1)

	gone, err := s.lines.List(s.ctx, stale)
	s.Require().NoError(err)
	s.Empty(gone)
}

func TestGenerationRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GenerationRepositoryTestSuite))
}
