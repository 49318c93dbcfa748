package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/repository/postgres"
)

// NewLineRepositoryForTest creates a line repository with test database and logger
func NewLineRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.LineRepository {
	return postgres.NewLineRepository(postgres.NewDBForTest(db, logger))
}

// NewStopRepositoryForTest creates a stop repository with test database and logger
func NewStopRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.StopRepository {
	return postgres.NewStopRepository(postgres.NewDBForTest(db, logger))
}

// NewStationRepositoryForTest creates a station repository with test database and logger
func NewStationRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.StationRepository {
	return postgres.NewStationRepository(postgres.NewDBForTest(db, logger))
}

// NewGenerationRepositoryForTest creates a generation repository with test database and logger
func NewGenerationRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.GenerationRepository {
	return postgres.NewGenerationRepository(postgres.NewDBForTest(db, logger))
}
