package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/pkg/errors"
)

type stationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewStationRepository(db *DB) repository.StationRepository {
	return &stationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *stationRepository) GetOrCreate(ctx context.Context, gen uuid.UUID, name, slug string) (*domain.Station, error) {
	// The no-op DO UPDATE turns the insert into an upsert that always
	// returns the row, existing or new.
	query := `
		INSERT INTO stations (generation, name, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (generation, name) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, name, COALESCE(slug, ''), line_ids
	`

	station := &domain.Station{}
	var lineIDs pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, gen, name, slug).
		Scan(&station.ID, &station.Name, &station.Slug, &lineIDs)
	if err != nil {
		r.logger.Error("Failed to get or create station", zap.String("name", name), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	station.LineIDs = []int64(lineIDs)
	return station, nil
}

func (r *stationRepository) Update(ctx context.Context, gen uuid.UUID, station *domain.Station) error {
	query := `
		UPDATE stations
		SET slug = $1, line_ids = COALESCE($2, '{}')
		WHERE id = $3 AND generation = $4
	`

	_, err := r.db.ExecContext(ctx, query,
		station.Slug, pq.Array(station.LineIDs), station.ID, gen,
	)
	if err != nil {
		r.logger.Error("Failed to update station", zap.Int64("id", station.ID), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *stationRepository) List(ctx context.Context, gen uuid.UUID) ([]*domain.Station, error) {
	query := `
		SELECT id, name, COALESCE(slug, ''), line_ids
		FROM stations
		WHERE generation = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, gen)
	if err != nil {
		r.logger.Error("Failed to list stations", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var stations []*domain.Station
	for rows.Next() {
		station := &domain.Station{}
		var lineIDs pq.Int64Array
		if err := rows.Scan(&station.ID, &station.Name, &station.Slug, &lineIDs); err != nil {
			r.logger.Error("Failed to scan station", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
		station.LineIDs = []int64(lineIDs)
		stations = append(stations, station)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrDatabaseError
	}
	return stations, nil
}
