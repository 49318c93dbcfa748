package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/paulmach/orb/encoding/ewkb"
	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/pkg/errors"
)

type stopRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewStopRepository(db *DB) repository.StopRepository {
	return &stopRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *stopRepository) Create(ctx context.Context, gen uuid.UUID, stop *domain.Stop) error {
	cols := []string{"generation", "stop_id", "name", "slug", "line_ids"}
	args := []interface{}{gen, stop.StopID, stop.Name, stop.Slug, pq.Array(stop.LineIDs)}
	exprs := []string{"$1", "$2", "$3", "$4", "COALESCE($5, '{}')"}

	for _, srid := range stop.Geometries.SRIDs() {
		cols = append(cols, stopColumn(srid))
		args = append(args, geomArg(stop.Geometries.Geometry(srid)))
		exprs = append(exprs, fmt.Sprintf("ST_GeomFromEWKB($%d)", len(args)))
	}

	query := fmt.Sprintf(
		"INSERT INTO stops (%s) VALUES (%s) RETURNING id",
		strings.Join(cols, ", "),
		strings.Join(exprs, ", "),
	)

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&stop.ID); err != nil {
		r.logger.Error("Failed to create stop", zap.Int("stop_id", stop.StopID), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *stopRepository) Update(ctx context.Context, gen uuid.UUID, stop *domain.Stop) error {
	query := `
		UPDATE stops
		SET name = $1, slug = $2, station_id = $3, line_ids = COALESCE($4, '{}')
		WHERE id = $5 AND generation = $6
	`

	_, err := r.db.ExecContext(ctx, query,
		stop.Name, stop.Slug, stop.StationID, pq.Array(stop.LineIDs), stop.ID, gen,
	)
	if err != nil {
		r.logger.Error("Failed to update stop", zap.Int64("id", stop.ID), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *stopRepository) List(ctx context.Context, gen uuid.UUID) ([]*domain.Stop, error) {
	cols := []string{"id", "stop_id", "name", "COALESCE(slug, '')", "station_id", "line_ids"}
	for _, srid := range domain.StopSRIDs {
		cols = append(cols, "ST_AsEWKB("+stopColumn(srid)+")")
	}
	query := fmt.Sprintf(
		"SELECT %s FROM stops WHERE generation = $1 ORDER BY stop_id, id",
		strings.Join(cols, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, gen)
	if err != nil {
		r.logger.Error("Failed to list stops", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var stops []*domain.Stop
	for rows.Next() {
		stop := domain.NewStop(0, "")
		var lineIDs pq.Int64Array
		dest := []interface{}{&stop.ID, &stop.StopID, &stop.Name, &stop.Slug, &stop.StationID, &lineIDs}

		scanners := make([]*ewkb.GeometryScanner, 0, len(domain.StopSRIDs))
		for range domain.StopSRIDs {
			s := ewkb.Scanner(nil)
			scanners = append(scanners, s)
			dest = append(dest, s)
		}

		if err := rows.Scan(dest...); err != nil {
			r.logger.Error("Failed to scan stop", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}

		stop.LineIDs = []int64(lineIDs)
		for i, srid := range domain.StopSRIDs {
			if scanners[i].Valid {
				_ = stop.Geometries.SetGeometry(srid, scanners[i].Geometry)
			}
		}
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrDatabaseError
	}
	return stops, nil
}
