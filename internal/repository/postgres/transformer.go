package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/paulmach/orb/encoding/ewkb"
	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/pkg/errors"
)

type postgisTransformer struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewTransformer returns the ST_Transform-backed CRS primitive. PostGIS
// does the projection math; the loader only routes geometries through it.
func NewTransformer(db *DB) repository.Transformer {
	return &postgisTransformer{
		db:     db.DB,
		logger: db.logger,
	}
}

func (t *postgisTransformer) Transform(ctx context.Context, g domain.Geometry, targetSRID int) (domain.Geometry, error) {
	if g.IsEmpty() {
		return domain.Geometry{SRID: targetSRID}, nil
	}
	if g.SRID == targetSRID {
		return g, nil
	}

	scanner := ewkb.Scanner(nil)
	err := t.db.QueryRowContext(ctx,
		"SELECT ST_AsEWKB(ST_Transform(ST_GeomFromEWKB($1), $2))",
		ewkb.Value(g.Geom, g.SRID), targetSRID,
	).Scan(scanner)
	if err != nil {
		t.logger.Error("Failed to transform geometry",
			zap.Int("source_srid", g.SRID),
			zap.Int("target_srid", targetSRID),
			zap.Error(err),
		)
		return domain.Geometry{}, errors.ErrDatabaseError
	}
	if !scanner.Valid {
		return domain.Geometry{SRID: targetSRID}, nil
	}
	return domain.Geometry{SRID: targetSRID, Geom: scanner.Geometry}, nil
}
