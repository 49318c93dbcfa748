package postgres

import (
	"context"
	"database/sql"
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

type lineRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLineRepository(db *DB) repository.LineRepository {
	return &lineRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *lineRepository) Create(ctx context.Context, gen uuid.UUID, line *domain.Line) error {
	cols := []string{"generation", "name", "slug"}
	args := []interface{}{gen, line.Name, line.Slug}
	exprs := []string{"$1", "$2", "$3"}

	for _, srid := range line.Geometries.SRIDs() {
		cols = append(cols, lineColumn(srid))
		args = append(args, geomArg(line.Geometries.Geometry(srid)))
		exprs = append(exprs, fmt.Sprintf("ST_GeomFromEWKB($%d)", len(args)))

		cols = append(cols, simpleLineColumn(srid))
		args = append(args, geomArg(line.Geometries.Simplified(srid)))
		exprs = append(exprs, fmt.Sprintf("ST_GeomFromEWKB($%d)", len(args)))
	}

	query := fmt.Sprintf(
		"INSERT INTO lines (%s) VALUES (%s) RETURNING id",
		strings.Join(cols, ", "),
		strings.Join(exprs, ", "),
	)

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&line.ID); err != nil {
		r.logger.Error("Failed to create line", zap.String("name", line.Name), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *lineRepository) Update(ctx context.Context, gen uuid.UUID, line *domain.Line) error {
	sets := []string{"slug = $1"}
	args := []interface{}{line.Slug}

	for _, srid := range line.Geometries.SRIDs() {
		args = append(args, geomArg(line.Geometries.Geometry(srid)))
		sets = append(sets, fmt.Sprintf("%s = ST_GeomFromEWKB($%d)", lineColumn(srid), len(args)))

		args = append(args, geomArg(line.Geometries.Simplified(srid)))
		sets = append(sets, fmt.Sprintf("%s = ST_GeomFromEWKB($%d)", simpleLineColumn(srid), len(args)))
	}

	args = append(args, line.ID, gen)
	query := fmt.Sprintf(
		"UPDATE lines SET %s WHERE id = $%d AND generation = $%d",
		strings.Join(sets, ", "), len(args)-1, len(args),
	)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to update line", zap.Int64("id", line.ID), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func lineSelectColumns() string {
	cols := []string{"id", "name", "COALESCE(slug, '')"}
	for _, srid := range domain.LineSRIDs {
		cols = append(cols, "ST_AsEWKB("+lineColumn(srid)+")")
		cols = append(cols, "ST_AsEWKB("+simpleLineColumn(srid)+")")
	}
	return strings.Join(cols, ", ")
}

func scanLine(row interface{ Scan(...interface{}) error }) (*domain.Line, error) {
	line := domain.NewLine("")
	dest := []interface{}{&line.ID, &line.Name, &line.Slug}

	full := make([]*ewkb.GeometryScanner, 0, len(domain.LineSRIDs))
	simple := make([]*ewkb.GeometryScanner, 0, len(domain.LineSRIDs))
	for range domain.LineSRIDs {
		fs, ss := ewkb.Scanner(nil), ewkb.Scanner(nil)
		full = append(full, fs)
		simple = append(simple, ss)
		dest = append(dest, fs, ss)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	for i, srid := range domain.LineSRIDs {
		if full[i].Valid {
			_ = line.Geometries.SetGeometry(srid, full[i].Geometry)
		}
		if simple[i].Valid {
			_ = line.Geometries.SetSimplified(srid, simple[i].Geometry)
		}
	}
	return line, nil
}

func (r *lineRepository) List(ctx context.Context, gen uuid.UUID) ([]*domain.Line, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM lines WHERE generation = $1 ORDER BY name, id",
		lineSelectColumns(),
	)

	rows, err := r.db.QueryContext(ctx, query, gen)
	if err != nil {
		r.logger.Error("Failed to list lines", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var lines []*domain.Line
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			r.logger.Error("Failed to scan line", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrDatabaseError
	}
	return lines, nil
}

func (r *lineRepository) GetByName(ctx context.Context, gen uuid.UUID, name string) (*domain.Line, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM lines WHERE generation = $1 AND name = $2",
		lineSelectColumns(),
	)

	line, err := scanLine(r.db.QueryRowContext(ctx, query, gen, name))
	if err == sql.ErrNoRows {
		return nil, errors.ErrLineNotFound.WithDetails(map[string]interface{}{"name": name})
	}
	if err != nil {
		r.logger.Error("Failed to get line by name", zap.String("name", name), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return line, nil
}

func (r *lineRepository) DuplicateNames(ctx context.Context, gen uuid.UUID) ([]string, error) {
	query := `
		SELECT name FROM lines
		WHERE generation = $1
		GROUP BY name
		HAVING COUNT(*) > 1
		ORDER BY name
	`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, gen); err != nil {
		r.logger.Error("Failed to find duplicate line names", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return names, nil
}

func (r *lineRepository) IDsByName(ctx context.Context, gen uuid.UUID, name string) ([]int64, error) {
	var ids []int64
	query := "SELECT id FROM lines WHERE generation = $1 AND name = $2 ORDER BY id"
	if err := r.db.SelectContext(ctx, &ids, query, gen, name); err != nil {
		r.logger.Error("Failed to list line IDs", zap.String("name", name), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return ids, nil
}

func (r *lineRepository) UnionByName(ctx context.Context, gen uuid.UUID, name string, srid int) (domain.Geometry, error) {
	// ST_Multi keeps the declared multi-part type when the union collapses
	// to a single linestring.
	query := fmt.Sprintf(
		"SELECT ST_AsEWKB(ST_Multi(ST_Union(%s))) FROM lines WHERE generation = $1 AND name = $2",
		lineColumn(srid),
	)

	scanner := ewkb.Scanner(nil)
	if err := r.db.QueryRowContext(ctx, query, gen, name).Scan(scanner); err != nil {
		r.logger.Error("Failed to union line geometries",
			zap.String("name", name),
			zap.Int("srid", srid),
			zap.Error(err),
		)
		return domain.Geometry{}, errors.ErrDatabaseError
	}
	if !scanner.Valid {
		return domain.Geometry{SRID: srid}, nil
	}
	return domain.Geometry{SRID: srid, Geom: scanner.Geometry}, nil
}

func (r *lineRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM lines WHERE id = ANY($1)", pq.Array(ids)); err != nil {
		r.logger.Error("Failed to delete lines", zap.Int64s("ids", ids), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}
