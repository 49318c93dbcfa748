package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/pkg/errors"
)

type generationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewGenerationRepository(db *DB) repository.GenerationRepository {
	return &generationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *generationRepository) Activate(ctx context.Context, gen uuid.UUID) error {
	query := `
		INSERT INTO active_generation (id, generation)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET generation = EXCLUDED.generation
	`

	if _, err := r.db.ExecContext(ctx, query, gen); err != nil {
		r.logger.Error("Failed to activate generation", zap.String("generation", gen.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	r.logger.Info("Generation activated", zap.String("generation", gen.String()))
	return nil
}

func (r *generationRepository) Active(ctx context.Context) (uuid.UUID, error) {
	var gen uuid.UUID
	err := r.db.QueryRowContext(ctx, "SELECT generation FROM active_generation WHERE id = 1").Scan(&gen)
	if err == sql.ErrNoRows {
		return uuid.Nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to read active generation", zap.Error(err))
		return uuid.Nil, errors.ErrDatabaseError
	}
	return gen, nil
}

func (r *generationRepository) Purge(ctx context.Context, keep uuid.UUID) error {
	return r.deleteWhere(ctx, "generation <> $1", keep)
}

func (r *generationRepository) Drop(ctx context.Context, gen uuid.UUID) error {
	return r.deleteWhere(ctx, "generation = $1", gen)
}

func (r *generationRepository) deleteWhere(ctx context.Context, cond string, arg uuid.UUID) error {
	// Stops go first so their station references never dangle mid-delete.
	for _, table := range []string{"stops", "stations", "lines"} {
		query := "DELETE FROM " + table + " WHERE " + cond
		if _, err := r.db.ExecContext(ctx, query, arg); err != nil {
			r.logger.Error("Failed to delete generation rows",
				zap.String("table", table),
				zap.String("generation", arg.String()),
				zap.Error(err),
			)
			return errors.ErrDatabaseError
		}
	}
	return nil
}
