package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/domain/repository"
)

// SimplifyUseCase derives the low-vertex variant of every geometry field
// in a set. Tolerances are distances, so reduction always happens in the
// linear-unit reference system; results are reprojected back into each
// field's own SRID.
type SimplifyUseCase struct {
	transformer repository.Transformer
	simplifier  repository.Simplifier
	logger      *zap.Logger
}

func NewSimplifyUseCase(
	transformer repository.Transformer,
	simplifier repository.Simplifier,
	logger *zap.Logger,
) *SimplifyUseCase {
	return &SimplifyUseCase{
		transformer: transformer,
		simplifier:  simplifier,
		logger:      logger,
	}
}

// Simplify fills the simplified variant of every SRID in the set. An
// empty source field yields an empty simplified field and processing
// continues; that is the documented default, not an error. The declared
// geometry kind is preserved: a multi-part shape that the reduction
// collapses to a single part is re-wrapped into a multi-part shell.
func (uc *SimplifyUseCase) Simplify(ctx context.Context, set *domain.GeometrySet, tolerance float64) error {
	for _, srid := range set.SRIDs() {
		source := set.Geometry(srid)
		if source.IsEmpty() {
			if err := set.SetSimplified(srid, nil); err != nil {
				return err
			}
			continue
		}

		working := source
		if srid != domain.SimplifyReferenceSRID {
			var err error
			working, err = uc.transformer.Transform(ctx, source, domain.SimplifyReferenceSRID)
			if err != nil {
				uc.logger.Error("Failed to reproject into simplification reference system",
					zap.Int("srid", srid),
					zap.Error(err),
				)
				return err
			}
		}

		reduced := uc.simplifier.Simplify(working, tolerance)
		reduced = domain.Rewrap(set.Kind(), reduced)

		if srid != domain.SimplifyReferenceSRID {
			var err error
			reduced, err = uc.transformer.Transform(ctx, reduced, srid)
			if err != nil {
				uc.logger.Error("Failed to reproject simplified geometry back",
					zap.Int("srid", srid),
					zap.Error(err),
				)
				return err
			}
		}

		if err := set.SetSimplified(srid, reduced.Geom); err != nil {
			return err
		}
	}
	return nil
}
