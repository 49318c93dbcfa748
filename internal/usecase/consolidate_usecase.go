package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/pkg/errors"
)

// ConsolidateUseCase merges line fragments sharing a name into a single
// record. The survey splits some lines into several shapes; after
// consolidation each name is held by exactly one record whose canonical
// geometry is the union of all fragments.
type ConsolidateUseCase struct {
	lineRepo repository.LineRepository
	logger   *zap.Logger
}

func NewConsolidateUseCase(lineRepo repository.LineRepository, logger *zap.Logger) *ConsolidateUseCase {
	return &ConsolidateUseCase{
		lineRepo: lineRepo,
		logger:   logger,
	}
}

// Run consolidates every duplicated name in the generation. A failed
// union skips that name only and the originals stay in place: a merged
// replacement must exist before any original is deleted. Names held by a
// single record are untouched.
func (uc *ConsolidateUseCase) Run(ctx context.Context, gen uuid.UUID) error {
	names, err := uc.lineRepo.DuplicateNames(ctx, gen)
	if err != nil {
		return err
	}

	for _, name := range names {
		originalIDs, err := uc.lineRepo.IDsByName(ctx, gen, name)
		if err != nil {
			return err
		}

		merged, err := uc.lineRepo.UnionByName(ctx, gen, name, domain.LineCanonicalSRID)
		if err != nil || merged.IsEmpty() {
			uc.logger.Warn("Skipping consolidation group",
				zap.String("name", name),
				zap.Int("fragments", len(originalIDs)),
				zap.String("reason", errors.ErrConsolidationFailure.Code),
				zap.Error(err),
			)
			continue
		}

		// The union primitive may hand back a single-part shape.
		merged = domain.Rewrap(domain.KindMultiLineString, merged)

		replacement := domain.NewLine(name)
		if err := replacement.Geometries.SetGeometry(domain.LineCanonicalSRID, merged.Geom); err != nil {
			return err
		}
		if err := uc.lineRepo.Create(ctx, gen, replacement); err != nil {
			return err
		}

		// The replacement is a new record; originalIDs never includes it.
		if err := uc.lineRepo.DeleteByIDs(ctx, originalIDs); err != nil {
			return err
		}

		uc.logger.Info("Consolidated line fragments",
			zap.String("name", name),
			zap.Int("fragments", len(originalIDs)),
		)
	}
	return nil
}
