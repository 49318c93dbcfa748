package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/pkg/errors"
)

// SyncUseCase keeps every geometry field of an entity consistent with one
// canonical field: each non-canonical SRID is overwritten with the
// canonical geometry reprojected into it.
type SyncUseCase struct {
	transformer repository.Transformer
	logger      *zap.Logger
}

func NewSyncUseCase(transformer repository.Transformer, logger *zap.Logger) *SyncUseCase {
	return &SyncUseCase{
		transformer: transformer,
		logger:      logger,
	}
}

// Sync reprojects the canonical geometry into every other SRID of the
// set. The canonical field is never touched, and targets depend only on
// the canonical field, so the operation is idempotent and order-free.
func (uc *SyncUseCase) Sync(ctx context.Context, set *domain.GeometrySet, canonicalSRID int) error {
	if !set.Contains(canonicalSRID) {
		return errors.ErrConfiguration.WithDetails(map[string]interface{}{
			"canonical_srid": canonicalSRID,
			"known_srids":    set.SRIDs(),
		})
	}

	canonical := set.Geometry(canonicalSRID)
	for _, srid := range set.SRIDs() {
		if srid == canonicalSRID {
			continue
		}

		reprojected, err := uc.transformer.Transform(ctx, canonical, srid)
		if err != nil {
			uc.logger.Error("Failed to sync geometry field",
				zap.Int("canonical_srid", canonicalSRID),
				zap.Int("target_srid", srid),
				zap.Error(err),
			)
			return err
		}
		if err := set.SetGeometry(srid, reprojected.Geom); err != nil {
			return err
		}
	}
	return nil
}
