package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/pkg/errors"
	"github.com/railatlas-loader/internal/pkg/slug"
)

// ReloadUseCase runs the whole pipeline: import lines, consolidate
// duplicates, enrich every line (slug, CRS sync, simplification), import
// and sync stops, then roll stops up into stations.
//
// Each run builds a shadow dataset under a fresh generation ID and flips
// the active-generation pointer only after every stage succeeds. A fatal
// error drops the new generation and leaves the previously active data
// untouched, so readers never see a half-built atlas.
type ReloadUseCase struct {
	features    repository.FeatureSource
	crosswalk   repository.CrosswalkSource
	lineRepo    repository.LineRepository
	stopRepo    repository.StopRepository
	generations repository.GenerationRepository
	locker      repository.ReloadLocker

	consolidate *ConsolidateUseCase
	sync        *SyncUseCase
	simplify    *SimplifyUseCase
	rollup      *RollupUseCase

	tolerance float64
	logger    *zap.Logger
}

func NewReloadUseCase(
	features repository.FeatureSource,
	crosswalk repository.CrosswalkSource,
	lineRepo repository.LineRepository,
	stopRepo repository.StopRepository,
	generations repository.GenerationRepository,
	locker repository.ReloadLocker,
	consolidate *ConsolidateUseCase,
	sync *SyncUseCase,
	simplify *SimplifyUseCase,
	rollup *RollupUseCase,
	tolerance float64,
	logger *zap.Logger,
) *ReloadUseCase {
	return &ReloadUseCase{
		features:    features,
		crosswalk:   crosswalk,
		lineRepo:    lineRepo,
		stopRepo:    stopRepo,
		generations: generations,
		locker:      locker,
		consolidate: consolidate,
		sync:        sync,
		simplify:    simplify,
		rollup:      rollup,
		tolerance:   tolerance,
		logger:      logger,
	}
}

// Run executes one full reload. Concurrent reloads are refused with
// ErrReloadInProgress; the store assumes a single writer.
func (uc *ReloadUseCase) Run(ctx context.Context) error {
	acquired, err := uc.locker.Acquire(ctx)
	if err != nil {
		return err
	}
	if !acquired {
		return errors.ErrReloadInProgress
	}
	defer func() {
		if err := uc.locker.Release(ctx); err != nil {
			uc.logger.Error("Failed to release reload lock", zap.Error(err))
		}
	}()

	gen := uuid.New()
	uc.logger.Info("Reload started", zap.String("generation", gen.String()))

	if err := uc.build(ctx, gen); err != nil {
		uc.logger.Error("Reload failed, dropping generation",
			zap.String("generation", gen.String()),
			zap.Error(err),
		)
		if dropErr := uc.generations.Drop(ctx, gen); dropErr != nil {
			uc.logger.Error("Failed to drop generation", zap.Error(dropErr))
		}
		return err
	}

	if err := uc.generations.Activate(ctx, gen); err != nil {
		if dropErr := uc.generations.Drop(ctx, gen); dropErr != nil {
			uc.logger.Error("Failed to drop generation", zap.Error(dropErr))
		}
		return err
	}
	if err := uc.generations.Purge(ctx, gen); err != nil {
		// The new generation is already active; stale rows only cost space.
		uc.logger.Warn("Failed to purge superseded generations", zap.Error(err))
	}

	uc.logger.Info("Reload complete", zap.String("generation", gen.String()))
	return nil
}

func (uc *ReloadUseCase) build(ctx context.Context, gen uuid.UUID) error {
	if err := uc.importLines(ctx, gen); err != nil {
		return err
	}
	if err := uc.consolidate.Run(ctx, gen); err != nil {
		return err
	}
	if err := uc.enrichLines(ctx, gen); err != nil {
		return err
	}
	if err := uc.importStops(ctx, gen); err != nil {
		return err
	}

	crosswalk, err := uc.crosswalk.Load(ctx)
	if err != nil {
		return err
	}
	return uc.rollup.Run(ctx, gen, crosswalk)
}

// importLines writes one record per raw feature; fragments sharing a name
// stay separate until consolidation.
func (uc *ReloadUseCase) importLines(ctx context.Context, gen uuid.UUID) error {
	features, err := uc.features.LineFeatures(ctx)
	if err != nil {
		return err
	}

	for _, feature := range features {
		line := domain.NewLine(feature.Name)
		if err := line.Geometries.SetGeometry(domain.LineCanonicalSRID, feature.Geometry.Geom); err != nil {
			return err
		}
		if err := uc.lineRepo.Create(ctx, gen, line); err != nil {
			return err
		}
	}

	uc.logger.Info("Lines imported", zap.Int("count", len(features)))
	return nil
}

// enrichLines derives the slug, the synced geometry fields and the
// simplified variants for every consolidated line. Each record is written
// back in a single update.
func (uc *ReloadUseCase) enrichLines(ctx context.Context, gen uuid.UUID) error {
	lines, err := uc.lineRepo.List(ctx, gen)
	if err != nil {
		return err
	}

	for _, line := range lines {
		line.Slug = slug.Make(line.Name)
		if err := uc.sync.Sync(ctx, line.Geometries, domain.LineCanonicalSRID); err != nil {
			return err
		}
		if err := uc.simplify.Simplify(ctx, line.Geometries, uc.tolerance); err != nil {
			return err
		}
		if err := uc.lineRepo.Update(ctx, gen, line); err != nil {
			return err
		}
	}

	uc.logger.Info("Lines enriched", zap.Int("count", len(lines)))
	return nil
}

func (uc *ReloadUseCase) importStops(ctx context.Context, gen uuid.UUID) error {
	features, err := uc.features.StopFeatures(ctx)
	if err != nil {
		return err
	}

	for _, feature := range features {
		stop := domain.NewStop(feature.StopID, feature.Name)
		if err := stop.Geometries.SetGeometry(domain.StopCanonicalSRID, feature.Geometry.Geom); err != nil {
			return err
		}
		if err := uc.sync.Sync(ctx, stop.Geometries, domain.StopCanonicalSRID); err != nil {
			return err
		}
		if err := uc.stopRepo.Create(ctx, gen, stop); err != nil {
			return err
		}
	}

	uc.logger.Info("Stops imported", zap.Int("count", len(features)))
	return nil
}
