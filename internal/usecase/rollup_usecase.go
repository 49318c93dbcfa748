package usecase

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/pkg/errors"
	"github.com/railatlas-loader/internal/pkg/slug"
)

// RollupUseCase assigns every stop to a station using the external
// crosswalk, attaches line memberships to stops, and derives each
// station's line set as the union of its member stops' line sets.
type RollupUseCase struct {
	stopRepo    repository.StopRepository
	stationRepo repository.StationRepository
	lineRepo    repository.LineRepository
	logger      *zap.Logger
}

func NewRollupUseCase(
	stopRepo repository.StopRepository,
	stationRepo repository.StationRepository,
	lineRepo repository.LineRepository,
	logger *zap.Logger,
) *RollupUseCase {
	return &RollupUseCase{
		stopRepo:    stopRepo,
		stationRepo: stationRepo,
		lineRepo:    lineRepo,
		logger:      logger,
	}
}

// Run rolls up every stop in the generation. A stop without a crosswalk
// entry aborts the whole run; silently skipping would leave it
// permanently unassigned. A crosswalk line reference that does not
// resolve aborts too: after import and consolidation every referenced
// line must exist. Station line sets are idempotent unions, so the
// processing order of stops does not change the final result.
func (uc *RollupUseCase) Run(ctx context.Context, gen uuid.UUID, crosswalk domain.Crosswalk) error {
	stops, err := uc.stopRepo.List(ctx, gen)
	if err != nil {
		return err
	}

	for _, stop := range stops {
		entry, ok := crosswalk[stop.StopID]
		if !ok {
			return errors.ErrMissingCrosswalkEntry.WithDetails(map[string]interface{}{
				"stop_id": stop.StopID,
			})
		}

		stop.Name = entry.CleanName
		stop.Slug = slug.Make(entry.CleanName) + "-" + strconv.Itoa(stop.StopID)

		for _, lineName := range entry.LineNames() {
			line, err := uc.lineRepo.GetByName(ctx, gen, lineName)
			if err != nil {
				if stderrors.Is(err, errors.ErrLineNotFound) {
					return errors.ErrUnresolvedLineReference.WithDetails(map[string]interface{}{
						"stop_id": stop.StopID,
						"line":    lineName,
					})
				}
				return err
			}
			stop.AddLine(line.ID)
		}

		station, err := uc.stationRepo.GetOrCreate(ctx, gen, entry.CleanName, slug.Make(entry.CleanName))
		if err != nil {
			return err
		}

		stop.StationID = &station.ID
		if err := uc.stopRepo.Update(ctx, gen, stop); err != nil {
			return err
		}

		for _, lineID := range stop.LineIDs {
			station.AddLine(lineID)
		}
		if err := uc.stationRepo.Update(ctx, gen, station); err != nil {
			return err
		}
	}

	uc.logger.Info("Station rollup complete", zap.Int("stops", len(stops)))
	return nil
}
