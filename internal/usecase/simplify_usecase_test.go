package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/usecase"
)

func syncedTestLine(t *testing.T) *domain.Line {
	t.Helper()
	line := domain.NewLine("Gold")
	for _, srid := range domain.LineSRIDs {
		require.NoError(t, line.Geometries.SetGeometry(srid, testLineGeometry()))
	}
	return line
}

func TestSimplifyUseCase_Simplify(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("fills every simplified field", func(t *testing.T) {
		uc := usecase.NewSimplifyUseCase(&stubTransformer{}, &stubSimplifier{}, logger)

		line := syncedTestLine(t)
		require.NoError(t, uc.Simplify(ctx, line.Geometries, 500))

		for _, srid := range domain.LineSRIDs {
			simplified := line.Geometries.Simplified(srid)
			assert.False(t, simplified.IsEmpty(), "SRID %d has no simplified field", srid)
			assert.Equal(t, srid, simplified.SRID)
		}
	})

	t.Run("re-wraps a degenerated multi-part result", func(t *testing.T) {
		// A reduction primitive may collapse a two-part line into a single
		// linestring; the stored field must keep its declared type.
		simplifier := &stubSimplifier{
			result: domain.Geometry{Geom: orb.LineString{{0, 0}, {1, 1}}},
		}
		uc := usecase.NewSimplifyUseCase(&stubTransformer{}, simplifier, logger)

		line := syncedTestLine(t)
		require.NoError(t, uc.Simplify(ctx, line.Geometries, 500))

		for _, srid := range domain.LineSRIDs {
			simplified := line.Geometries.Simplified(srid)
			multi, ok := simplified.Geom.(orb.MultiLineString)
			require.True(t, ok, "SRID %d degraded to %T", srid, simplified.Geom)
			assert.Len(t, multi, 1)
		}
	})

	t.Run("empty source yields empty simplified field", func(t *testing.T) {
		transformer := &stubTransformer{}
		simplifier := &stubSimplifier{}
		uc := usecase.NewSimplifyUseCase(transformer, simplifier, logger)

		line := domain.NewLine("Gold")
		require.NoError(t, uc.Simplify(ctx, line.Geometries, 500))

		for _, srid := range domain.LineSRIDs {
			assert.True(t, line.Geometries.Simplified(srid).IsEmpty())
		}
		assert.Empty(t, transformer.calls)
		assert.Zero(t, simplifier.calls)
	})

	t.Run("reference SRID skips reprojection", func(t *testing.T) {
		transformer := &stubTransformer{}
		uc := usecase.NewSimplifyUseCase(transformer, &stubSimplifier{}, logger)

		line := domain.NewLine("Gold")
		require.NoError(t, line.Geometries.SetGeometry(domain.SRIDWebMercator, testLineGeometry()))

		require.NoError(t, uc.Simplify(ctx, line.Geometries, 500))

		assert.False(t, line.Geometries.Simplified(domain.SRIDWebMercator).IsEmpty())
		assert.Empty(t, transformer.calls)
	})

	t.Run("transform failure aborts", func(t *testing.T) {
		boom := stderrors.New("projection unavailable")
		transformer := &stubTransformer{
			fn: func(g domain.Geometry, targetSRID int) (domain.Geometry, error) {
				return domain.Geometry{}, boom
			},
		}
		uc := usecase.NewSimplifyUseCase(transformer, &stubSimplifier{}, logger)

		line := syncedTestLine(t)
		err := uc.Simplify(ctx, line.Geometries, 500)

		assert.ErrorIs(t, err, boom)
	})
}
