package geometry_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/geometry"
)

func TestSimplifier(t *testing.T) {
	simplifier := geometry.NewSimplifier()

	t.Run("drops vertices within tolerance", func(t *testing.T) {
		// The middle vertex sits 1 unit off the straight line between the
		// endpoints, well inside a tolerance of 10.
		src := domain.Geometry{
			SRID: domain.SRIDWebMercator,
			Geom: orb.MultiLineString{{{0, 0}, {50, 1}, {100, 0}}},
		}

		reduced := simplifier.Simplify(src, 10)

		multi, ok := reduced.Geom.(orb.MultiLineString)
		require.True(t, ok)
		require.Len(t, multi, 1)
		assert.Equal(t, orb.LineString{{0, 0}, {100, 0}}, multi[0])
		assert.Equal(t, domain.SRIDWebMercator, reduced.SRID)
	})

	t.Run("keeps vertices outside tolerance", func(t *testing.T) {
		src := domain.Geometry{
			SRID: domain.SRIDWebMercator,
			Geom: orb.MultiLineString{{{0, 0}, {50, 40}, {100, 0}}},
		}

		reduced := simplifier.Simplify(src, 10)

		multi, ok := reduced.Geom.(orb.MultiLineString)
		require.True(t, ok)
		assert.Len(t, multi[0], 3)
	})

	t.Run("source geometry keeps full resolution", func(t *testing.T) {
		shape := orb.MultiLineString{{{0, 0}, {50, 1}, {100, 0}}}
		src := domain.Geometry{SRID: domain.SRIDWebMercator, Geom: shape}

		simplifier.Simplify(src, 10)

		assert.Len(t, shape[0], 3)
	})

	t.Run("empty geometry passes through", func(t *testing.T) {
		reduced := simplifier.Simplify(domain.Geometry{SRID: domain.SRIDWebMercator}, 10)
		assert.True(t, reduced.IsEmpty())
	})
}
