// Package geometry holds the in-process implementations of the external
// geometry primitives: vertex reduction (orb) and CRS transformation
// (PROJ pipelines).
package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/domain/repository"
)

type douglasPeuckerSimplifier struct{}

// NewSimplifier returns the Douglas-Peucker vertex-reduction primitive.
// The tolerance handed to Simplify is a distance in the geometry's SRID
// units.
func NewSimplifier() repository.Simplifier {
	return douglasPeuckerSimplifier{}
}

func (douglasPeuckerSimplifier) Simplify(g domain.Geometry, tolerance float64) domain.Geometry {
	if g.IsEmpty() {
		return g
	}
	// orb simplifies in place; work on a clone so the source field keeps
	// its full resolution.
	reduced := simplify.DouglasPeucker(tolerance).Simplify(orb.Clone(g.Geom))
	return domain.Geometry{SRID: g.SRID, Geom: reduced}
}
