package repository

import (
	"context"

	"github.com/railatlas-loader/internal/domain"
)

// Transformer is the external CRS-transform primitive: reproject a
// geometry into the target SRID. Implementations delegate the projection
// math (PostGIS ST_Transform, PROJ pipelines); the loader never computes
// projections itself.
type Transformer interface {
	Transform(ctx context.Context, g domain.Geometry, targetSRID int) (domain.Geometry, error)
}

// Simplifier is the external vertex-reduction primitive. The tolerance is
// a distance in the units of g's SRID; callers are responsible for handing
// in a linear-unit geometry. The result may structurally degenerate (a
// multi-part line collapsing to one part); callers re-wrap.
type Simplifier interface {
	Simplify(g domain.Geometry, tolerance float64) domain.Geometry
}
