package geometry

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	proj "github.com/pebbe/proj/v5"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/pkg/errors"
)

// projDefs are the PROJ definitions for every SRID the atlas carries.
// These are configuration constants; the projection math itself lives in
// the PROJ library.
var projDefs = map[int]string{
	domain.SRIDStatePlaneCA: "+proj=lcc +lat_1=35.46666666666667 +lat_2=34.03333333333333 " +
		"+lat_0=33.5 +lon_0=-118 +x_0=2000000.0001016 +y_0=500000.0001016001 " +
		"+ellps=GRS80 +datum=NAD83 +to_meter=0.3048006096012192 +no_defs",
	domain.SRIDNAD83: "+proj=longlat +ellps=GRS80 +datum=NAD83 +no_defs",
	domain.SRIDWGS84: "+proj=longlat +ellps=WGS84 +datum=WGS84 +no_defs",
	domain.SRIDWebMercator: "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 " +
		"+x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs",
}

func isGeographic(srid int) bool {
	return srid == domain.SRIDNAD83 || srid == domain.SRIDWGS84
}

// pipelineDef builds a PROJ transformation pipeline between two SRIDs.
// Geographic endpoints work in radians at the pipeline boundary; callers
// convert degrees on the way in and out.
func pipelineDef(src, dst int) string {
	def := "+proj=pipeline"
	if isGeographic(src) {
		def += " +step " + projDefs[src]
	} else {
		def += " +step +inv " + projDefs[src]
	}
	if isGeographic(dst) {
		def += " +step +inv " + projDefs[dst]
	} else {
		def += " +step " + projDefs[dst]
	}
	return def
}

type pipelineKey struct {
	src, dst int
}

// ProjTransformer is the in-process CRS primitive, an alternative to the
// PostGIS backend for environments where the store should not carry the
// transform load. Pipelines for every SRID pair are created up front.
type ProjTransformer struct {
	ctx       *proj.Context
	pipelines map[pipelineKey]*proj.PJ
}

func NewProjTransformer() (*ProjTransformer, error) {
	t := &ProjTransformer{
		ctx:       proj.NewContext(),
		pipelines: make(map[pipelineKey]*proj.PJ),
	}

	srids := make([]int, 0, len(projDefs))
	for srid := range projDefs {
		srids = append(srids, srid)
	}
	for _, src := range srids {
		for _, dst := range srids {
			if src == dst {
				continue
			}
			pj, err := t.ctx.Create(pipelineDef(src, dst))
			if err != nil {
				t.Close()
				return nil, fmt.Errorf("failed to create pipeline %d->%d: %w", src, dst, err)
			}
			t.pipelines[pipelineKey{src, dst}] = pj
		}
	}
	return t, nil
}

func (t *ProjTransformer) Close() {
	for _, pj := range t.pipelines {
		pj.Close()
	}
	t.ctx.Close()
}

func (t *ProjTransformer) Transform(_ context.Context, g domain.Geometry, targetSRID int) (domain.Geometry, error) {
	if g.IsEmpty() {
		return domain.Geometry{SRID: targetSRID}, nil
	}
	if g.SRID == targetSRID {
		return domain.Geometry{SRID: targetSRID, Geom: orb.Clone(g.Geom)}, nil
	}

	pj, ok := t.pipelines[pipelineKey{g.SRID, targetSRID}]
	if !ok {
		return domain.Geometry{}, errors.ErrUnknownSRID.WithDetails(map[string]interface{}{
			"source_srid": g.SRID,
			"target_srid": targetSRID,
		})
	}

	out, err := mapPoints(orb.Clone(g.Geom), func(p orb.Point) (orb.Point, error) {
		return t.project(pj, g.SRID, targetSRID, p)
	})
	if err != nil {
		return domain.Geometry{}, err
	}
	return domain.Geometry{SRID: targetSRID, Geom: out}, nil
}

func (t *ProjTransformer) project(pj *proj.PJ, src, dst int, p orb.Point) (orb.Point, error) {
	x, y := p[0], p[1]
	if isGeographic(src) {
		x, y = proj.DegToRad(x), proj.DegToRad(y)
	}
	x, y, _, _, err := pj.Trans(proj.Fwd, x, y, 0, 0)
	if err != nil {
		return orb.Point{}, err
	}
	if isGeographic(dst) {
		x, y = proj.RadToDeg(x), proj.RadToDeg(y)
	}
	return orb.Point{x, y}, nil
}

// mapPoints applies fn to every vertex of the geometry kinds the atlas
// carries.
func mapPoints(g orb.Geometry, fn func(orb.Point) (orb.Point, error)) (orb.Geometry, error) {
	switch geom := g.(type) {
	case orb.Point:
		return fn(geom)
	case orb.LineString:
		for i, p := range geom {
			out, err := fn(p)
			if err != nil {
				return nil, err
			}
			geom[i] = out
		}
		return geom, nil
	case orb.MultiLineString:
		for i, ls := range geom {
			for j, p := range ls {
				out, err := fn(p)
				if err != nil {
					return nil, err
				}
				geom[i][j] = out
			}
		}
		return geom, nil
	}
	return nil, fmt.Errorf("unsupported geometry type %T", g)
}
