package domain

import (
	"github.com/paulmach/orb"

	"github.com/railatlas-loader/internal/pkg/errors"
)

// Spatial reference systems carried for every geometry. 900913 is the
// legacy spherical-mercator alias of 3857 and doubles as the linear-unit
// reference system for distance-based simplification.
const (
	SRIDStatePlaneCA = 2229
	SRIDNAD83        = 4269
	SRIDWGS84        = 4326
	SRIDWebMercator  = 900913
)

// SimplifyReferenceSRID is the system simplification tolerances are
// expressed in. Geographic (degree-unit) geometries are reprojected here
// before vertex reduction.
const SimplifyReferenceSRID = SRIDWebMercator

// GeometryKind is the declared top-level geometry type of a field. It is
// part of the schema contract: a field declared multi-part must stay
// multi-part no matter what upstream operations produce.
type GeometryKind string

const (
	KindPoint           GeometryKind = "Point"
	KindMultiLineString GeometryKind = "MultiLineString"
)

// Geometry pairs an orb shape with the SRID its coordinates are expressed
// in. A nil Geom is an empty geometry.
type Geometry struct {
	SRID int
	Geom orb.Geometry
}

func (g Geometry) IsEmpty() bool {
	return g.Geom == nil
}

// Rewrap restores the declared kind of a geometry after an operation that
// may have structurally degenerated it. Simplification and union primitives
// can collapse a multi-part line to its single remaining part; downstream
// schema expects the declared type per field, so the part is stuffed back
// into a multi-part shell.
func Rewrap(kind GeometryKind, g Geometry) Geometry {
	if kind != KindMultiLineString || g.IsEmpty() {
		return g
	}
	if ls, ok := g.Geom.(orb.LineString); ok {
		g.Geom = orb.MultiLineString{ls}
	}
	return g
}

// GeometrySet keeps one full-resolution geometry per SRID over a fixed,
// ordered SRID list, plus an optional simplified variant per SRID. The SRID
// list is enumerated at construction; lookups against SRIDs outside the
// list fail rather than fall through.
type GeometrySet struct {
	kind       GeometryKind
	srids      []int
	geoms      map[int]orb.Geometry
	simplified map[int]orb.Geometry
}

// NewGeometrySet builds an empty set over the given SRID list. Pass
// withSimplified for entities that carry low-resolution variants.
func NewGeometrySet(kind GeometryKind, srids []int, withSimplified bool) *GeometrySet {
	s := &GeometrySet{
		kind:  kind,
		srids: append([]int(nil), srids...),
		geoms: make(map[int]orb.Geometry, len(srids)),
	}
	if withSimplified {
		s.simplified = make(map[int]orb.Geometry, len(srids))
	}
	return s
}

func (s *GeometrySet) Kind() GeometryKind {
	return s.kind
}

// SRIDs returns the set's SRID list in its fixed order.
func (s *GeometrySet) SRIDs() []int {
	return append([]int(nil), s.srids...)
}

func (s *GeometrySet) Contains(srid int) bool {
	for _, known := range s.srids {
		if known == srid {
			return true
		}
	}
	return false
}

func (s *GeometrySet) HasSimplified() bool {
	return s.simplified != nil
}

// Geometry returns the full-resolution geometry stored for srid. An SRID
// without a stored geometry yields an empty Geometry tagged with that SRID.
func (s *GeometrySet) Geometry(srid int) Geometry {
	return Geometry{SRID: srid, Geom: s.geoms[srid]}
}

func (s *GeometrySet) SetGeometry(srid int, geom orb.Geometry) error {
	if !s.Contains(srid) {
		return errors.ErrUnknownSRID.WithDetails(map[string]interface{}{"srid": srid})
	}
	if geom == nil {
		delete(s.geoms, srid)
		return nil
	}
	s.geoms[srid] = geom
	return nil
}

// Simplified returns the low-resolution variant stored for srid.
func (s *GeometrySet) Simplified(srid int) Geometry {
	if s.simplified == nil {
		return Geometry{SRID: srid}
	}
	return Geometry{SRID: srid, Geom: s.simplified[srid]}
}

func (s *GeometrySet) SetSimplified(srid int, geom orb.Geometry) error {
	if s.simplified == nil || !s.Contains(srid) {
		return errors.ErrUnknownSRID.WithDetails(map[string]interface{}{"srid": srid})
	}
	if geom == nil {
		delete(s.simplified, srid)
		return nil
	}
	s.simplified[srid] = geom
	return nil
}
