package domain

// LineSRIDs is the fixed, ordered SRID set every line geometry is carried
// in. The canonical system is CA State Plane zone V (US survey feet), the
// system the source survey shapefile is published in.
var LineSRIDs = []int{SRIDStatePlaneCA, SRIDNAD83, SRIDWGS84, SRIDWebMercator}

const LineCanonicalSRID = SRIDStatePlaneCA

// Line is one rail line. Identity is the name; multiple raw records may
// share a name after import (the survey splits some lines into fragments)
// until consolidation reduces each name to a single record.
type Line struct {
	ID         int64
	Name       string
	Slug       string
	Geometries *GeometrySet
}

// NewLine returns a line with an empty multi-part geometry set over
// LineSRIDs, simplified variants included.
func NewLine(name string) *Line {
	return &Line{
		Name:       name,
		Geometries: NewGeometrySet(KindMultiLineString, LineSRIDs, true),
	}
}
