package postgres

import (
	"database/sql/driver"
	"fmt"

	"github.com/paulmach/orb/encoding/ewkb"

	"github.com/railatlas-loader/internal/domain"
)

// Geometry fields are statically enumerated: one column per (role, SRID)
// pair. An SRID outside the known set is a programming error, not data.

func lineColumn(srid int) string {
	switch srid {
	case domain.SRIDStatePlaneCA:
		return "linestring_2229"
	case domain.SRIDNAD83:
		return "linestring_4269"
	case domain.SRIDWGS84:
		return "linestring_4326"
	case domain.SRIDWebMercator:
		return "linestring_900913"
	}
	panic(fmt.Sprintf("no line geometry column for SRID %d", srid))
}

func simpleLineColumn(srid int) string {
	return "simple_" + lineColumn(srid)
}

func stopColumn(srid int) string {
	switch srid {
	case domain.SRIDNAD83:
		return "point_4269"
	case domain.SRIDWGS84:
		return "point_4326"
	case domain.SRIDWebMercator:
		return "point_900913"
	}
	panic(fmt.Sprintf("no stop geometry column for SRID %d", srid))
}

// geomArg converts a domain geometry into an EWKB query argument; empty
// geometries become NULL columns.
func geomArg(g domain.Geometry) driver.Valuer {
	if g.IsEmpty() {
		return nil
	}
	return ewkb.Value(g.Geom, g.SRID)
}
