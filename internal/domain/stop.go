package domain

// StopSRIDs is the fixed, ordered SRID set for stop points. Canonical is
// NAD83, the source shapefile's system. Points carry no simplified
// variants.
var StopSRIDs = []int{SRIDNAD83, SRIDWGS84, SRIDWebMercator}

const StopCanonicalSRID = SRIDNAD83

// Stop is a platform where trains stop. StopID is the surveyor's stop
// identifier and the key into the crosswalk; Name and Slug hold the raw
// survey name until rollup overwrites them with the crosswalk's clean
// name. StationID stays nil until rollup assigns the stop to a station.
type Stop struct {
	ID         int64
	StopID     int
	Name       string
	Slug       string
	StationID  *int64
	LineIDs    []int64
	Geometries *GeometrySet
}

// NewStop returns a stop with an empty point geometry set over StopSRIDs.
func NewStop(stopID int, name string) *Stop {
	return &Stop{
		StopID:     stopID,
		Name:       name,
		Geometries: NewGeometrySet(KindPoint, StopSRIDs, false),
	}
}

// AddLine records a line membership; adding a line already present is a
// no-op.
func (s *Stop) AddLine(lineID int64) {
	for _, id := range s.LineIDs {
		if id == lineID {
			return
		}
	}
	s.LineIDs = append(s.LineIDs, lineID)
}
