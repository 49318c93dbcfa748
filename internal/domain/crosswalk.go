package domain

// CrosswalkEntry maps a surveyed stop identifier to its clean display name
// and up to two line memberships. Line2 (and Line1) may be blank; a blank
// reference is simply skipped during rollup, while a non-blank reference
// must resolve to an existing line.
type CrosswalkEntry struct {
	StopID    int    `validate:"required"`
	CleanName string `validate:"required"`
	Line1     string
	Line2     string
}

// LineNames returns the entry's non-blank line references in order.
func (e CrosswalkEntry) LineNames() []string {
	names := make([]string, 0, 2)
	if e.Line1 != "" {
		names = append(names, e.Line1)
	}
	if e.Line2 != "" {
		names = append(names, e.Line2)
	}
	return names
}

// Crosswalk is the external lookup table keyed by stop identifier. Every
// imported stop must have an entry.
type Crosswalk map[int]CrosswalkEntry

// LineFeature is one raw line shape from the survey source: a multi-part
// line geometry in the source SRID plus the line name. Several features
// may share a name.
type LineFeature struct {
	Name     string
	Geometry Geometry
}

// StopFeature is one raw stop from the survey source: a point geometry in
// the source SRID plus the surveyor's identifier and raw name.
type StopFeature struct {
	StopID   int
	Name     string
	Geometry Geometry
}
