package domain

// Station groups the stops riders access from one portal, like 7th St /
// Metro Center holding separate platforms for different lines. It owns no
// geometry; its line set is derived as the union of its member stops'
// line sets and is never authored directly.
type Station struct {
	ID      int64
	Name    string
	Slug    string
	LineIDs []int64
}

// AddLine unions a line into the station's derived line set; adding a
// line already present is a no-op.
func (s *Station) AddLine(lineID int64) {
	for _, id := range s.LineIDs {
		if id == lineID {
			return
		}
	}
	s.LineIDs = append(s.LineIDs, lineID)
}
