package usecase_test

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/pkg/errors"
)

// memAtlas is an in-memory geometry store used by the end-to-end reload
// tests. It implements the same generation semantics as the PostGIS
// store, including an aggregate union primitive.
type memAtlas struct {
	nextID int64

	lines    map[int64]*domain.Line
	stops    map[int64]*domain.Stop
	stations map[int64]*domain.Station

	lineGens    map[int64]uuid.UUID
	stopGens    map[int64]uuid.UUID
	stationGens map[int64]uuid.UUID

	active    uuid.UUID
	activated int
	dropped   []uuid.UUID
}

func newMemAtlas() *memAtlas {
	return &memAtlas{
		lines:       make(map[int64]*domain.Line),
		stops:       make(map[int64]*domain.Stop),
		stations:    make(map[int64]*domain.Station),
		lineGens:    make(map[int64]uuid.UUID),
		stopGens:    make(map[int64]uuid.UUID),
		stationGens: make(map[int64]uuid.UUID),
	}
}

func (a *memAtlas) id() int64 {
	a.nextID++
	return a.nextID
}

func (a *memAtlas) lineIDs(gen uuid.UUID) []int64 {
	var ids []int64
	for id, g := range a.lineGens {
		if g == gen {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type memLineRepo struct {
	atlas *memAtlas
}

func (r *memLineRepo) Create(_ context.Context, gen uuid.UUID, line *domain.Line) error {
	line.ID = r.atlas.id()
	r.atlas.lines[line.ID] = line
	r.atlas.lineGens[line.ID] = gen
	return nil
}

func (r *memLineRepo) Update(_ context.Context, gen uuid.UUID, line *domain.Line) error {
	if r.atlas.lineGens[line.ID] == gen {
		r.atlas.lines[line.ID] = line
	}
	return nil
}

func (r *memLineRepo) List(_ context.Context, gen uuid.UUID) ([]*domain.Line, error) {
	var lines []*domain.Line
	for _, id := range r.atlas.lineIDs(gen) {
		lines = append(lines, r.atlas.lines[id])
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines, nil
}

func (r *memLineRepo) GetByName(_ context.Context, gen uuid.UUID, name string) (*domain.Line, error) {
	for _, id := range r.atlas.lineIDs(gen) {
		if r.atlas.lines[id].Name == name {
			return r.atlas.lines[id], nil
		}
	}
	return nil, errors.ErrLineNotFound
}

func (r *memLineRepo) DuplicateNames(_ context.Context, gen uuid.UUID) ([]string, error) {
	counts := make(map[string]int)
	for _, id := range r.atlas.lineIDs(gen) {
		counts[r.atlas.lines[id].Name]++
	}
	var names []string
	for name, n := range counts {
		if n > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *memLineRepo) IDsByName(_ context.Context, gen uuid.UUID, name string) ([]int64, error) {
	var ids []int64
	for _, id := range r.atlas.lineIDs(gen) {
		if r.atlas.lines[id].Name == name {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// UnionByName collects every fragment's parts into one multi-part shape,
// the in-memory stand-in for the store's aggregate union.
func (r *memLineRepo) UnionByName(_ context.Context, gen uuid.UUID, name string, srid int) (domain.Geometry, error) {
	var union orb.MultiLineString
	for _, id := range r.atlas.lineIDs(gen) {
		line := r.atlas.lines[id]
		if line.Name != name {
			continue
		}
		switch geom := line.Geometries.Geometry(srid).Geom.(type) {
		case orb.MultiLineString:
			union = append(union, geom...)
		case orb.LineString:
			union = append(union, geom)
		}
	}
	if len(union) == 0 {
		return domain.Geometry{SRID: srid}, nil
	}
	return domain.Geometry{SRID: srid, Geom: union}, nil
}

func (r *memLineRepo) DeleteByIDs(_ context.Context, ids []int64) error {
	for _, id := range ids {
		delete(r.atlas.lines, id)
		delete(r.atlas.lineGens, id)
	}
	return nil
}

type memStopRepo struct {
	atlas *memAtlas
}

func (r *memStopRepo) Create(_ context.Context, gen uuid.UUID, stop *domain.Stop) error {
	stop.ID = r.atlas.id()
	r.atlas.stops[stop.ID] = stop
	r.atlas.stopGens[stop.ID] = gen
	return nil
}

func (r *memStopRepo) Update(_ context.Context, gen uuid.UUID, stop *domain.Stop) error {
	if r.atlas.stopGens[stop.ID] == gen {
		r.atlas.stops[stop.ID] = stop
	}
	return nil
}

func (r *memStopRepo) List(_ context.Context, gen uuid.UUID) ([]*domain.Stop, error) {
	var stops []*domain.Stop
	for id, g := range r.atlas.stopGens {
		if g == gen {
			stops = append(stops, r.atlas.stops[id])
		}
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].StopID < stops[j].StopID })
	return stops, nil
}

type memStationRepo struct {
	atlas *memAtlas
}

func (r *memStationRepo) GetOrCreate(_ context.Context, gen uuid.UUID, name, slug string) (*domain.Station, error) {
	for id, g := range r.atlas.stationGens {
		if g == gen && r.atlas.stations[id].Name == name {
			return r.atlas.stations[id], nil
		}
	}
	station := &domain.Station{ID: r.atlas.id(), Name: name, Slug: slug}
	r.atlas.stations[station.ID] = station
	r.atlas.stationGens[station.ID] = gen
	return station, nil
}

func (r *memStationRepo) Update(_ context.Context, gen uuid.UUID, station *domain.Station) error {
	if r.atlas.stationGens[station.ID] == gen {
		r.atlas.stations[station.ID] = station
	}
	return nil
}

func (r *memStationRepo) List(_ context.Context, gen uuid.UUID) ([]*domain.Station, error) {
	var stations []*domain.Station
	for id, g := range r.atlas.stationGens {
		if g == gen {
			stations = append(stations, r.atlas.stations[id])
		}
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i].Name < stations[j].Name })
	return stations, nil
}

type memGenerationRepo struct {
	atlas *memAtlas
}

func (r *memGenerationRepo) Activate(_ context.Context, gen uuid.UUID) error {
	r.atlas.active = gen
	r.atlas.activated++
	return nil
}

func (r *memGenerationRepo) Active(_ context.Context) (uuid.UUID, error) {
	return r.atlas.active, nil
}

func (r *memGenerationRepo) Purge(ctx context.Context, keep uuid.UUID) error {
	for id, g := range r.atlas.lineGens {
		if g != keep {
			delete(r.atlas.lines, id)
			delete(r.atlas.lineGens, id)
		}
	}
	for id, g := range r.atlas.stopGens {
		if g != keep {
			delete(r.atlas.stops, id)
			delete(r.atlas.stopGens, id)
		}
	}
	for id, g := range r.atlas.stationGens {
		if g != keep {
			delete(r.atlas.stations, id)
			delete(r.atlas.stationGens, id)
		}
	}
	return nil
}

func (r *memGenerationRepo) Drop(ctx context.Context, gen uuid.UUID) error {
	r.atlas.dropped = append(r.atlas.dropped, gen)
	for id, g := range r.atlas.lineGens {
		if g == gen {
			delete(r.atlas.lines, id)
			delete(r.atlas.lineGens, id)
		}
	}
	for id, g := range r.atlas.stopGens {
		if g == gen {
			delete(r.atlas.stops, id)
			delete(r.atlas.stopGens, id)
		}
	}
	for id, g := range r.atlas.stationGens {
		if g == gen {
			delete(r.atlas.stations, id)
			delete(r.atlas.stationGens, id)
		}
	}
	return nil
}

type memLocker struct {
	held     bool
	acquired int
	released int
}

func (l *memLocker) Acquire(_ context.Context) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	l.acquired++
	return true, nil
}

func (l *memLocker) Release(_ context.Context) error {
	l.held = false
	l.released++
	return nil
}

type memFeatureSource struct {
	lines []domain.LineFeature
	stops []domain.StopFeature
}

func (s *memFeatureSource) LineFeatures(_ context.Context) ([]domain.LineFeature, error) {
	return s.lines, nil
}

func (s *memFeatureSource) StopFeatures(_ context.Context) ([]domain.StopFeature, error) {
	return s.stops, nil
}

type memCrosswalkSource struct {
	crosswalk domain.Crosswalk
}

func (s *memCrosswalkSource) Load(_ context.Context) (domain.Crosswalk, error) {
	return s.crosswalk, nil
}
