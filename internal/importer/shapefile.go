// Package importer reads the raw survey inputs: ESRI shapefiles for line
// and stop features and the CSV crosswalk.
package importer

import (
	"context"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/config"
	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/pkg/errors"
)

// Source shapefile attribute names.
const (
	lineNameField = "Name"
	stopIDField   = "STOP_ID"
	stopNameField = "STOP_NAME"
)

type shapefileSource struct {
	linesPath string
	stopsPath string
	logger    *zap.Logger
}

// NewShapefileSource reads line and stop features from the configured
// shapefiles. Geometries are tagged with the entities' canonical SRIDs,
// the systems the survey publishes in.
func NewShapefileSource(cfg *config.SourceConfig, logger *zap.Logger) repository.FeatureSource {
	return &shapefileSource{
		linesPath: cfg.LinesShapefile,
		stopsPath: cfg.StopsShapefile,
		logger:    logger,
	}
}

func (s *shapefileSource) LineFeatures(_ context.Context) ([]domain.LineFeature, error) {
	reader, err := shp.Open(s.linesPath)
	if err != nil {
		s.logger.Error("Failed to open lines shapefile", zap.String("path", s.linesPath), zap.Error(err))
		return nil, errors.ErrImportError
	}
	defer reader.Close()

	fields, err := fieldIndex(reader, lineNameField)
	if err != nil {
		return nil, err
	}

	var features []domain.LineFeature
	for reader.Next() {
		n, shape := reader.Shape()
		poly, ok := shape.(*shp.PolyLine)
		if !ok {
			s.logger.Error("Unexpected shape type in lines shapefile", zap.Int("record", n))
			return nil, errors.ErrImportError
		}

		features = append(features, domain.LineFeature{
			Name: reader.ReadAttribute(n, fields[lineNameField]),
			Geometry: domain.Geometry{
				SRID: domain.LineCanonicalSRID,
				Geom: polyLineToMulti(poly),
			},
		})
	}
	if err := reader.Err(); err != nil {
		s.logger.Error("Failed to read lines shapefile", zap.Error(err))
		return nil, errors.ErrImportError
	}

	s.logger.Info("Line features read", zap.Int("count", len(features)))
	return features, nil
}

func (s *shapefileSource) StopFeatures(_ context.Context) ([]domain.StopFeature, error) {
	reader, err := shp.Open(s.stopsPath)
	if err != nil {
		s.logger.Error("Failed to open stops shapefile", zap.String("path", s.stopsPath), zap.Error(err))
		return nil, errors.ErrImportError
	}
	defer reader.Close()

	fields, err := fieldIndex(reader, stopIDField, stopNameField)
	if err != nil {
		return nil, err
	}

	var features []domain.StopFeature
	for reader.Next() {
		n, shape := reader.Shape()
		point, ok := shape.(*shp.Point)
		if !ok {
			s.logger.Error("Unexpected shape type in stops shapefile", zap.Int("record", n))
			return nil, errors.ErrImportError
		}

		rawID := strings.TrimSpace(reader.ReadAttribute(n, fields[stopIDField]))
		stopID, err := strconv.Atoi(rawID)
		if err != nil {
			s.logger.Error("Stop record has a non-numeric STOP_ID",
				zap.Int("record", n),
				zap.String("stop_id", rawID),
			)
			return nil, errors.ErrImportError
		}

		features = append(features, domain.StopFeature{
			StopID: stopID,
			Name:   reader.ReadAttribute(n, fields[stopNameField]),
			Geometry: domain.Geometry{
				SRID: domain.StopCanonicalSRID,
				Geom: orb.Point{point.X, point.Y},
			},
		})
	}
	if err := reader.Err(); err != nil {
		s.logger.Error("Failed to read stops shapefile", zap.Error(err))
		return nil, errors.ErrImportError
	}

	s.logger.Info("Stop features read", zap.Int("count", len(features)))
	return features, nil
}

// fieldIndex maps the required attribute names to their DBF column
// positions, matching names case-insensitively.
func fieldIndex(reader *shp.Reader, names ...string) (map[string]int, error) {
	index := make(map[string]int, len(names))
	for i, field := range reader.Fields() {
		for _, name := range names {
			if strings.EqualFold(field.String(), name) {
				index[name] = i
			}
		}
	}
	for _, name := range names {
		if _, ok := index[name]; !ok {
			return nil, errors.ErrImportError.WithDetails(map[string]interface{}{
				"missing_field": name,
			})
		}
	}
	return index, nil
}

// polyLineToMulti converts a shapefile polyline's part-indexed point array
// into a multi-part line geometry.
func polyLineToMulti(poly *shp.PolyLine) orb.MultiLineString {
	multi := make(orb.MultiLineString, 0, poly.NumParts)
	for i := int32(0); i < poly.NumParts; i++ {
		start := poly.Parts[i]
		end := int32(len(poly.Points))
		if i+1 < poly.NumParts {
			end = poly.Parts[i+1]
		}

		part := make(orb.LineString, 0, end-start)
		for _, p := range poly.Points[start:end] {
			part = append(part, orb.Point{p.X, p.Y})
		}
		multi = append(multi, part)
	}
	return multi
}
