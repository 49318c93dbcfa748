package repository

import (
	"context"

	"github.com/railatlas-loader/internal/domain"
)

// FeatureSource is the upstream survey-data boundary: typed geometry and
// attribute records parsed out of the raw vector files.
type FeatureSource interface {
	LineFeatures(ctx context.Context) ([]domain.LineFeature, error)
	StopFeatures(ctx context.Context) ([]domain.StopFeature, error)
}

// CrosswalkSource supplies the external stop crosswalk lookup.
type CrosswalkSource interface {
	Load(ctx context.Context) (domain.Crosswalk, error)
}
