package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/railatlas-loader/internal/domain"
)

// StopRepository is the geometry store surface for stops.
type StopRepository interface {
	// Create inserts a stop with its point geometry fields.
	Create(ctx context.Context, gen uuid.UUID, stop *domain.Stop) error

	// Update rewrites a stop's name, slug, station assignment and line set.
	Update(ctx context.Context, gen uuid.UUID, stop *domain.Stop) error

	// List returns every stop in the generation, ordered by stop_id.
	List(ctx context.Context, gen uuid.UUID) ([]*domain.Stop, error)
}

// StationRepository is the geometry store surface for stations.
type StationRepository interface {
	// GetOrCreate returns the station with the given name, creating it on
	// first use.
	GetOrCreate(ctx context.Context, gen uuid.UUID, name, slug string) (*domain.Station, error)

	// Update rewrites a station's derived line set.
	Update(ctx context.Context, gen uuid.UUID, station *domain.Station) error

	// List returns every station in the generation, ordered by name.
	List(ctx context.Context, gen uuid.UUID) ([]*domain.Station, error)
}
