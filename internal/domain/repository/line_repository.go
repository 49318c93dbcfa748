package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/railatlas-loader/internal/domain"
)

// LineRepository is the geometry store surface for lines. All reads and
// writes are scoped to a reload generation; readers outside the loader only
// ever see the active generation.
type LineRepository interface {
	// Create inserts a line with whatever geometry fields it carries.
	Create(ctx context.Context, gen uuid.UUID, line *domain.Line) error

	// Update rewrites a line's slug and every geometry field in a single
	// statement. Enrichment is atomic per record.
	Update(ctx context.Context, gen uuid.UUID, line *domain.Line) error

	// List returns every line in the generation, ordered by name.
	List(ctx context.Context, gen uuid.UUID) ([]*domain.Line, error)

	// GetByName returns the line with the given name, or ErrLineNotFound.
	GetByName(ctx context.Context, gen uuid.UUID, name string) (*domain.Line, error)

	// DuplicateNames returns the names held by more than one record.
	DuplicateNames(ctx context.Context, gen uuid.UUID) ([]string, error)

	// IDsByName returns the record IDs sharing a name.
	IDsByName(ctx context.Context, gen uuid.UUID, name string) ([]int64, error)

	// UnionByName computes the aggregate geometric union of the named
	// records' geometries in the given SRID. This is the store-provided
	// union primitive used by consolidation.
	UnionByName(ctx context.Context, gen uuid.UUID, name string, srid int) (domain.Geometry, error)

	// DeleteByIDs removes the given records.
	DeleteByIDs(ctx context.Context, ids []int64) error
}
