package repository

import (
	"context"

	"github.com/google/uuid"
)

// GenerationRepository manages the shadow-dataset lifecycle of a reload.
// Every reload writes under a fresh generation ID; the active pointer is
// flipped only after the whole pipeline succeeds, so readers never observe
// a half-built dataset.
type GenerationRepository interface {
	// Activate atomically makes gen the generation readers see.
	Activate(ctx context.Context, gen uuid.UUID) error

	// Active returns the currently visible generation, or uuid.Nil when no
	// reload has ever completed.
	Active(ctx context.Context) (uuid.UUID, error)

	// Purge removes the rows of every generation except keep.
	Purge(ctx context.Context, keep uuid.UUID) error

	// Drop removes the rows of a single (failed) generation.
	Drop(ctx context.Context, gen uuid.UUID) error
}

// ReloadLocker serializes reloads. The geometry store assumes a single
// writer; a second reload attempted while one is running must be refused,
// not queued.
type ReloadLocker interface {
	// Acquire takes the reload lock. It returns false when another reload
	// holds it.
	Acquire(ctx context.Context) (bool, error)

	// Release frees the lock.
	Release(ctx context.Context) error
}
