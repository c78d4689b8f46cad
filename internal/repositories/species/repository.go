// Package species provides the interface for caching species lookups
package species

//go:generate mockgen -destination=mock/mock_repository.go -package=speciesmock github.com/KirkDiggler/roster-api/internal/repositories/species Repository

import (
	"context"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
)

// Repository defines the interface for the species lookup cache
type Repository interface {
	// Get retrieves a cached species record by normalized name
	// Returns errors.InvalidArgument for an empty name
	// Returns errors.NotFound on a cache miss
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put stores a species record until the cache TTL runs out
	// Returns errors.InvalidArgument for a missing or unnamed record
	// Returns errors.Internal for storage failures
	Put(ctx context.Context, input PutInput) (*PutOutput, error)
}

// GetInput defines the input for a cache read
type GetInput struct {
	Name string
}

// GetOutput defines the output for a cache read
type GetOutput struct {
	Record *pokemon.SpeciesRecord
}

// PutInput defines the input for a cache write. Key overrides the record
// name when the lookup query differs from the canonical species name.
type PutInput struct {
	Key    string
	Record *pokemon.SpeciesRecord
}

// PutOutput defines the output for a cache write
type PutOutput struct{}
