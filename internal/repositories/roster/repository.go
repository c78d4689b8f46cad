// Package roster provides the interface for roster persistence and its live
// snapshot feed
package roster

//go:generate mockgen -destination=mock/mock_repository.go -package=rostermock github.com/KirkDiggler/roster-api/internal/repositories/roster Repository

import (
	"context"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
)

// Repository defines the interface for roster persistence
type Repository interface {
	// Create stores a new entry and assigns its ID and CreatedAt
	// Returns errors.InvalidArgument for a missing user or entry
	// Returns errors.FailedPrecondition (ROSTER_FULL) when the roster is at capacity
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)

	// List returns the whole roster ordered by arrival
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// Get returns one entry
	// Returns errors.NotFound if the entry does not exist
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// UpdateFields applies a partial update to an existing entry
	// Returns errors.NotFound if the entry does not exist
	UpdateFields(ctx context.Context, input *UpdateFieldsInput) (*UpdateFieldsOutput, error)

	// Delete removes an entry
	// Returns errors.NotFound if the entry does not exist
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)

	// Subscribe delivers the complete roster to OnSnapshot once right away
	// and again after every change. Deliveries for one subscription are
	// sequential. Once Unsubscribe returns no further delivery starts, so it
	// must not be called from inside OnSnapshot.
	Subscribe(ctx context.Context, input *SubscribeInput) (*SubscribeOutput, error)
}

// SnapshotFunc receives a complete roster
type SnapshotFunc func(roster pokemon.Roster)

// CreateInput defines the input for creating an entry
type CreateInput struct {
	UserID string
	Entry  *pokemon.RosterEntry
}

// CreateOutput defines the output for creating an entry
type CreateOutput struct {
	Entry *pokemon.RosterEntry
}

// ListInput defines the input for listing a roster
type ListInput struct {
	UserID string
}

// ListOutput defines the output for listing a roster
type ListOutput struct {
	Roster pokemon.Roster
}

// GetInput defines the input for getting an entry
type GetInput struct {
	UserID  string
	EntryID string
}

// GetOutput defines the output for getting an entry
type GetOutput struct {
	Entry *pokemon.RosterEntry
}

// EntryFields lists the mutable fields of an entry. Nil fields are left
// untouched.
type EntryFields struct {
	SelectedMoves *pokemon.MoveSlots
}

// UpdateFieldsInput defines the input for a partial update
type UpdateFieldsInput struct {
	UserID  string
	EntryID string
	Fields  EntryFields
}

// UpdateFieldsOutput defines the output for a partial update
type UpdateFieldsOutput struct {
	Entry *pokemon.RosterEntry
}

// DeleteInput defines the input for deleting an entry
type DeleteInput struct {
	UserID  string
	EntryID string
}

// DeleteOutput defines the output for deleting an entry
type DeleteOutput struct{}

// SubscribeInput defines the input for subscribing to a roster
type SubscribeInput struct {
	UserID     string
	OnSnapshot SnapshotFunc
}

// SubscribeOutput defines the output for subscribing to a roster
type SubscribeOutput struct {
	// Unsubscribe stops the feed and waits for any in-flight delivery.
	// Safe to call more than once.
	Unsubscribe func()
}
