package roster

import (
	"context"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/orchestrators/session"
)

//go:generate mockgen -destination=mock/mock_service.go -package=rostermock github.com/KirkDiggler/roster-api/internal/orchestrators/roster Service

// Service defines the roster orchestrator interface
type Service interface {
	// Species and roster
	LookupSpecies(ctx context.Context, input *LookupSpeciesInput) (*LookupSpeciesOutput, error)
	AddToRoster(ctx context.Context, input *AddToRosterInput) (*AddToRosterOutput, error)
	ListRoster(ctx context.Context, input *ListRosterInput) (*ListRosterOutput, error)

	// Session lifecycle
	StartSession(ctx context.Context, input *StartSessionInput) (*SessionOutput, error)
	EndSession(ctx context.Context, input *SessionInput) (*EndSessionOutput, error)
	Logout(ctx context.Context, input *LogoutInput) (*LogoutOutput, error)
	GetSession(ctx context.Context, input *SessionInput) (*SessionOutput, error)
	WatchSession(ctx context.Context, input *SessionInput) (*WatchSessionOutput, error)

	// Selection and slot edits
	OpenEntry(ctx context.Context, input *OpenEntryInput) (*SessionOutput, error)
	CloseEntry(ctx context.Context, input *SessionInput) (*SessionOutput, error)
	SelectSlot(ctx context.Context, input *SelectSlotInput) (*SessionOutput, error)
	AssignMove(ctx context.Context, input *AssignMoveInput) (*SessionOutput, error)
	RemoveMove(ctx context.Context, input *RemoveMoveInput) (*SessionOutput, error)
	DeleteEntry(ctx context.Context, input *DeleteEntryInput) (*SessionOutput, error)

	// Housekeeping
	SweepIdle(ctx context.Context, input *SweepIdleInput) (*SweepIdleOutput, error)
}

// LookupSpeciesInput defines the request for a species lookup
type LookupSpeciesInput struct {
	Query string
}

// LookupSpeciesOutput defines the response for a species lookup
type LookupSpeciesOutput struct {
	Species *pokemon.SpeciesRecord
	Cached  bool
}

// AddToRosterInput defines the request for adding a species to a roster
type AddToRosterInput struct {
	UserID string
	Query  string
}

// AddToRosterOutput defines the response for adding a species to a roster
type AddToRosterOutput struct {
	Entry *pokemon.RosterEntry
}

// ListRosterInput defines the request for listing a roster
type ListRosterInput struct {
	UserID string
}

// ListRosterOutput defines the response for listing a roster
type ListRosterOutput struct {
	Roster   pokemon.Roster
	Capacity int
}

// StartSessionInput defines the request for starting a session
type StartSessionInput struct {
	UserID string
	Email  string
}

// SessionInput addresses one of the caller's sessions
type SessionInput struct {
	UserID    string
	SessionID string
}

// SessionOutput carries the session view after an operation
type SessionOutput struct {
	View session.View
}

// EndSessionOutput defines the response for ending a session
type EndSessionOutput struct{}

// LogoutInput defines the request for logging out
type LogoutInput struct {
	UserID string
}

// LogoutOutput defines the response for logging out
type LogoutOutput struct {
	EndedSessions []string
}

// WatchSessionOutput carries a stream of views. Views is closed when the
// watch context ends or the session ends.
type WatchSessionOutput struct {
	Views <-chan session.View
}

// OpenEntryInput defines the request for opening an entry
type OpenEntryInput struct {
	SessionInput
	EntryID string
}

// SelectSlotInput defines the request for changing the active slot
type SelectSlotInput struct {
	SessionInput
	SlotIndex int
}

// AssignMoveInput defines the request for assigning a move
type AssignMoveInput struct {
	SessionInput
	Move pokemon.Move
}

// RemoveMoveInput defines the request for clearing a slot
type RemoveMoveInput struct {
	SessionInput
	SlotIndex int
}

// DeleteEntryInput defines the request for deleting an entry
type DeleteEntryInput struct {
	SessionInput
	EntryID string
	Confirm bool
}

// SweepIdleInput defines the request for ending idle sessions
type SweepIdleInput struct{}

// SweepIdleOutput lists the sessions a sweep ended
type SweepIdleOutput struct {
	EndedSessions []string
}
