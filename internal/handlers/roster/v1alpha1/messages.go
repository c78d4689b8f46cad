package v1alpha1

import (
	"encoding/json"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/orchestrators/session"
)

// LookupSpeciesRequest searches the species database
type LookupSpeciesRequest struct {
	Query string `json:"query"`
}

// LookupSpeciesResponse carries the species found
type LookupSpeciesResponse struct {
	Species *pokemon.SpeciesRecord `json:"species"`
	Cached  bool                   `json:"cached"`
}

// AddToRosterRequest adds a species to the caller's roster
type AddToRosterRequest struct {
	Query string `json:"query"`
}

// AddToRosterResponse carries the stored entry
type AddToRosterResponse struct {
	Entry *pokemon.RosterEntry `json:"entry"`
}

// ListRosterRequest lists the caller's roster
type ListRosterRequest struct{}

// ListRosterResponse carries the roster in arrival order
type ListRosterResponse struct {
	Roster   pokemon.Roster `json:"roster"`
	Count    int            `json:"count"`
	Capacity int            `json:"capacity"`
}

// StartSessionRequest opens a live session for the caller
type StartSessionRequest struct{}

// SessionRequest addresses one of the caller's sessions
type SessionRequest struct {
	SessionID string `json:"sessionId"`
}

// SessionResponse carries a session view
type SessionResponse struct {
	View session.View `json:"view"`
}

// EndSessionResponse acknowledges a closed session
type EndSessionResponse struct{}

// LogoutRequest ends every session of the caller
type LogoutRequest struct{}

// LogoutResponse lists the ended sessions
type LogoutResponse struct {
	EndedSessions []string `json:"endedSessions"`
}

// OpenEntryRequest opens an entry in a session
type OpenEntryRequest struct {
	SessionID string `json:"sessionId"`
	EntryID   string `json:"entryId"`
}

// SelectSlotRequest changes the active slot
type SelectSlotRequest struct {
	SessionID string `json:"sessionId"`
	SlotIndex int    `json:"slotIndex"`
}

// AssignMoveRequest assigns a move to the active slot. Move accepts a flat
// {name}, a nested {move: {name}} or a bare name string.
type AssignMoveRequest struct {
	SessionID string          `json:"sessionId"`
	Move      json.RawMessage `json:"move"`
}

// RemoveMoveRequest clears a slot
type RemoveMoveRequest struct {
	SessionID string `json:"sessionId"`
	SlotIndex int    `json:"slotIndex"`
}

// DeleteEntryRequest deletes an entry. An empty EntryID targets the open
// entry.
type DeleteEntryRequest struct {
	SessionID string `json:"sessionId"`
	EntryID   string `json:"entryId,omitempty"`
	Confirm   bool   `json:"confirm"`
}
