package session

import (
	"time"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
)

// View is a point-in-time copy of a session, safe to hand to callers
type View struct {
	SessionID string               `json:"sessionId"`
	UserID    string               `json:"userId"`
	Email     string               `json:"email,omitempty"`
	Loading   bool                 `json:"loading"`
	Roster    pokemon.Roster       `json:"roster"`
	Count     int                  `json:"count"`
	Capacity  int                  `json:"capacity"`
	Selection Selection            `json:"selection"`
	Selected  *pokemon.RosterEntry `json:"selected,omitempty"`
	Moves     []MoveOption         `json:"moves,omitempty"`
	Notice    *Notice              `json:"notice,omitempty"`
	Closed    bool                 `json:"closed,omitempty"`
	Version   uint64               `json:"version"`
}

// MoveOption is one available move of the open entry. Taken marks a name
// already held by a slot.
type MoveOption struct {
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	Taken bool   `json:"taken"`
}

// Notice is the most recent failed action, cleared by the next action
type Notice struct {
	Reason  string    `json:"reason,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// AssignMoveInput defines the input for assigning a move to the active slot
type AssignMoveInput struct {
	Move pokemon.Move
}

// DeleteEntryInput defines the input for deleting an entry. An empty
// EntryID targets the open entry.
type DeleteEntryInput struct {
	EntryID string
	Confirm bool
}
