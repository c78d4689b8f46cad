package session

import (
	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/pkg/metrics"
)

// Selection is the open entry and its active slot. An empty EntryID means
// no entry is open.
type Selection struct {
	EntryID   string `json:"entryId,omitempty"`
	SlotIndex int    `json:"slotIndex"`
}

// IsOpen reports whether an entry is open
func (s Selection) IsOpen() bool {
	return s.EntryID != ""
}

// State is the part of a session a snapshot can change. Selected is the
// live copy of the open entry and is nil when nothing is open.
type State struct {
	Roster    pokemon.Roster
	Selection Selection
	Selected  *pokemon.RosterEntry
}

// Reconcile merges a fresh snapshot into prev. The roster is replaced, except
// that an entry the session already holds at a higher Revision keeps the
// local copy: a snapshot loaded before a write can be delivered after it. An
// open entry keeps its Selected pointer when the snapshot copy is deeply
// equal or older, takes the snapshot copy when it changed, and closes when
// the entry is gone. The returned outcome is one of the metrics.Snapshot*
// values.
func Reconcile(prev State, snapshot pokemon.Roster) (State, string) {
	next := State{Roster: keepNewer(prev.Roster, snapshot)}
	if !prev.Selection.IsOpen() {
		return next, metrics.SnapshotNoSelect
	}

	fresh := next.Roster.Find(prev.Selection.EntryID)
	switch {
	case fresh == nil:
		return next, metrics.SnapshotVanished
	case fresh.Equal(prev.Selected) || fresh.OlderThan(prev.Selected):
		next.Selection = prev.Selection
		next.Selected = prev.Selected
		return next, metrics.SnapshotKept
	default:
		next.Selection = prev.Selection
		next.Selected = fresh
		return next, metrics.SnapshotReplaced
	}
}

// keepNewer returns snapshot with any entry older than its copy in local
// swapped for the local copy. snapshot itself is not modified.
func keepNewer(local, snapshot pokemon.Roster) pokemon.Roster {
	var out pokemon.Roster
	for i, fresh := range snapshot {
		held := local.Find(fresh.ID)
		if !fresh.OlderThan(held) {
			continue
		}
		if out == nil {
			out = append(pokemon.Roster(nil), snapshot...)
		}
		out[i] = held
	}
	if out == nil {
		return snapshot
	}
	return out
}
