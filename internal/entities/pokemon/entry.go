// Package pokemon holds the roster domain types: species records from the
// lookup API, roster entries and their move slots.
package pokemon

import (
	"fmt"
	"reflect"
	"slices"
	"time"
)

// RosterCapacity is the default number of entries a roster may hold
const RosterCapacity = 6

// Stat is a named base stat, fixed at creation
type Stat struct {
	Name      string `json:"name"`
	BaseValue int    `json:"base_stat"`
}

// SpeciesRecord is the result of a species lookup
type SpeciesRecord struct {
	Name   string           `json:"name"`
	Sprite string           `json:"sprite"`
	Stats  []Stat           `json:"stats"`
	Moves  []MoveDescriptor `json:"moves"`
}

// NewEntry builds the data for a roster entry from the record. ID and
// CreatedAt are left for the store to assign, and every slot starts empty.
func (r *SpeciesRecord) NewEntry() *RosterEntry {
	entry := &RosterEntry{
		Name:           r.Name,
		Sprite:         r.Sprite,
		Stats:          append([]Stat(nil), r.Stats...),
		AvailableMoves: make([]MoveDescriptor, 0, len(r.Moves)),
	}
	for _, m := range r.Moves {
		entry.AvailableMoves = append(entry.AvailableMoves, *ToStorable(m))
	}
	return entry
}

// RosterEntry is one creature on a user's roster. SelectedMoves is the only
// field that changes after creation. Revision counts stored updates, so of
// two copies of the same entry the higher Revision is the newer one.
type RosterEntry struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Sprite         string           `json:"sprite"`
	Stats          []Stat           `json:"stats"`
	AvailableMoves []MoveDescriptor `json:"moves"`
	SelectedMoves  MoveSlots        `json:"selectedMoves"`
	Revision       uint64           `json:"revision"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// OlderThan reports whether e is a copy of other from before other's last
// stored update
func (e *RosterEntry) OlderThan(other *RosterEntry) bool {
	return e != nil && other != nil && e.ID == other.ID && e.Revision < other.Revision
}

// HasMove reports whether name is one of the entry's available moves
func (e *RosterEntry) HasMove(name string) bool {
	for _, m := range e.AvailableMoves {
		if n, ok := CanonicalName(m); ok && n == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy
func (e *RosterEntry) Clone() *RosterEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.Stats = append([]Stat(nil), e.Stats...)
	c.AvailableMoves = make([]MoveDescriptor, len(e.AvailableMoves))
	for i := range e.AvailableMoves {
		c.AvailableMoves[i] = *ToStorable(e.AvailableMoves[i])
	}
	c.SelectedMoves = e.SelectedMoves.Clone()
	return &c
}

// Equal reports deep equality. CreatedAt is compared by instant.
func (e *RosterEntry) Equal(other *RosterEntry) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.ID == other.ID &&
		e.Name == other.Name &&
		e.Sprite == other.Sprite &&
		e.Revision == other.Revision &&
		e.CreatedAt.Equal(other.CreatedAt) &&
		slices.Equal(e.Stats, other.Stats) &&
		slices.EqualFunc(e.AvailableMoves, other.AvailableMoves, func(a, b MoveDescriptor) bool {
			return reflect.DeepEqual(a, b)
		}) &&
		reflect.DeepEqual(e.SelectedMoves, other.SelectedMoves)
}

// Problems lists the ways a stored entry breaks the slot rules: a slot
// without a name, or a name held by more than one slot. Moves outside
// AvailableMoves are reported but left alone by Repair.
func (e *RosterEntry) Problems() []string {
	var problems []string
	if e.ID == "" {
		problems = append(problems, "missing id")
	}
	seen := make(map[string]int, SlotCount)
	for i, m := range e.SelectedMoves {
		if m == nil {
			continue
		}
		name, ok := CanonicalName(m)
		if !ok {
			problems = append(problems, fmt.Sprintf("slot %d has no move name", i))
			continue
		}
		if first, dup := seen[name]; dup {
			problems = append(problems, fmt.Sprintf("slot %d repeats %s from slot %d", i, name, first))
			continue
		}
		seen[name] = i
		if !e.HasMove(name) {
			problems = append(problems, fmt.Sprintf("slot %d holds %s, which is not available", i, name))
		}
	}
	return problems
}

// Repair empties unnamed slots and every repeat of a move after its first
// slot. It reports whether anything changed.
func (e *RosterEntry) Repair() bool {
	changed := false
	seen := make(map[string]bool, SlotCount)
	for i, m := range e.SelectedMoves {
		if m == nil {
			continue
		}
		name, ok := CanonicalName(m)
		if !ok || seen[name] {
			e.SelectedMoves[i] = nil
			changed = true
			continue
		}
		seen[name] = true
	}
	return changed
}

// Roster is a user's entries ordered by arrival
type Roster []*RosterEntry

// Find returns the entry with id, or nil
func (r Roster) Find(id string) *RosterEntry {
	for _, e := range r {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Clone returns a deep copy
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	out := make(Roster, len(r))
	for i, e := range r {
		out[i] = e.Clone()
	}
	return out
}
