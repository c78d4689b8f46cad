package testutils

import (
	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
)

// TestUserID is the default owner for test rosters
const TestUserID = "user-test-001"

// PikachuRecord returns a species record with four moves
func PikachuRecord() *pokemon.SpeciesRecord {
	return &pokemon.SpeciesRecord{
		Name:   "pikachu",
		Sprite: "https://example.test/sprites/pokemon/25.png",
		Stats: []pokemon.Stat{
			{Name: "hp", BaseValue: 35},
			{Name: "attack", BaseValue: 55},
			{Name: "defense", BaseValue: 40},
			{Name: "speed", BaseValue: 90},
		},
		Moves: []pokemon.MoveDescriptor{
			{Name: "thunder-shock", URL: "https://example.test/move/84/"},
			{Name: "growl", URL: "https://example.test/move/45/"},
			{Name: "tail-whip", URL: "https://example.test/move/39/"},
			{Name: "quick-attack", URL: "https://example.test/move/98/"},
		},
	}
}

// BulbasaurRecord returns a species record whose moves include tackle
func BulbasaurRecord() *pokemon.SpeciesRecord {
	return &pokemon.SpeciesRecord{
		Name:   "bulbasaur",
		Sprite: "https://example.test/sprites/pokemon/1.png",
		Stats: []pokemon.Stat{
			{Name: "hp", BaseValue: 45},
			{Name: "attack", BaseValue: 49},
		},
		Moves: []pokemon.MoveDescriptor{
			{Name: "tackle"},
			{Name: "growl"},
			{Name: "vine-whip"},
			{Name: "leech-seed"},
			{Name: "razor-leaf"},
		},
	}
}

// EntryWithMoves builds an unsaved bulbasaur entry with the given slot names.
// An empty name leaves the slot empty.
func EntryWithMoves(names ...string) *pokemon.RosterEntry {
	entry := BulbasaurRecord().NewEntry()
	for i, name := range names {
		if i >= pokemon.SlotCount {
			break
		}
		if name != "" {
			entry.SelectedMoves[i] = &pokemon.MoveDescriptor{Name: name}
		}
	}
	return entry
}
