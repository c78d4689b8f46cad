package pokemon_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
)

type EntryTestSuite struct {
	suite.Suite
	record *pokemon.SpeciesRecord
}

func TestEntrySuite(t *testing.T) {
	suite.Run(t, new(EntryTestSuite))
}

func (s *EntryTestSuite) SetupTest() {
	s.record = &pokemon.SpeciesRecord{
		Name:   "pikachu",
		Sprite: "https://example.test/sprites/25.png",
		Stats:  []pokemon.Stat{{Name: "hp", BaseValue: 35}, {Name: "speed", BaseValue: 90}},
		Moves: []pokemon.MoveDescriptor{
			{Name: "thunder-shock"}, {Name: "growl"}, {Name: "tail-whip"}, {Name: "quick-attack"},
		},
	}
}

func (s *EntryTestSuite) TestNewEntry() {
	entry := s.record.NewEntry()

	s.Empty(entry.ID)
	s.Equal("pikachu", entry.Name)
	s.Equal(s.record.Sprite, entry.Sprite)
	s.Equal(s.record.Stats, entry.Stats)
	s.Len(entry.AvailableMoves, 4)
	s.Equal(pokemon.MoveSlots{}, entry.SelectedMoves)
	s.True(entry.HasMove("growl"))
	s.False(entry.HasMove("ember"))
}

func (s *EntryTestSuite) TestCloneIsIndependent() {
	entry := s.record.NewEntry()
	entry.ID = "e1"
	entry.SelectedMoves[0] = &pokemon.MoveDescriptor{Name: "growl"}

	clone := entry.Clone()
	s.True(entry.Equal(clone))

	clone.SelectedMoves[0].Name = "tackle"
	clone.Stats[0].BaseValue = 1
	s.Equal("growl", entry.SelectedMoves[0].Name)
	s.Equal(35, entry.Stats[0].BaseValue)
	s.False(entry.Equal(clone))
}

func (s *EntryTestSuite) TestEqual() {
	created := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	a := s.record.NewEntry()
	a.ID = "e1"
	a.CreatedAt = created

	b := a.Clone()
	b.CreatedAt = created.In(time.FixedZone("x", 3600))
	b.Stats = append([]pokemon.Stat{}, a.Stats...)
	s.True(a.Equal(b))

	b.SelectedMoves[3] = &pokemon.MoveDescriptor{Name: "growl"}
	s.False(a.Equal(b))

	s.True((*pokemon.RosterEntry)(nil).Equal(nil))
	s.False(a.Equal(nil))
}

func (s *EntryTestSuite) TestRosterFind() {
	roster := pokemon.Roster{{ID: "a"}, {ID: "b"}}
	s.Equal("b", roster.Find("b").ID)
	s.Nil(roster.Find("c"))
}

func (s *EntryTestSuite) TestProblemsAndRepair() {
	entry := s.record.NewEntry()
	entry.ID = "e1"
	s.Empty(entry.Problems())

	entry.SelectedMoves = pokemon.MoveSlots{
		{Name: "growl"},
		{URL: "https://example.test/move/1"},
		{OriginalData: &pokemon.NestedMove{Move: pokemon.MoveRef{Name: "growl"}}},
		{Name: "ember"},
	}
	s.Equal([]string{
		"slot 1 has no move name",
		"slot 2 repeats growl from slot 0",
		"slot 3 holds ember, which is not available",
	}, entry.Problems())

	s.True(entry.Repair())
	s.Equal([4]string{"growl", "", "", "ember"}, entry.SelectedMoves.Names())
	s.Equal([]string{"slot 3 holds ember, which is not available"}, entry.Problems())
	s.False(entry.Repair())
}
