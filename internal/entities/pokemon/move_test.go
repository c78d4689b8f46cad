package pokemon_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
)

type MoveTestSuite struct {
	suite.Suite
}

func TestMoveSuite(t *testing.T) {
	suite.Run(t, new(MoveTestSuite))
}

func (s *MoveTestSuite) TestCanonicalName() {
	testCases := []struct {
		name     string
		move     pokemon.Move
		wantName string
		wantOK   bool
	}{
		{"flat", pokemon.MoveDescriptor{Name: "tackle"}, "tackle", true},
		{"flat pointer", &pokemon.MoveDescriptor{Name: "growl"}, "growl", true},
		{"nested", pokemon.NestedMove{Move: pokemon.MoveRef{Name: "thunder-shock"}}, "thunder-shock", true},
		{"raw", pokemon.RawMove("quick-attack"), "quick-attack", true},
		{
			"flat falls back to original data",
			pokemon.MoveDescriptor{OriginalData: &pokemon.NestedMove{Move: pokemon.MoveRef{Name: "tail-whip"}}},
			"tail-whip", true,
		},
		{"nil", nil, "", false},
		{"nil pointer", (*pokemon.MoveDescriptor)(nil), "", false},
		{"flat without name", pokemon.MoveDescriptor{URL: "https://example.test/move/1"}, "", false},
		{"nested without name", pokemon.NestedMove{}, "", false},
		{"empty raw", pokemon.RawMove(""), "", false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			name, ok := pokemon.CanonicalName(tc.move)
			s.Equal(tc.wantOK, ok)
			s.Equal(tc.wantName, name)
		})
	}
}

func (s *MoveTestSuite) TestToStorableKeepsCanonicalName() {
	moves := []pokemon.Move{
		pokemon.MoveDescriptor{Name: "tackle", URL: "https://example.test/move/33"},
		pokemon.NestedMove{Move: pokemon.MoveRef{Name: "growl", URL: "https://example.test/move/45"}},
		pokemon.RawMove("thunderbolt"),
		pokemon.NestedMove{},
	}

	for _, m := range moves {
		before, okBefore := pokemon.CanonicalName(m)
		after, okAfter := pokemon.CanonicalName(pokemon.ToStorable(m))
		s.Equal(okBefore, okAfter)
		s.Equal(before, after)
	}
}

func (s *MoveTestSuite) TestToStorableShapes() {
	s.Nil(pokemon.ToStorable(nil))
	s.Nil(pokemon.ToStorable((*pokemon.MoveDescriptor)(nil)))

	flat := pokemon.MoveDescriptor{Name: "tackle", URL: "u"}
	s.Equal(&flat, pokemon.ToStorable(flat))

	nested := pokemon.NestedMove{Move: pokemon.MoveRef{Name: "growl", URL: "u"}}
	s.Equal(&pokemon.MoveDescriptor{Name: "growl", OriginalData: &nested}, pokemon.ToStorable(nested))

	s.Equal(&pokemon.MoveDescriptor{Name: "ember"}, pokemon.ToStorable(pokemon.RawMove("ember")))
}

func (s *MoveTestSuite) TestToStorableCopies() {
	orig := &pokemon.MoveDescriptor{Name: "tackle", OriginalData: &pokemon.NestedMove{Move: pokemon.MoveRef{Name: "tackle"}}}
	stored := pokemon.ToStorable(orig)

	stored.OriginalData.Move.URL = "changed"
	s.Empty(orig.OriginalData.Move.URL)
}

func (s *MoveTestSuite) TestParseMove() {
	testCases := []struct {
		name    string
		input   string
		want    pokemon.Move
		wantErr bool
	}{
		{
			name:  "flat",
			input: `{"name":"tackle","url":"https://example.test/move/33"}`,
			want:  pokemon.MoveDescriptor{Name: "tackle", URL: "https://example.test/move/33"},
		},
		{
			name:  "nested",
			input: `{"move":{"name":"growl","url":"https://example.test/move/45"},"version_group_details":[]}`,
			want: pokemon.NestedMove{
				Move: pokemon.MoveRef{Name: "growl", URL: "https://example.test/move/45"},
				Raw:  json.RawMessage(`{"move":{"name":"growl","url":"https://example.test/move/45"},"version_group_details":[]}`),
			},
		},
		{
			name:  "bare nested",
			input: `{"move":{"name":"growl"}}`,
			want:  pokemon.NestedMove{Move: pokemon.MoveRef{Name: "growl"}},
		},
		{
			name:  "empty name falls back to nested",
			input: `{"name":"","move":{"name":"growl"}}`,
			want: pokemon.NestedMove{
				Move: pokemon.MoveRef{Name: "growl"},
				Raw:  json.RawMessage(`{"name":"","move":{"name":"growl"}}`),
			},
		},
		{
			name:  "stored nested",
			input: `{"name":"growl","originalData":{"move":{"name":"growl"}}}`,
			want: pokemon.MoveDescriptor{
				Name:         "growl",
				OriginalData: &pokemon.NestedMove{Move: pokemon.MoveRef{Name: "growl"}},
			},
		},
		{name: "raw string", input: `"ember"`, want: pokemon.RawMove("ember")},
		{name: "null", input: `null`, want: nil},
		{name: "empty object", input: `{}`, want: pokemon.MoveDescriptor{}},
		{name: "array", input: `["tackle"]`, wantErr: true},
		{name: "number", input: `42`, wantErr: true},
		{name: "malformed", input: `{"name":`, wantErr: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, err := pokemon.ParseMove([]byte(tc.input))
			if tc.wantErr {
				s.Require().Error(err)
				s.True(errors.IsInvalidMove(err))
				return
			}
			s.Require().NoError(err)
			s.Equal(tc.want, got)
		})
	}
}

func (s *MoveTestSuite) TestEmptyNameResolvesThroughNestedMove() {
	move, err := pokemon.ParseMove([]byte(`{"name":"","move":{"name":"growl"}}`))
	s.Require().NoError(err)

	name, ok := pokemon.CanonicalName(move)
	s.True(ok)
	s.Equal("growl", name)
}

func (s *MoveTestSuite) TestStoredNestedMoveKeepsSiblingFields() {
	input := `{"move":{"name":"growl","url":"https://example.test/move/45"},` +
		`"version_group_details":[{"level_learned_at":1,"move_learn_method":{"name":"level-up"}}]}`

	move, err := pokemon.ParseMove([]byte(input))
	s.Require().NoError(err)

	stored := pokemon.ToStorable(move)
	data, err := json.Marshal(stored)
	s.Require().NoError(err)
	s.JSONEq(`{"name":"growl","originalData":`+input+`}`, string(data))

	var decoded pokemon.MoveDescriptor
	s.Require().NoError(json.Unmarshal(data, &decoded))
	s.Equal(*stored, decoded)

	clone := pokemon.ToStorable(stored)
	clone.OriginalData.Raw[0] = ' '
	s.Equal(byte('{'), stored.OriginalData.Raw[0])
}
