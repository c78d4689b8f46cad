package external

import (
	"github.com/mtslzr/pokeapi-go/structs"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
)

// toSpeciesRecord keeps the fields a roster entry is built from. Moves are
// flattened from the nested {move: {name, url}} shape.
func toSpeciesRecord(p *structs.Pokemon) *pokemon.SpeciesRecord {
	record := &pokemon.SpeciesRecord{
		Name:   p.Name,
		Sprite: p.Sprites.FrontDefault,
		Stats:  make([]pokemon.Stat, 0, len(p.Stats)),
		Moves:  make([]pokemon.MoveDescriptor, 0, len(p.Moves)),
	}

	for _, s := range p.Stats {
		record.Stats = append(record.Stats, pokemon.Stat{
			Name:      s.Stat.Name,
			BaseValue: s.BaseStat,
		})
	}

	for _, m := range p.Moves {
		if m.Move.Name == "" {
			continue
		}
		record.Moves = append(record.Moves, pokemon.MoveDescriptor{
			Name: m.Move.Name,
			URL:  m.Move.URL,
		})
	}

	return record
}
