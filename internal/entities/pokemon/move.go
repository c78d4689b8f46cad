package pokemon

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/roster-api/internal/errors"
)

// Move is any of the shapes a move arrives in: a flat descriptor, the nested
// species-API shape, or a bare name string.
type Move interface {
	isMove()
}

// MoveRef is a named reference as the species API returns it
type MoveRef struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// MoveDescriptor is the flat, storable move shape. OriginalData keeps the
// nested payload a descriptor was normalized from.
type MoveDescriptor struct {
	Name         string      `json:"name"`
	URL          string      `json:"url,omitempty"`
	OriginalData *NestedMove `json:"originalData,omitempty"`
}

// NestedMove is the {move: {name, url}} shape used by species lookups. Raw
// holds the payload as received when it carries more than the move, sibling
// fields such as version_group_details included, and is what gets written
// back out.
type NestedMove struct {
	Move MoveRef         `json:"move"`
	Raw  json.RawMessage `json:"-"`
}

type plainNestedMove NestedMove

// MarshalJSON writes Raw when present, else the bare {move: ...} shape
func (n NestedMove) MarshalJSON() ([]byte, error) {
	if len(n.Raw) > 0 {
		return n.Raw, nil
	}
	return json.Marshal(plainNestedMove(n))
}

// UnmarshalJSON decodes Move and keeps any extra fields in Raw
func (n *NestedMove) UnmarshalJSON(data []byte) error {
	var p plainNestedMove
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = NestedMove(p)
	n.Raw = extraRaw(data, n.Move)
	return nil
}

// extraRaw returns data compacted, or nil when it holds nothing beyond move
// so that copies with and without a round trip compare equal
func extraRaw(data []byte, move MoveRef) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return append(json.RawMessage(nil), data...)
	}
	bare, err := json.Marshal(plainNestedMove{Move: move})
	if err == nil && bytes.Equal(bare, buf.Bytes()) {
		return nil
	}
	return buf.Bytes()
}

func copyNested(n *NestedMove) *NestedMove {
	c := *n
	c.Raw = append(json.RawMessage(nil), n.Raw...)
	return &c
}

// RawMove is a move given only by name
type RawMove string

func (MoveDescriptor) isMove() {}
func (NestedMove) isMove()     {}
func (RawMove) isMove()        {}

// CanonicalName returns the name used for every equality and duplicate check.
// ok is false when the move carries no usable name.
func CanonicalName(m Move) (name string, ok bool) {
	switch v := m.(type) {
	case MoveDescriptor:
		return descriptorName(&v)
	case *MoveDescriptor:
		if v == nil {
			return "", false
		}
		return descriptorName(v)
	case NestedMove:
		return v.Move.Name, v.Move.Name != ""
	case *NestedMove:
		if v == nil {
			return "", false
		}
		return v.Move.Name, v.Move.Name != ""
	case RawMove:
		return string(v), v != ""
	default:
		return "", false
	}
}

func descriptorName(d *MoveDescriptor) (string, bool) {
	if d.Name != "" {
		return d.Name, true
	}
	if d.OriginalData != nil && d.OriginalData.Move.Name != "" {
		return d.OriginalData.Move.Name, true
	}
	return "", false
}

// ToStorable converts a move into the shape written to a slot. Flat
// descriptors are returned as a copy, nested moves keep their payload in
// OriginalData, raw names become a bare descriptor and nil stays nil.
func ToStorable(m Move) *MoveDescriptor {
	switch v := m.(type) {
	case MoveDescriptor:
		return copyDescriptor(&v)
	case *MoveDescriptor:
		if v == nil {
			return nil
		}
		return copyDescriptor(v)
	case NestedMove:
		return &MoveDescriptor{Name: v.Move.Name, OriginalData: copyNested(&v)}
	case *NestedMove:
		if v == nil {
			return nil
		}
		return &MoveDescriptor{Name: v.Move.Name, OriginalData: copyNested(v)}
	case RawMove:
		return &MoveDescriptor{Name: string(v)}
	default:
		return nil
	}
}

func copyDescriptor(d *MoveDescriptor) *MoveDescriptor {
	c := *d
	if d.OriginalData != nil {
		c.OriginalData = copyNested(d.OriginalData)
	}
	return &c
}

// ParseMove decodes a move from any of its JSON shapes. JSON null yields a nil
// Move. An object with an empty or missing name falls back to its nested
// move. An object with no name at all still parses; callers reject it
// through CanonicalName.
func ParseMove(data []byte) (Move, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.InvalidMove("move is not valid JSON")
	}

	result := gjson.ParseBytes(data)
	switch result.Type {
	case gjson.Null:
		return nil, nil
	case gjson.String:
		return RawMove(result.String()), nil
	case gjson.JSON:
		if !result.IsObject() {
			return nil, errors.InvalidMove("move must be an object or a string")
		}
	default:
		return nil, errors.InvalidMove("move must be an object or a string")
	}

	name := result.Get("name")
	nested := result.Get("move")
	if name.String() == "" && nested.IsObject() {
		return parseNested(result), nil
	}

	if name.Exists() {
		d := MoveDescriptor{
			Name: name.String(),
			URL:  result.Get("url").String(),
		}
		if orig := result.Get("originalData"); orig.Get("move").IsObject() {
			n := parseNested(orig)
			d.OriginalData = &n
		}
		return d, nil
	}

	return MoveDescriptor{}, nil
}

// parseNested reads a {move: {...}, ...} object, keeping every field in Raw
func parseNested(obj gjson.Result) NestedMove {
	move := obj.Get("move")
	ref := MoveRef{
		Name: move.Get("name").String(),
		URL:  move.Get("url").String(),
	}
	return NestedMove{Move: ref, Raw: extraRaw([]byte(obj.Raw), ref)}
}
