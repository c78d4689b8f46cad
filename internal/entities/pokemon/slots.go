package pokemon

import (
	"encoding/json"
)

// SlotCount is the number of move slots on every roster entry
const SlotCount = 4

// MoveSlots is the fixed move array of a roster entry. A nil slot is empty.
type MoveSlots [SlotCount]*MoveDescriptor

// UnmarshalJSON accepts arrays of any length and any move shape. Short or
// missing arrays are padded with empty slots, extra elements are dropped.
func (s *MoveSlots) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out MoveSlots
	for i := 0; i < len(raw) && i < SlotCount; i++ {
		m, err := ParseMove(raw[i])
		if err != nil {
			return err
		}
		out[i] = ToStorable(m)
	}
	*s = out
	return nil
}

// FirstEmpty returns the first empty slot, or 0 when every slot is filled
func (s MoveSlots) FirstEmpty() int {
	for i, m := range s {
		if m == nil {
			return i
		}
	}
	return 0
}

// IndexOf returns the slot holding name, or -1
func (s MoveSlots) IndexOf(name string) int {
	for i, m := range s {
		if m == nil {
			continue
		}
		if n, ok := CanonicalName(m); ok && n == name {
			return i
		}
	}
	return -1
}

// Names returns the canonical name per slot, "" for empty slots
func (s MoveSlots) Names() [SlotCount]string {
	var names [SlotCount]string
	for i, m := range s {
		if m == nil {
			continue
		}
		names[i], _ = CanonicalName(m)
	}
	return names
}

// Clone returns a deep copy
func (s MoveSlots) Clone() MoveSlots {
	var out MoveSlots
	for i, m := range s {
		out[i] = ToStorable(m)
	}
	return out
}

// ValidSlot reports whether index addresses a slot
func ValidSlot(index int) bool {
	return index >= 0 && index < SlotCount
}

// NextSlot is the slot that becomes active after an assignment to index
func NextSlot(index int) int {
	return (index + 1) % SlotCount
}
