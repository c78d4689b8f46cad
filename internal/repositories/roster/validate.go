package roster

import (
	"sort"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
)

const (
	// Error messages
	errInputNil      = "input is required"
	errUserIDEmpty   = "user ID cannot be empty"
	errEntryIDEmpty  = "entry ID cannot be empty"
	errEntryNil      = "entry is required"
	errCallbackNil   = "snapshot callback is required"
	errEntryNotFound = "roster entry %s not found"
	errRosterFull    = "roster already holds %d entries"
)

func validateCreate(input *CreateInput) error {
	if input == nil {
		return errors.InvalidArgument(errInputNil)
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("user_id", input.UserID, vb)
	if input.Entry == nil {
		vb.RequiredField("entry")
	} else {
		errors.ValidateRequired("entry.name", input.Entry.Name, vb)
	}
	return vb.Build()
}

func validateUser(input *ListInput) error {
	if input == nil {
		return errors.InvalidArgument(errInputNil)
	}
	if input.UserID == "" {
		return errors.InvalidArgument(errUserIDEmpty)
	}
	return nil
}

func validateEntryRef(userID, entryID string) error {
	if userID == "" {
		return errors.InvalidArgument(errUserIDEmpty)
	}
	if entryID == "" {
		return errors.InvalidArgument(errEntryIDEmpty)
	}
	return nil
}

func validateSubscribe(input *SubscribeInput) error {
	if input == nil {
		return errors.InvalidArgument(errInputNil)
	}
	if input.UserID == "" {
		return errors.InvalidArgument(errUserIDEmpty)
	}
	if input.OnSnapshot == nil {
		return errors.InvalidArgument(errCallbackNil)
	}
	return nil
}

// applyFields updates entry in place. Every applied field bumps Revision.
func applyFields(entry *pokemon.RosterEntry, fields EntryFields) {
	if fields.SelectedMoves != nil {
		entry.SelectedMoves = fields.SelectedMoves.Clone()
		entry.Revision++
	}
}

// sortByArrival orders entries by CreatedAt, then ID
func sortByArrival(roster pokemon.Roster) {
	sort.SliceStable(roster, func(i, j int) bool {
		a, b := roster[i], roster[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
