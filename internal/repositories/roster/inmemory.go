package roster

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
)

// InMemoryRepository implements Repository using process memory. Its feed
// only reaches subscribers in the same process.
type InMemoryRepository struct {
	opts Options

	mu      sync.RWMutex
	rosters map[string]pokemon.Roster
	feed    *hub
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemory creates a new in-memory repository
func NewInMemory(opts Options) (*InMemoryRepository, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, errors.Wrap(err, "invalid options")
	}

	return &InMemoryRepository{
		opts:    opts,
		rosters: make(map[string]pokemon.Roster),
		feed:    newHub(),
	}, nil
}

// Create stores a new entry
func (r *InMemoryRepository) Create(_ context.Context, input *CreateInput) (*CreateOutput, error) {
	defer r.opts.Metrics.StoreOp("create", time.Now())
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	entry := input.Entry.Clone()
	entry.ID = r.opts.IDGenerator.Generate()
	entry.CreatedAt = r.opts.Clock.Now()

	r.mu.Lock()
	roster := r.rosters[input.UserID]
	if len(roster) >= r.opts.Capacity {
		r.mu.Unlock()
		return nil, errors.RosterFullf(errRosterFull, len(roster)).WithMeta("user_id", input.UserID)
	}
	r.rosters[input.UserID] = append(roster, entry)
	r.mu.Unlock()

	r.feed.publish(input.UserID)
	return &CreateOutput{Entry: entry.Clone()}, nil
}

// List returns the roster ordered by arrival
func (r *InMemoryRepository) List(_ context.Context, input *ListInput) (*ListOutput, error) {
	defer r.opts.Metrics.StoreOp("list", time.Now())
	if err := validateUser(input); err != nil {
		return nil, err
	}
	return &ListOutput{Roster: r.snapshot(input.UserID)}, nil
}

func (r *InMemoryRepository) snapshot(userID string) pokemon.Roster {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.rosters[userID].Clone()
	if out == nil {
		out = pokemon.Roster{}
	}
	return out
}

// Get returns one entry
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateEntryRef(input.UserID, input.EntryID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entry := r.rosters[input.UserID].Find(input.EntryID)
	if entry == nil {
		return nil, errors.NotFoundf(errEntryNotFound, input.EntryID)
	}
	return &GetOutput{Entry: entry.Clone()}, nil
}

// UpdateFields applies a partial update
func (r *InMemoryRepository) UpdateFields(_ context.Context, input *UpdateFieldsInput) (*UpdateFieldsOutput, error) {
	defer r.opts.Metrics.StoreOp("update_fields", time.Now())
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateEntryRef(input.UserID, input.EntryID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	entry := r.rosters[input.UserID].Find(input.EntryID)
	if entry == nil {
		r.mu.Unlock()
		return nil, errors.NotFoundf(errEntryNotFound, input.EntryID)
	}
	applyFields(entry, input.Fields)
	updated := entry.Clone()
	r.mu.Unlock()

	r.feed.publish(input.UserID)
	return &UpdateFieldsOutput{Entry: updated}, nil
}

// Delete removes an entry
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	defer r.opts.Metrics.StoreOp("delete", time.Now())
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateEntryRef(input.UserID, input.EntryID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	roster := r.rosters[input.UserID]
	idx := -1
	for i, e := range roster {
		if e.ID == input.EntryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return nil, errors.NotFoundf(errEntryNotFound, input.EntryID)
	}
	r.rosters[input.UserID] = append(roster[:idx:idx], roster[idx+1:]...)
	r.mu.Unlock()

	r.feed.publish(input.UserID)
	return &DeleteOutput{}, nil
}

// Subscribe starts a live feed of the user's roster
func (r *InMemoryRepository) Subscribe(ctx context.Context, input *SubscribeInput) (*SubscribeOutput, error) {
	if err := validateSubscribe(input); err != nil {
		return nil, err
	}

	load := func(context.Context) (pokemon.Roster, error) {
		return r.snapshot(input.UserID), nil
	}
	return subscribeLocal(ctx, r.feed, input, load, r.opts.Logger), nil
}
