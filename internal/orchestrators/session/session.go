// Package session implements the per-session controller: it holds the
// selection, reconciles the live roster feed against it and applies slot
// edits through the roster store.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
	"github.com/KirkDiggler/roster-api/internal/pkg/clock"
	"github.com/KirkDiggler/roster-api/internal/pkg/logging"
	"github.com/KirkDiggler/roster-api/internal/pkg/metrics"
	"github.com/KirkDiggler/roster-api/internal/repositories/roster"
)

// Slot operation names used for metrics and logs
const (
	opAssign = "assign"
	opRemove = "remove"
	opDelete = "delete"
)

// Config holds the dependencies for a session
type Config struct {
	ID         string
	UserID     string
	Email      string
	Repository roster.Repository
	Capacity   int
	Clock      clock.Clock
	Logger     *zap.Logger
	Metrics    *metrics.Recorder
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("ID", c.ID, vb)
	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Capacity < 0 {
		vb.InvalidField("Capacity", "cannot be negative")
	}
	return vb.Build()
}

// Session is one authenticated user's live view of their roster. User
// actions and snapshot deliveries are applied one at a time under mu.
type Session struct {
	id       string
	userID   string
	email    string
	repo     roster.Repository
	capacity int
	clock    clock.Clock
	logger   *zap.Logger
	metrics  *metrics.Recorder

	mu          sync.Mutex
	state       State
	loading     bool
	notice      *Notice
	version     uint64
	lastActive  time.Time
	closed      bool
	unsubscribe func()
	watchers    map[uint64]chan View
	nextWatcher uint64
	done        chan struct{}
}

// New creates a session and opens its roster feed. A config without a
// user is rejected before any subscription is made.
func New(ctx context.Context, cfg *Config) (*Session, error) {
	if cfg != nil && cfg.UserID == "" {
		return nil, errors.Unauthenticated("session requires a signed-in user")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	capacity := cfg.Capacity
	if capacity == 0 {
		capacity = pokemon.RosterCapacity
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	s := &Session{
		id:         cfg.ID,
		userID:     cfg.UserID,
		email:      cfg.Email,
		repo:       cfg.Repository,
		capacity:   capacity,
		clock:      clk,
		logger:     logging.OrNop(cfg.Logger).With(zap.String("session_id", cfg.ID), zap.String("user_id", cfg.UserID)),
		metrics:    cfg.Metrics,
		state:      State{Roster: pokemon.Roster{}},
		loading:    true,
		lastActive: clk.Now(),
		watchers:   make(map[uint64]chan View),
		done:       make(chan struct{}),
	}

	sub, err := s.repo.Subscribe(ctx, &roster.SubscribeInput{
		UserID:     s.userID,
		OnSnapshot: s.applySnapshot,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to subscribe to roster")
	}

	s.mu.Lock()
	s.unsubscribe = sub.Unsubscribe
	s.mu.Unlock()

	s.metrics.SessionStarted()
	s.logger.Info("session started")
	return s, nil
}

// Done is closed when the session ends
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// UserID returns the owning user
func (s *Session) UserID() string {
	return s.userID
}

// LastActive returns when a user action last touched the session
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// View returns the current view
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Close ends the feed and every watcher. No snapshot is applied once Close
// returns. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.version++
	final := s.viewLocked()
	for id, ch := range s.watchers {
		offer(ch, final)
		close(ch)
		delete(s.watchers, id)
	}
	unsubscribe := s.unsubscribe
	close(s.done)
	s.mu.Unlock()

	// outside mu: Unsubscribe waits for an in-flight delivery, which needs mu
	if unsubscribe != nil {
		unsubscribe()
	}

	s.metrics.SessionEnded()
	s.logger.Info("session ended")
}

func (s *Session) applySnapshot(snapshot pokemon.Roster) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.metrics.Snapshot(metrics.SnapshotDropped)
		return
	}

	prev := s.state
	next, outcome := Reconcile(prev, snapshot)
	s.state = next
	s.loading = false
	s.metrics.Snapshot(outcome)

	if outcome == metrics.SnapshotVanished {
		s.logger.Debug("open entry vanished from roster", zap.String("entry_id", prev.Selection.EntryID))
	}
	s.publishLocked()
}

// OpenEntry opens an entry from the current roster. The active slot starts
// at the first empty slot, or 0 when all are filled.
func (s *Session) OpenEntry(_ context.Context, entryID string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLocked(); err != nil {
		return s.viewLocked(), err
	}
	if entryID == "" {
		return s.failLocked("", errors.InvalidArgument("entry ID cannot be empty"))
	}

	entry := s.state.Roster.Find(entryID)
	if entry == nil {
		return s.failLocked("", errors.NotFoundf("roster entry %s not found", entryID))
	}

	s.state.Selection = Selection{EntryID: entry.ID, SlotIndex: entry.SelectedMoves.FirstEmpty()}
	s.state.Selected = entry
	s.publishLocked()
	return s.viewLocked(), nil
}

// CloseEntry closes the open entry. Always allowed.
func (s *Session) CloseEntry(_ context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLocked(); err != nil {
		return s.viewLocked(), err
	}

	s.closeSelectionLocked()
	s.publishLocked()
	return s.viewLocked(), nil
}

// SelectSlot makes index the active slot. With no entry open it does
// nothing.
func (s *Session) SelectSlot(_ context.Context, index int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLocked(); err != nil {
		return s.viewLocked(), err
	}
	if !s.state.Selection.IsOpen() {
		return s.viewLocked(), nil
	}
	if !pokemon.ValidSlot(index) {
		return s.failLocked("", errors.OutOfRangef("slot %d is outside 0..%d", index, pokemon.SlotCount-1))
	}

	s.state.Selection.SlotIndex = index
	s.publishLocked()
	return s.viewLocked(), nil
}

// AssignMove places a move in the active slot, saves all four slots and
// advances the active slot. Nothing local changes unless the save succeeds.
func (s *Session) AssignMove(ctx context.Context, input *AssignMoveInput) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLocked(); err != nil {
		return s.viewLocked(), err
	}
	if input == nil {
		return s.failLocked(opAssign, errors.InvalidArgument("input is required"))
	}
	if !s.state.Selection.IsOpen() {
		return s.failLocked(opAssign, errors.NoSelection("open an entry before assigning moves"))
	}

	entry := s.state.Selected
	name, ok := pokemon.CanonicalName(input.Move)
	if !ok {
		return s.failLocked(opAssign, errors.InvalidMove("move has no name"))
	}
	if idx := entry.SelectedMoves.IndexOf(name); idx >= 0 {
		return s.failLocked(opAssign, errors.DuplicateMovef("%s is already in slot %d", name, idx).
			WithMeta("move", name))
	}
	if !entry.HasMove(name) {
		return s.failLocked(opAssign, errors.InvalidMove(name+" is not available to "+entry.Name).
			WithMeta("move", name))
	}

	slot := s.state.Selection.SlotIndex
	slots := entry.SelectedMoves.Clone()
	slots[slot] = pokemon.ToStorable(input.Move)

	if err := s.saveSlotsLocked(ctx, entry.ID, slots); err != nil {
		return s.failLocked(opAssign, err)
	}

	s.state.Selection.SlotIndex = pokemon.NextSlot(slot)
	s.metrics.SlotOp(opAssign, "")
	s.publishLocked()
	return s.viewLocked(), nil
}

// RemoveMove empties a slot, saves, and makes that slot active. Removing
// from an empty slot skips the write but still moves the active slot.
func (s *Session) RemoveMove(ctx context.Context, index int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLocked(); err != nil {
		return s.viewLocked(), err
	}
	if !s.state.Selection.IsOpen() {
		return s.failLocked(opRemove, errors.NoSelection("open an entry before removing moves"))
	}
	if !pokemon.ValidSlot(index) {
		return s.failLocked(opRemove, errors.OutOfRangef("slot %d is outside 0..%d", index, pokemon.SlotCount-1))
	}

	entry := s.state.Selected
	if entry.SelectedMoves[index] != nil {
		slots := entry.SelectedMoves.Clone()
		slots[index] = nil
		if err := s.saveSlotsLocked(ctx, entry.ID, slots); err != nil {
			return s.failLocked(opRemove, err)
		}
	}

	s.state.Selection.SlotIndex = index
	s.metrics.SlotOp(opRemove, "")
	s.publishLocked()
	return s.viewLocked(), nil
}

// DeleteEntry removes an entry from the roster. It needs explicit
// confirmation. On success a deleted open entry is closed; on failure the
// selection is kept.
func (s *Session) DeleteEntry(ctx context.Context, input *DeleteEntryInput) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLocked(); err != nil {
		return s.viewLocked(), err
	}
	if input == nil {
		return s.failLocked(opDelete, errors.InvalidArgument("input is required"))
	}

	entryID := input.EntryID
	if entryID == "" {
		if !s.state.Selection.IsOpen() {
			return s.failLocked(opDelete, errors.NoSelection("no entry selected for delete"))
		}
		entryID = s.state.Selection.EntryID
	}
	if !input.Confirm {
		return s.failLocked(opDelete, errors.ConfirmationRequired("deleting an entry must be confirmed").
			WithMeta("entry_id", entryID))
	}

	_, err := s.repo.Delete(ctx, &roster.DeleteInput{UserID: s.userID, EntryID: entryID})
	if err != nil {
		return s.failLocked(opDelete, errors.Persistence(err, "failed to delete entry"))
	}

	if s.state.Selection.EntryID == entryID {
		s.closeSelectionLocked()
	}
	s.state.Roster = without(s.state.Roster, entryID)
	s.metrics.SlotOp(opDelete, "")
	s.publishLocked()
	return s.viewLocked(), nil
}

// saveSlotsLocked writes slots and reflects the stored entry locally
func (s *Session) saveSlotsLocked(ctx context.Context, entryID string, slots pokemon.MoveSlots) error {
	out, err := s.repo.UpdateFields(ctx, &roster.UpdateFieldsInput{
		UserID:  s.userID,
		EntryID: entryID,
		Fields:  roster.EntryFields{SelectedMoves: &slots},
	})
	if err != nil {
		return errors.Persistence(err, "failed to save moves")
	}

	updated := out.Entry
	s.state.Selected = updated
	next := make(pokemon.Roster, len(s.state.Roster))
	for i, e := range s.state.Roster {
		if e.ID == entryID {
			next[i] = updated
			continue
		}
		next[i] = e
	}
	s.state.Roster = next
	return nil
}

// beginLocked starts a user action
func (s *Session) beginLocked() error {
	if s.closed {
		return errors.SessionClosed("session has ended").WithMeta("session_id", s.id)
	}
	s.lastActive = s.clock.Now()
	s.notice = nil
	return nil
}

// failLocked posts err as the session notice and returns it
func (s *Session) failLocked(op string, err error) (View, error) {
	reason := errors.GetReason(err)
	s.notice = &Notice{
		Reason:  reason.String(),
		Message: errors.GetMessage(err),
		At:      s.clock.Now(),
	}
	if op != "" {
		s.metrics.SlotOp(op, reason.String())
	}
	if errors.IsPersistence(err) {
		s.logger.Warn("store write failed", zap.String("op", op), zap.Error(err))
	}
	s.publishLocked()
	return s.viewLocked(), err
}

func (s *Session) closeSelectionLocked() {
	s.state.Selection = Selection{}
	s.state.Selected = nil
}

func (s *Session) viewLocked() View {
	v := View{
		SessionID: s.id,
		UserID:    s.userID,
		Email:     s.email,
		Loading:   s.loading,
		Roster:    s.state.Roster.Clone(),
		Count:     len(s.state.Roster),
		Capacity:  s.capacity,
		Selection: s.state.Selection,
		Closed:    s.closed,
		Version:   s.version,
	}
	if s.notice != nil {
		n := *s.notice
		v.Notice = &n
	}
	if entry := s.state.Selected; entry != nil {
		v.Selected = entry.Clone()
		v.Moves = moveOptions(entry)
	}
	return v
}

func moveOptions(entry *pokemon.RosterEntry) []MoveOption {
	opts := make([]MoveOption, 0, len(entry.AvailableMoves))
	for _, m := range entry.AvailableMoves {
		name, ok := pokemon.CanonicalName(m)
		if !ok {
			continue
		}
		opts = append(opts, MoveOption{
			Name:  name,
			URL:   m.URL,
			Taken: entry.SelectedMoves.IndexOf(name) >= 0,
		})
	}
	return opts
}

func without(r pokemon.Roster, entryID string) pokemon.Roster {
	out := make(pokemon.Roster, 0, len(r))
	for _, e := range r {
		if e.ID != entryID {
			out = append(out, e)
		}
	}
	return out
}
