package roster

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/roster-api/internal/errors"
	"github.com/KirkDiggler/roster-api/internal/orchestrators/session"
)

// StartSession opens a live session over the user's roster
func (o *Orchestrator) StartSession(ctx context.Context, input *StartSessionInput) (*SessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.UserID == "" {
		return nil, errors.Unauthenticated("a signed-in user is required")
	}

	sess, err := session.New(ctx, &session.Config{
		ID:         o.idGen.Generate(),
		UserID:     input.UserID,
		Email:      input.Email,
		Repository: o.rosterRepo,
		Capacity:   o.capacity,
		Clock:      o.clock,
		Logger:     o.logger,
		Metrics:    o.metrics,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to start session")
	}

	o.mu.Lock()
	o.sessions[sess.ID()] = sess
	o.mu.Unlock()

	return &SessionOutput{View: sess.View()}, nil
}

// EndSession closes a session and its feed
func (o *Orchestrator) EndSession(_ context.Context, input *SessionInput) (*EndSessionOutput, error) {
	sess, err := o.lookup(input)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	delete(o.sessions, sess.ID())
	o.mu.Unlock()

	sess.Close()
	return &EndSessionOutput{}, nil
}

// Logout ends every session the user holds
func (o *Orchestrator) Logout(_ context.Context, input *LogoutInput) (*LogoutOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.UserID == "" {
		return nil, errors.Unauthenticated("a signed-in user is required")
	}

	ended := o.remove(func(s *session.Session) bool { return s.UserID() == input.UserID })

	o.logger.Info("user logged out",
		zap.String("user_id", input.UserID),
		zap.Int("sessions_ended", len(ended)),
	)
	return &LogoutOutput{EndedSessions: ended}, nil
}

// GetSession returns the current view of a session
func (o *Orchestrator) GetSession(_ context.Context, input *SessionInput) (*SessionOutput, error) {
	sess, err := o.lookup(input)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{View: sess.View()}, nil
}

// WatchSession streams a session's views until ctx ends or the session
// ends
func (o *Orchestrator) WatchSession(ctx context.Context, input *SessionInput) (*WatchSessionOutput, error) {
	sess, err := o.lookup(input)
	if err != nil {
		return nil, err
	}
	return &WatchSessionOutput{Views: sess.Watch(ctx)}, nil
}

// OpenEntry opens an entry in a session
func (o *Orchestrator) OpenEntry(ctx context.Context, input *OpenEntryInput) (*SessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.apply(&input.SessionInput, func(s *session.Session) (session.View, error) {
		return s.OpenEntry(ctx, input.EntryID)
	})
}

// CloseEntry closes the open entry of a session
func (o *Orchestrator) CloseEntry(ctx context.Context, input *SessionInput) (*SessionOutput, error) {
	return o.apply(input, func(s *session.Session) (session.View, error) {
		return s.CloseEntry(ctx)
	})
}

// SelectSlot changes the active slot
func (o *Orchestrator) SelectSlot(ctx context.Context, input *SelectSlotInput) (*SessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.apply(&input.SessionInput, func(s *session.Session) (session.View, error) {
		return s.SelectSlot(ctx, input.SlotIndex)
	})
}

// AssignMove assigns a move to the active slot of the open entry
func (o *Orchestrator) AssignMove(ctx context.Context, input *AssignMoveInput) (*SessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.apply(&input.SessionInput, func(s *session.Session) (session.View, error) {
		return s.AssignMove(ctx, &session.AssignMoveInput{Move: input.Move})
	})
}

// RemoveMove clears a slot of the open entry
func (o *Orchestrator) RemoveMove(ctx context.Context, input *RemoveMoveInput) (*SessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.apply(&input.SessionInput, func(s *session.Session) (session.View, error) {
		return s.RemoveMove(ctx, input.SlotIndex)
	})
}

// DeleteEntry deletes an entry after confirmation
func (o *Orchestrator) DeleteEntry(ctx context.Context, input *DeleteEntryInput) (*SessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return o.apply(&input.SessionInput, func(s *session.Session) (session.View, error) {
		return s.DeleteEntry(ctx, &session.DeleteEntryInput{EntryID: input.EntryID, Confirm: input.Confirm})
	})
}

// SweepIdle ends sessions with no user action for longer than the idle
// timeout. A zero timeout disables the sweep.
func (o *Orchestrator) SweepIdle(_ context.Context, _ *SweepIdleInput) (*SweepIdleOutput, error) {
	if o.idleTimeout == 0 {
		return &SweepIdleOutput{}, nil
	}

	cutoff := o.clock.Now().Add(-o.idleTimeout)
	ended := o.remove(func(s *session.Session) bool { return s.LastActive().Before(cutoff) })

	if len(ended) > 0 {
		o.logger.Info("idle sessions ended", zap.Strings("session_ids", ended))
	}
	return &SweepIdleOutput{EndedSessions: ended}, nil
}

// RunSweeper calls SweepIdle every interval until ctx ends
func (o *Orchestrator) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.InvalidArgument("sweep interval must be positive")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := o.SweepIdle(ctx, &SweepIdleInput{}); err != nil {
				o.logger.Warn("session sweep failed", zap.Error(err))
			}
		}
	}
}

// Close ends every session
func (o *Orchestrator) Close() {
	o.remove(func(*session.Session) bool { return true })
}

// lookup finds a session and checks that the caller owns it
func (o *Orchestrator) lookup(input *SessionInput) (*session.Session, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.UserID == "" {
		return nil, errors.Unauthenticated("a signed-in user is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("sessionID is required")
	}

	o.mu.Lock()
	sess, ok := o.sessions[input.SessionID]
	o.mu.Unlock()

	if !ok {
		return nil, errors.NotFoundf("session %s not found", input.SessionID)
	}
	if sess.UserID() != input.UserID {
		return nil, errors.PermissionDenied("session belongs to another user")
	}
	return sess, nil
}

func (o *Orchestrator) apply(input *SessionInput, op func(*session.Session) (session.View, error)) (*SessionOutput, error) {
	sess, err := o.lookup(input)
	if err != nil {
		return nil, err
	}

	view, err := op(sess)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{View: view}, nil
}

// remove unregisters every session matching and closes them outside the
// registry lock. The ended ids are returned sorted.
func (o *Orchestrator) remove(match func(*session.Session) bool) []string {
	var ended []*session.Session

	o.mu.Lock()
	for id, sess := range o.sessions {
		if match(sess) {
			ended = append(ended, sess)
			delete(o.sessions, id)
		}
	}
	o.mu.Unlock()

	ids := make([]string, 0, len(ended))
	for _, sess := range ended {
		sess.Close()
		ids = append(ids, sess.ID())
	}
	sort.Strings(ids)
	return ids
}
