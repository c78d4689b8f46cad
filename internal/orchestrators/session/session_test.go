package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
	"github.com/KirkDiggler/roster-api/internal/orchestrators/session"
	"github.com/KirkDiggler/roster-api/internal/pkg/clock"
	"github.com/KirkDiggler/roster-api/internal/pkg/idgen"
	"github.com/KirkDiggler/roster-api/internal/repositories/roster"
	"github.com/KirkDiggler/roster-api/internal/testutils"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var sessionStart = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

// SessionTestSuite drives sessions against the in-memory store and its
// live feed
type SessionTestSuite struct {
	suite.Suite
	ctx   context.Context
	clock *clock.Manual
	repo  *roster.InMemoryRepository
	sess  *session.Session
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (s *SessionTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewManual(sessionStart)

	repo, err := roster.NewInMemory(roster.Options{
		Clock:       s.clock,
		IDGenerator: idgen.NewSequential("entry"),
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *SessionTestSuite) TearDownTest() {
	if s.sess != nil {
		s.sess.Close()
		s.sess = nil
	}
}

func (s *SessionTestSuite) start() {
	sess, err := session.New(s.ctx, &session.Config{
		ID:         "sess_1",
		UserID:     testutils.TestUserID,
		Email:      "ash@example.test",
		Repository: s.repo,
		Clock:      s.clock,
	})
	s.Require().NoError(err)
	s.sess = sess
	s.awaitView(func(v session.View) bool { return !v.Loading })
}

func (s *SessionTestSuite) seed(entry *pokemon.RosterEntry) *pokemon.RosterEntry {
	out, err := s.repo.Create(s.ctx, &roster.CreateInput{UserID: testutils.TestUserID, Entry: entry})
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	return out.Entry
}

func (s *SessionTestSuite) stored(entryID string) *pokemon.RosterEntry {
	out, err := s.repo.Get(s.ctx, &roster.GetInput{UserID: testutils.TestUserID, EntryID: entryID})
	s.Require().NoError(err)
	return out.Entry
}

func (s *SessionTestSuite) awaitView(match func(session.View) bool) session.View {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()

	for v := range s.sess.Watch(ctx) {
		if match(v) {
			return v
		}
	}
	s.FailNow("timed out waiting for session view")
	return session.View{}
}

func (s *SessionTestSuite) TestAddedEntryAppearsInView() {
	s.start()
	view := s.sess.View()
	s.Equal(0, view.Count)
	s.Equal(pokemon.RosterCapacity, view.Capacity)
	s.Equal("ash@example.test", view.Email)

	created := s.seed(testutils.PikachuRecord().NewEntry())

	view = s.awaitView(func(v session.View) bool { return v.Count == 1 })
	s.Equal(created.ID, view.Roster[0].ID)
	s.Equal(pokemon.MoveSlots{}, view.Roster[0].SelectedMoves)
	s.Len(view.Roster[0].AvailableMoves, 4)
	s.False(view.Selection.IsOpen())
}

func (s *SessionTestSuite) TestOpenEntryStartsAtFirstEmptySlot() {
	empty := s.seed(testutils.EntryWithMoves())
	partial := s.seed(testutils.EntryWithMoves("tackle", "growl"))
	full := s.seed(testutils.EntryWithMoves("tackle", "growl", "vine-whip", "leech-seed"))
	s.start()

	testCases := []struct {
		entryID  string
		wantSlot int
	}{
		{empty.ID, 0},
		{partial.ID, 2},
		{full.ID, 0},
	}

	for _, tc := range testCases {
		view, err := s.sess.OpenEntry(s.ctx, tc.entryID)
		s.Require().NoError(err)
		s.Equal(session.Selection{EntryID: tc.entryID, SlotIndex: tc.wantSlot}, view.Selection)
		s.Equal(tc.entryID, view.Selected.ID)
	}

	_, err := s.sess.OpenEntry(s.ctx, "entry_404")
	s.True(errors.IsNotFound(err))
}

func (s *SessionTestSuite) TestAssignAdvancesAndPersists() {
	entry := s.seed(testutils.PikachuRecord().NewEntry())
	s.start()

	_, err := s.sess.OpenEntry(s.ctx, entry.ID)
	s.Require().NoError(err)

	moves := []pokemon.Move{
		pokemon.RawMove("thunder-shock"),
		pokemon.NestedMove{Move: pokemon.MoveRef{Name: "growl"}},
		pokemon.MoveDescriptor{Name: "tail-whip"},
		&pokemon.MoveDescriptor{Name: "quick-attack"},
	}
	wantSlots := []int{1, 2, 3, 0}

	for i, m := range moves {
		view, err := s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: m})
		s.Require().NoError(err)
		s.Equal(wantSlots[i], view.Selection.SlotIndex)
	}

	want := [4]string{"thunder-shock", "growl", "tail-whip", "quick-attack"}
	s.Equal(want, s.stored(entry.ID).SelectedMoves.Names())

	view := s.sess.View()
	s.Equal(want, view.Selected.SelectedMoves.Names())
	s.Require().NotNil(view.Selected.SelectedMoves[1].OriginalData)
	s.Equal("growl", view.Selected.SelectedMoves[1].OriginalData.Move.Name)
	for _, opt := range view.Moves {
		s.True(opt.Taken, opt.Name)
	}
}

func (s *SessionTestSuite) TestAssignOverwritesActiveSlot() {
	entry := s.seed(testutils.EntryWithMoves("tackle", "growl"))
	s.start()

	_, err := s.sess.OpenEntry(s.ctx, entry.ID)
	s.Require().NoError(err)
	_, err = s.sess.SelectSlot(s.ctx, 0)
	s.Require().NoError(err)

	view, err := s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("vine-whip")})
	s.Require().NoError(err)
	s.Equal([4]string{"vine-whip", "growl", "", ""}, view.Selected.SelectedMoves.Names())
	s.Equal(1, view.Selection.SlotIndex)
}

func (s *SessionTestSuite) TestAssignDuplicateLeavesSlotsUnchanged() {
	entry := s.seed(testutils.EntryWithMoves("tackle"))
	s.start()

	view, err := s.sess.OpenEntry(s.ctx, entry.ID)
	s.Require().NoError(err)
	s.Equal(1, view.Selection.SlotIndex)

	view, err = s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("tackle")})
	s.Require().Error(err)
	s.True(errors.IsDuplicateMove(err))

	s.Equal([4]string{"tackle", "", "", ""}, view.Selected.SelectedMoves.Names())
	s.Equal(1, view.Selection.SlotIndex)
	s.Require().NotNil(view.Notice)
	s.Equal(string(errors.ReasonDuplicateMove), view.Notice.Reason)
	s.Equal([4]string{"tackle", "", "", ""}, s.stored(entry.ID).SelectedMoves.Names())

	// the next action clears the notice
	view, err = s.sess.SelectSlot(s.ctx, 2)
	s.Require().NoError(err)
	s.Nil(view.Notice)
}

func (s *SessionTestSuite) TestAssignRejectsInvalidMoves() {
	entry := s.seed(testutils.EntryWithMoves())
	s.start()

	_, err := s.sess.OpenEntry(s.ctx, entry.ID)
	s.Require().NoError(err)

	testCases := []struct {
		name string
		move pokemon.Move
	}{
		{"nil move", nil},
		{"empty raw name", pokemon.RawMove("")},
		{"nameless descriptor", pokemon.MoveDescriptor{URL: "https://example.test/move/1"}},
		{"not available", pokemon.RawMove("thunderbolt")},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			view, err := s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: tc.move})
			s.Require().Error(err)
			s.True(errors.IsInvalidMove(err))
			s.Equal(0, view.Selection.SlotIndex)
		})
	}

	s.Equal(pokemon.MoveSlots{}, s.stored(entry.ID).SelectedMoves)
}

func (s *SessionTestSuite) TestRemoveMove() {
	entry := s.seed(testutils.EntryWithMoves("tackle", "growl"))
	s.start()

	_, err := s.sess.OpenEntry(s.ctx, entry.ID)
	s.Require().NoError(err)

	view, err := s.sess.RemoveMove(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal([4]string{"", "growl", "", ""}, view.Selected.SelectedMoves.Names())
	s.Equal(0, view.Selection.SlotIndex)

	again, err := s.sess.RemoveMove(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(view.Selected.SelectedMoves.Names(), again.Selected.SelectedMoves.Names())
	s.Equal(0, again.Selection.SlotIndex)

	s.Equal([4]string{"", "growl", "", ""}, s.stored(entry.ID).SelectedMoves.Names())

	_, err = s.sess.RemoveMove(s.ctx, 4)
	s.Equal(errors.CodeOutOfRange, errors.GetCode(err))
}

func (s *SessionTestSuite) TestNoDuplicatesAcrossEditSequence() {
	entry := s.seed(testutils.EntryWithMoves())
	s.start()

	_, err := s.sess.OpenEntry(s.ctx, entry.ID)
	s.Require().NoError(err)

	steps := []func(){
		func() { _, _ = s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("tackle")}) },
		func() { _, _ = s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("tackle")}) },
		func() { _, _ = s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("growl")}) },
		func() { _, _ = s.sess.RemoveMove(s.ctx, 0) },
		func() { _, _ = s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("growl")}) },
		func() { _, _ = s.sess.SelectSlot(s.ctx, 3) },
		func() { _, _ = s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("tackle")}) },
		func() { _, _ = s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("vine-whip")}) },
	}

	for _, step := range steps {
		step()
		seen := map[string]bool{}
		for _, name := range s.sess.View().Selected.SelectedMoves.Names() {
			if name == "" {
				continue
			}
			s.False(seen[name], "duplicate %s", name)
			seen[name] = true
		}
	}
}

func (s *SessionTestSuite) TestSlotOperationsNeedOpenEntry() {
	s.seed(testutils.EntryWithMoves())
	s.start()

	_, err := s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("tackle")})
	s.True(errors.IsNoSelection(err))

	_, err = s.sess.RemoveMove(s.ctx, 0)
	s.True(errors.IsNoSelection(err))

	view, err := s.sess.SelectSlot(s.ctx, 2)
	s.Require().NoError(err)
	s.False(view.Selection.IsOpen())
	s.Equal(0, view.Selection.SlotIndex)
}

func (s *SessionTestSuite) TestSelectSlot() {
	entry := s.seed(testutils.EntryWithMoves())
	s.start()

	_, err := s.sess.OpenEntry(s.ctx, entry.ID)
	s.Require().NoError(err)

	view, err := s.sess.SelectSlot(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal(3, view.Selection.SlotIndex)

	view, err = s.sess.SelectSlot(s.ctx, -1)
	s.Equal(errors.CodeOutOfRange, errors.GetCode(err))
	s.Equal(3, view.Selection.SlotIndex)
}

func (s *SessionTestSuite) TestCloseEntry() {
	entry := s.seed(testutils.EntryWithMoves())
	s.start()

	_, err := s.sess.OpenEntry(s.ctx, entry.ID)
	s.Require().NoError(err)

	view, err := s.sess.CloseEntry(s.ctx)
	s.Require().NoError(err)
	s.False(view.Selection.IsOpen())
	s.Nil(view.Selected)
	s.Empty(view.Moves)

	// closing twice is fine
	_, err = s.sess.CloseEntry(s.ctx)
	s.Require().NoError(err)
}

func (s *SessionTestSuite) TestRemoteDeleteClosesSelection() {
	entry := s.seed(testutils.EntryWithMoves("tackle"))
	s.start()

	_, err := s.sess.OpenEntry(s.ctx, entry.ID)
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, &roster.DeleteInput{UserID: testutils.TestUserID, EntryID: entry.ID})
	s.Require().NoError(err)

	view := s.awaitView(func(v session.View) bool { return !v.Selection.IsOpen() })
	s.Nil(view.Selected)
	s.Equal(0, view.Count)

	_, err = s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("growl")})
	s.True(errors.IsNoSelection(err))
	_, err = s.sess.RemoveMove(s.ctx, 0)
	s.True(errors.IsNoSelection(err))
}

func (s *SessionTestSuite) TestRemoteUpdateBecomesVisible() {
	entry := s.seed(testutils.EntryWithMoves())
	s.start()

	_, err := s.sess.OpenEntry(s.ctx, entry.ID)
	s.Require().NoError(err)

	slots := pokemon.MoveSlots{nil, nil, {Name: "vine-whip"}, nil}
	_, err = s.repo.UpdateFields(s.ctx, &roster.UpdateFieldsInput{
		UserID:  testutils.TestUserID,
		EntryID: entry.ID,
		Fields:  roster.EntryFields{SelectedMoves: &slots},
	})
	s.Require().NoError(err)

	view := s.awaitView(func(v session.View) bool {
		return v.Selected != nil && v.Selected.SelectedMoves.IndexOf("vine-whip") == 2
	})
	s.Equal(entry.ID, view.Selection.EntryID)
	for _, opt := range view.Moves {
		s.Equal(opt.Name == "vine-whip", opt.Taken, opt.Name)
	}
}

func (s *SessionTestSuite) TestDeleteEntry() {
	first := s.seed(testutils.EntryWithMoves())
	second := s.seed(testutils.PikachuRecord().NewEntry())
	s.start()

	_, err := s.sess.DeleteEntry(s.ctx, &session.DeleteEntryInput{Confirm: true})
	s.True(errors.IsNoSelection(err))

	_, err = s.sess.OpenEntry(s.ctx, first.ID)
	s.Require().NoError(err)

	view, err := s.sess.DeleteEntry(s.ctx, &session.DeleteEntryInput{})
	s.Require().Error(err)
	s.Equal(errors.ReasonConfirmationRequired, errors.GetReason(err))
	s.Equal(first.ID, view.Selection.EntryID)

	view, err = s.sess.DeleteEntry(s.ctx, &session.DeleteEntryInput{Confirm: true})
	s.Require().NoError(err)
	s.False(view.Selection.IsOpen())
	s.Equal(1, view.Count)

	// deleting by id leaves an unrelated selection alone
	third := s.seed(testutils.EntryWithMoves())
	s.awaitView(func(v session.View) bool { return v.Count == 2 })
	_, err = s.sess.OpenEntry(s.ctx, third.ID)
	s.Require().NoError(err)

	view, err = s.sess.DeleteEntry(s.ctx, &session.DeleteEntryInput{EntryID: second.ID, Confirm: true})
	s.Require().NoError(err)
	s.Equal(third.ID, view.Selection.EntryID)

	list, err := s.repo.List(s.ctx, &roster.ListInput{UserID: testutils.TestUserID})
	s.Require().NoError(err)
	s.Len(list.Roster, 1)
	s.Equal(third.ID, list.Roster[0].ID)
}

func (s *SessionTestSuite) TestClosedSessionRejectsActions() {
	s.seed(testutils.EntryWithMoves())
	s.start()

	watch := s.sess.Watch(s.ctx)
	s.sess.Close()
	s.sess.Close()

	var last session.View
	for v := range watch {
		last = v
	}
	s.True(last.Closed)

	_, err := s.sess.OpenEntry(s.ctx, "entry_1")
	s.Equal(errors.ReasonSessionClosed, errors.GetReason(err))
	_, err = s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("tackle")})
	s.Equal(errors.ReasonSessionClosed, errors.GetReason(err))

	// no snapshot lands after close
	before := s.sess.View()
	s.seed(testutils.PikachuRecord().NewEntry())
	time.Sleep(50 * time.Millisecond)
	s.Equal(before.Count, s.sess.View().Count)

	_, open := <-s.sess.Watch(s.ctx)
	s.True(open)
}

func (s *SessionTestSuite) TestActionsTouchLastActive() {
	s.start()
	s.Equal(sessionStart, s.sess.LastActive())

	s.clock.Advance(time.Minute)
	_, err := s.sess.CloseEntry(s.ctx)
	s.Require().NoError(err)
	s.Equal(sessionStart.Add(time.Minute), s.sess.LastActive())
}

func (s *SessionTestSuite) TestViewIsACopy() {
	entry := s.seed(testutils.EntryWithMoves("tackle"))
	s.start()

	view, err := s.sess.OpenEntry(s.ctx, entry.ID)
	s.Require().NoError(err)

	view.Selected.SelectedMoves[0].Name = "changed"
	view.Roster[0].Name = "changed"

	again := s.sess.View()
	s.Equal("tackle", again.Selected.SelectedMoves[0].Name)
	s.Equal("bulbasaur", again.Roster[0].Name)
	if diff := cmp.Diff(again, s.sess.View(), cmpopts.IgnoreFields(session.View{}, "Version")); diff != "" {
		s.Failf("views differ", "(-first +second):\n%s", diff)
	}
}
