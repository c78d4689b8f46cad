package session_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
	"github.com/KirkDiggler/roster-api/internal/orchestrators/session"
	"github.com/KirkDiggler/roster-api/internal/pkg/clock"
	"github.com/KirkDiggler/roster-api/internal/repositories/roster"
	rostermock "github.com/KirkDiggler/roster-api/internal/repositories/roster/mock"
	"github.com/KirkDiggler/roster-api/internal/testutils"
)

// SessionStoreTestSuite uses a mocked store so snapshots and store failures
// happen exactly when the test says
type SessionStoreTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	mockRepo *rostermock.MockRepository
	ctx      context.Context

	deliver      roster.SnapshotFunc
	unsubscribed int
	sess         *session.Session
	entry        *pokemon.RosterEntry
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreTestSuite))
}

func (s *SessionStoreTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = rostermock.NewMockRepository(s.ctrl)
	s.ctx = context.Background()
	s.deliver = nil
	s.unsubscribed = 0

	s.entry = testutils.EntryWithMoves("tackle")
	s.entry.ID = "entry_1"
}

func (s *SessionStoreTestSuite) TearDownTest() {
	if s.sess != nil {
		s.sess.Close()
		s.sess = nil
	}
	s.ctrl.Finish()
}

func (s *SessionStoreTestSuite) start() {
	s.mockRepo.EXPECT().
		Subscribe(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *roster.SubscribeInput) (*roster.SubscribeOutput, error) {
			s.Equal(testutils.TestUserID, input.UserID)
			s.deliver = input.OnSnapshot
			return &roster.SubscribeOutput{Unsubscribe: func() { s.unsubscribed++ }}, nil
		})

	sess, err := session.New(s.ctx, &session.Config{
		ID:         "sess_1",
		UserID:     testutils.TestUserID,
		Repository: s.mockRepo,
		Clock:      clock.NewManual(sessionStart),
	})
	s.Require().NoError(err)
	s.sess = sess
}

func (s *SessionStoreTestSuite) openEntry() {
	s.deliver(pokemon.Roster{s.entry.Clone()})
	_, err := s.sess.OpenEntry(s.ctx, s.entry.ID)
	s.Require().NoError(err)
}

func (s *SessionStoreTestSuite) TestRequiresSignedInUser() {
	_, err := session.New(s.ctx, &session.Config{ID: "sess_1", Repository: s.mockRepo})
	s.True(errors.IsUnauthenticated(err))
}

func (s *SessionStoreTestSuite) TestConfigValidation() {
	_, err := session.New(s.ctx, &session.Config{UserID: testutils.TestUserID})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Repository")

	_, err = session.New(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *SessionStoreTestSuite) TestSubscribeFailure() {
	s.mockRepo.EXPECT().
		Subscribe(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("redis down"))

	_, err := session.New(s.ctx, &session.Config{
		ID:         "sess_1",
		UserID:     testutils.TestUserID,
		Repository: s.mockRepo,
	})
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *SessionStoreTestSuite) TestLoadingUntilFirstSnapshot() {
	s.start()
	s.True(s.sess.View().Loading)

	s.deliver(pokemon.Roster{})
	view := s.sess.View()
	s.False(view.Loading)
	s.NotNil(view.Roster)
	s.Equal(0, view.Count)
}

func (s *SessionStoreTestSuite) TestIdenticalSnapshotLeavesViewAlone() {
	s.start()
	s.openEntry()
	before := s.sess.View()

	s.deliver(pokemon.Roster{s.entry.Clone()})

	after := s.sess.View()
	if diff := cmp.Diff(before, after, cmpopts.IgnoreFields(session.View{}, "Version")); diff != "" {
		s.Failf("view changed", "(-before +after):\n%s", diff)
	}
}

func (s *SessionStoreTestSuite) TestAssignFailureKeepsLocalState() {
	s.start()
	s.openEntry()

	s.mockRepo.EXPECT().
		UpdateFields(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("redis down"))

	view, err := s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("growl")})
	s.Require().Error(err)
	s.True(errors.IsPersistence(err))
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))

	s.Equal([4]string{"tackle", "", "", ""}, view.Selected.SelectedMoves.Names())
	s.Equal(1, view.Selection.SlotIndex)
	s.Require().NotNil(view.Notice)
	s.Equal(string(errors.ReasonPersistence), view.Notice.Reason)
	s.Equal(sessionStart, view.Notice.At)
}

func (s *SessionStoreTestSuite) TestAssignWritesAllFourSlots() {
	s.start()
	s.openEntry()

	s.mockRepo.EXPECT().
		UpdateFields(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *roster.UpdateFieldsInput) (*roster.UpdateFieldsOutput, error) {
			s.Equal(s.entry.ID, input.EntryID)
			s.Require().NotNil(input.Fields.SelectedMoves)
			s.Equal([4]string{"tackle", "growl", "", ""}, input.Fields.SelectedMoves.Names())

			updated := s.entry.Clone()
			updated.SelectedMoves = input.Fields.SelectedMoves.Clone()
			return &roster.UpdateFieldsOutput{Entry: updated}, nil
		})

	view, err := s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("growl")})
	s.Require().NoError(err)
	s.Equal(2, view.Selection.SlotIndex)
	s.Equal([4]string{"tackle", "growl", "", ""}, view.Roster[0].SelectedMoves.Names())
}

func (s *SessionStoreTestSuite) TestRemoveFailureKeepsLocalState() {
	s.start()
	s.openEntry()
	_, err := s.sess.SelectSlot(s.ctx, 3)
	s.Require().NoError(err)

	s.mockRepo.EXPECT().
		UpdateFields(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("roster entry entry_1 not found"))

	view, err := s.sess.RemoveMove(s.ctx, 0)
	s.True(errors.IsPersistence(err))
	s.True(errors.IsNotFound(err))
	s.Equal(3, view.Selection.SlotIndex)
	s.Equal([4]string{"tackle", "", "", ""}, view.Selected.SelectedMoves.Names())
}

func (s *SessionStoreTestSuite) TestRemoveEmptySlotSkipsWrite() {
	s.start()
	s.openEntry()
	before := s.sess.View()

	view, err := s.sess.RemoveMove(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal([4]string{"tackle", "", "", ""}, view.Selected.SelectedMoves.Names())
	s.Equal(3, view.Selection.SlotIndex)
	s.Greater(view.Version, before.Version)
}

func (s *SessionStoreTestSuite) TestRemoveEmptySlotClearsNoticeForWatchers() {
	s.start()
	s.openEntry()

	_, err := s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("tackle")})
	s.Require().True(errors.IsDuplicateMove(err))

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	views := s.sess.Watch(ctx)
	s.NotNil((<-views).Notice)

	_, err = s.sess.RemoveMove(s.ctx, 2)
	s.Require().NoError(err)

	view := <-views
	s.Nil(view.Notice)
	s.Equal(2, view.Selection.SlotIndex)
}

// stored mimics the entry the store hands back after an update
func (s *SessionStoreTestSuite) stored(revision uint64, names ...string) *pokemon.RosterEntry {
	entry := testutils.EntryWithMoves(names...)
	entry.ID = s.entry.ID
	entry.Revision = revision
	return entry
}

func (s *SessionStoreTestSuite) TestSnapshotLoadedBeforeWriteDoesNotUndoIt() {
	s.start()
	s.openEntry()
	loadedBeforeWrite := pokemon.Roster{s.entry.Clone()}

	gomock.InOrder(
		s.mockRepo.EXPECT().
			UpdateFields(gomock.Any(), gomock.Any()).
			Return(&roster.UpdateFieldsOutput{Entry: s.stored(1, "tackle", "growl")}, nil),
		s.mockRepo.EXPECT().
			UpdateFields(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, input *roster.UpdateFieldsInput) (*roster.UpdateFieldsOutput, error) {
				s.Equal([4]string{"tackle", "growl", "vine-whip", ""}, input.Fields.SelectedMoves.Names())
				return &roster.UpdateFieldsOutput{Entry: s.stored(2, "tackle", "growl", "vine-whip")}, nil
			}),
	)

	_, err := s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("growl")})
	s.Require().NoError(err)

	// the feed read the roster before the write and delivers it afterwards
	s.deliver(loadedBeforeWrite)
	view := s.sess.View()
	s.Equal([4]string{"tackle", "growl", "", ""}, view.Selected.SelectedMoves.Names())
	s.Equal([4]string{"tackle", "growl", "", ""}, view.Roster[0].SelectedMoves.Names())
	s.Equal(2, view.Selection.SlotIndex)

	view, err = s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("vine-whip")})
	s.Require().NoError(err)
	s.Equal([4]string{"tackle", "growl", "vine-whip", ""}, view.Selected.SelectedMoves.Names())
}

func (s *SessionStoreTestSuite) TestNewerSnapshotStillReplacesAfterWrite() {
	s.start()
	s.openEntry()

	s.mockRepo.EXPECT().
		UpdateFields(gomock.Any(), gomock.Any()).
		Return(&roster.UpdateFieldsOutput{Entry: s.stored(1, "tackle", "growl")}, nil)

	_, err := s.sess.AssignMove(s.ctx, &session.AssignMoveInput{Move: pokemon.RawMove("growl")})
	s.Require().NoError(err)

	// another session wrote after us
	s.deliver(pokemon.Roster{s.stored(2, "razor-leaf")})
	view := s.sess.View()
	s.Equal([4]string{"razor-leaf", "", "", ""}, view.Selected.SelectedMoves.Names())
	s.Equal(2, view.Selection.SlotIndex)
}

func (s *SessionStoreTestSuite) TestDeleteFailureStaysOpen() {
	s.start()
	s.openEntry()

	s.mockRepo.EXPECT().
		Delete(gomock.Any(), &roster.DeleteInput{UserID: testutils.TestUserID, EntryID: s.entry.ID}).
		Return(nil, errors.Internal("disk full"))

	view, err := s.sess.DeleteEntry(s.ctx, &session.DeleteEntryInput{Confirm: true})
	s.True(errors.IsPersistence(err))
	s.Equal(s.entry.ID, view.Selection.EntryID)
	s.Equal(1, view.Count)
}

func (s *SessionStoreTestSuite) TestCloseUnsubscribesOnceAndDropsLateSnapshots() {
	s.start()
	s.deliver(pokemon.Roster{})

	s.sess.Close()
	s.sess.Close()
	s.Equal(1, s.unsubscribed)

	s.deliver(pokemon.Roster{s.entry.Clone()})
	view := s.sess.View()
	s.Equal(0, view.Count)
	s.True(view.Closed)
}
