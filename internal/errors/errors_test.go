package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/roster-api/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestErrorString() {
	testCases := []struct {
		name     string
		err      *errors.Error
		expected string
	}{
		{
			name:     "code only",
			err:      errors.NotFound("species not found"),
			expected: "NOT_FOUND: species not found",
		},
		{
			name:     "code and reason",
			err:      errors.DuplicateMovef("move %q already assigned", "tackle"),
			expected: `ALREADY_EXISTS(DUPLICATE_MOVE): move "tackle" already assigned`,
		},
		{
			name:     "with cause",
			err:      errors.Wrap(fmt.Errorf("dial tcp: refused"), "failed to list roster"),
			expected: "INTERNAL: failed to list roster: dial tcp: refused",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.err.Error())
		})
	}
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndReason() {
	base := errors.InvalidMove("move has no name")
	wrapped := errors.Wrap(base, "assign failed")

	s.Equal(errors.CodeInvalidArgument, wrapped.Code)
	s.Equal(errors.ReasonInvalidMove, wrapped.Reason)
	s.Equal(base, wrapped.Unwrap())
	s.True(errors.IsInvalidMove(wrapped))
	s.True(errors.IsInvalidArgument(wrapped))
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "nothing"))
	s.Nil(errors.Persistence(nil, "nothing"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeInternal, "nothing"))
}

func (s *ErrorsTestSuite) TestPersistenceKeepsStoreCode() {
	storeErr := errors.NotFoundf("roster entry %s not found", "e1")
	err := errors.Persistence(storeErr, "failed to save moves")

	s.True(errors.IsNotFound(err))
	s.True(errors.IsPersistence(err))
	s.False(errors.IsDuplicateMove(err))
}

func (s *ErrorsTestSuite) TestWrapWithCodeDropsReason() {
	err := errors.WrapWithCode(errors.RosterFullf("full"), errors.CodeUnavailable, "store down")

	s.Equal(errors.CodeUnavailable, err.Code)
	s.Equal(errors.Reason(""), err.Reason)
	// the cause still reports its own reason
	s.True(errors.IsRosterFull(err.Cause))
}

func (s *ErrorsTestSuite) TestIsMatchesReason() {
	err := errors.Wrap(errors.NoSelection("no entry open"), "select slot")

	s.True(errors.Is(err, errors.FailedPrecondition("")))
	s.True(errors.Is(err, errors.NoSelection("")))
	s.False(errors.Is(err, errors.ConfirmationRequired("")))
	s.False(errors.Is(err, errors.NotFound("")))
}

func (s *ErrorsTestSuite) TestGetHelpers() {
	s.Equal(errors.CodeOK, errors.GetCode(nil))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	s.Equal("plain", errors.GetMessage(fmt.Errorf("plain")))
	s.Equal("", errors.GetMessage(nil))

	err := errors.NotFound("missing").WithMeta("entry_id", "e1")
	s.Equal("missing", errors.GetMessage(err))
	s.Equal("e1", errors.GetMeta(err)["entry_id"])
	s.Equal(errors.Reason(""), errors.GetReason(err))
}

func (s *ErrorsTestSuite) TestHTTPStatus() {
	s.Equal(http.StatusConflict, errors.CodeAlreadyExists.HTTPStatus())
	s.Equal(http.StatusPreconditionFailed, errors.CodeFailedPrecondition.HTTPStatus())
	s.Equal(http.StatusUnauthorized, errors.CodeUnauthenticated.HTTPStatus())
	s.Equal(http.StatusInternalServerError, errors.Code("BOGUS").HTTPStatus())
}

func (s *ErrorsTestSuite) TestToGRPCError() {
	testCases := []struct {
		name       string
		err        error
		wantCode   codes.Code
		wantReason string
	}{
		{
			name:     "nil",
			err:      nil,
			wantCode: codes.OK,
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("boom"),
			wantCode: codes.Internal,
		},
		{
			name:       "duplicate move",
			err:        errors.DuplicateMovef("dup"),
			wantCode:   codes.AlreadyExists,
			wantReason: "DUPLICATE_MOVE",
		},
		{
			name:       "persistence over not found",
			err:        errors.Persistence(errors.NotFound("gone"), "save failed"),
			wantCode:   codes.NotFound,
			wantReason: "PERSISTENCE",
		},
		{
			name:     "already a status",
			err:      status.Error(codes.Aborted, "aborted"),
			wantCode: codes.Aborted,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			grpcErr := errors.ToGRPCError(tc.err)
			st := status.Convert(grpcErr)
			s.Equal(tc.wantCode, st.Code())

			var reason string
			for _, d := range st.Details() {
				if info, ok := d.(*errdetails.ErrorInfo); ok {
					reason = info.GetReason()
				}
			}
			s.Equal(tc.wantReason, reason)
		})
	}
}

func (s *ErrorsTestSuite) TestGRPCRoundTrip() {
	original := errors.RosterFullf("roster holds %d entries", 6).WithMeta("user_id", "u1")

	restored := errors.FromGRPCError(errors.ToGRPCError(original))

	s.True(errors.IsFailedPrecondition(restored))
	s.True(errors.IsRosterFull(restored))
	s.Equal("roster holds 6 entries", errors.GetMessage(restored))
	s.Equal("u1", errors.GetMeta(restored)["user_id"])
}

func (s *ErrorsTestSuite) TestFromGRPCErrorPassesThroughPlainErrors() {
	plain := fmt.Errorf("not a status")
	s.Equal(plain, errors.FromGRPCError(plain))
	s.Nil(errors.FromGRPCError(nil))
}
