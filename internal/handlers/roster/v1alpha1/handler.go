// Package v1alpha1 handles the roster gRPC service
package v1alpha1

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
	"github.com/KirkDiggler/roster-api/internal/orchestrators/roster"
	"github.com/KirkDiggler/roster-api/internal/pkg/logging"
	"github.com/KirkDiggler/roster-api/internal/services/auth"
)

// HandlerConfig holds dependencies for the roster handler
type HandlerConfig struct {
	RosterService roster.Service
	Logger        *zap.Logger
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.RosterService == nil {
		return errors.InvalidArgument("roster service is required")
	}
	return nil
}

// Handler implements RosterServiceServer. Every call acts for the identity
// the auth interceptor put on the context.
type Handler struct {
	rosterService roster.Service
	logger        *zap.Logger
}

var _ RosterServiceServer = (*Handler)(nil)

// NewHandler creates a new roster handler
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		rosterService: cfg.RosterService,
		logger:        logging.OrNop(cfg.Logger),
	}, nil
}

// LookupSpecies searches the species database
func (h *Handler) LookupSpecies(ctx context.Context, req *LookupSpeciesRequest) (*LookupSpeciesResponse, error) {
	if _, err := auth.RequireIdentity(ctx); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if req.Query == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("query is required"))
	}

	out, err := h.rosterService.LookupSpecies(ctx, &roster.LookupSpeciesInput{Query: req.Query})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &LookupSpeciesResponse{Species: out.Species, Cached: out.Cached}, nil
}

// AddToRoster looks a species up and adds it to the caller's roster
func (h *Handler) AddToRoster(ctx context.Context, req *AddToRosterRequest) (*AddToRosterResponse, error) {
	id, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if req.Query == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("query is required"))
	}

	out, err := h.rosterService.AddToRoster(ctx, &roster.AddToRosterInput{UserID: id.UserID, Query: req.Query})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &AddToRosterResponse{Entry: out.Entry}, nil
}

// ListRoster lists the caller's roster
func (h *Handler) ListRoster(ctx context.Context, _ *ListRosterRequest) (*ListRosterResponse, error) {
	id, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.rosterService.ListRoster(ctx, &roster.ListRosterInput{UserID: id.UserID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &ListRosterResponse{
		Roster:   out.Roster,
		Count:    len(out.Roster),
		Capacity: out.Capacity,
	}, nil
}

// StartSession opens a live session for the caller
func (h *Handler) StartSession(ctx context.Context, _ *StartSessionRequest) (*SessionResponse, error) {
	id, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.rosterService.StartSession(ctx, &roster.StartSessionInput{UserID: id.UserID, Email: id.Email})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	h.logger.Info("session started", zap.String("user_id", id.UserID), zap.String("session_id", out.View.SessionID))
	return &SessionResponse{View: out.View}, nil
}

// EndSession closes one of the caller's sessions
func (h *Handler) EndSession(ctx context.Context, req *SessionRequest) (*EndSessionResponse, error) {
	ref, err := sessionRef(ctx, req.SessionID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	if _, err := h.rosterService.EndSession(ctx, ref); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &EndSessionResponse{}, nil
}

// Logout ends every session of the caller
func (h *Handler) Logout(ctx context.Context, _ *LogoutRequest) (*LogoutResponse, error) {
	id, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.rosterService.Logout(ctx, &roster.LogoutInput{UserID: id.UserID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &LogoutResponse{EndedSessions: out.EndedSessions}, nil
}

// GetSession returns a session view
func (h *Handler) GetSession(ctx context.Context, req *SessionRequest) (*SessionResponse, error) {
	ref, err := sessionRef(ctx, req.SessionID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return respond(h.rosterService.GetSession(ctx, ref))
}

// OpenEntry opens an entry
func (h *Handler) OpenEntry(ctx context.Context, req *OpenEntryRequest) (*SessionResponse, error) {
	ref, err := sessionRef(ctx, req.SessionID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if req.EntryID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("entry_id is required"))
	}
	return respond(h.rosterService.OpenEntry(ctx, &roster.OpenEntryInput{SessionInput: *ref, EntryID: req.EntryID}))
}

// CloseEntry closes the open entry
func (h *Handler) CloseEntry(ctx context.Context, req *SessionRequest) (*SessionResponse, error) {
	ref, err := sessionRef(ctx, req.SessionID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return respond(h.rosterService.CloseEntry(ctx, ref))
}

// SelectSlot changes the active slot
func (h *Handler) SelectSlot(ctx context.Context, req *SelectSlotRequest) (*SessionResponse, error) {
	ref, err := sessionRef(ctx, req.SessionID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return respond(h.rosterService.SelectSlot(ctx, &roster.SelectSlotInput{SessionInput: *ref, SlotIndex: req.SlotIndex}))
}

// AssignMove assigns a move to the active slot
func (h *Handler) AssignMove(ctx context.Context, req *AssignMoveRequest) (*SessionResponse, error) {
	ref, err := sessionRef(ctx, req.SessionID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	move, err := pokemon.ParseMove(req.Move)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return respond(h.rosterService.AssignMove(ctx, &roster.AssignMoveInput{SessionInput: *ref, Move: move}))
}

// RemoveMove clears a slot
func (h *Handler) RemoveMove(ctx context.Context, req *RemoveMoveRequest) (*SessionResponse, error) {
	ref, err := sessionRef(ctx, req.SessionID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return respond(h.rosterService.RemoveMove(ctx, &roster.RemoveMoveInput{SessionInput: *ref, SlotIndex: req.SlotIndex}))
}

// DeleteEntry deletes an entry after confirmation
func (h *Handler) DeleteEntry(ctx context.Context, req *DeleteEntryRequest) (*SessionResponse, error) {
	ref, err := sessionRef(ctx, req.SessionID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return respond(h.rosterService.DeleteEntry(ctx, &roster.DeleteEntryInput{
		SessionInput: *ref,
		EntryID:      req.EntryID,
		Confirm:      req.Confirm,
	}))
}

// WatchSession streams session views until the client goes away or the
// session ends
func (h *Handler) WatchSession(req *SessionRequest, stream grpc.ServerStreamingServer[SessionResponse]) error {
	ctx := stream.Context()
	ref, err := sessionRef(ctx, req.SessionID)
	if err != nil {
		return errors.ToGRPCError(err)
	}

	out, err := h.rosterService.WatchSession(ctx, ref)
	if err != nil {
		return errors.ToGRPCError(err)
	}

	for view := range out.Views {
		if err := stream.Send(&SessionResponse{View: view}); err != nil {
			h.logger.Debug("watch stream closed", zap.String("session_id", req.SessionID), zap.Error(err))
			return err
		}
	}
	return nil
}

func sessionRef(ctx context.Context, sessionID string) (*roster.SessionInput, error) {
	id, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, errors.InvalidArgument("session_id is required")
	}
	return &roster.SessionInput{UserID: id.UserID, SessionID: sessionID}, nil
}

func respond(out *roster.SessionOutput, err error) (*SessionResponse, error) {
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &SessionResponse{View: out.View}, nil
}
