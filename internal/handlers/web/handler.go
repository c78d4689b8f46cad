// Package web serves the HTTP side of the roster API: health, metrics, a
// read-only JSON view of rosters and sessions, and a websocket feed of
// session views for browser clients.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/KirkDiggler/roster-api/internal/errors"
	"github.com/KirkDiggler/roster-api/internal/orchestrators/roster"
	"github.com/KirkDiggler/roster-api/internal/pkg/logging"
	"github.com/KirkDiggler/roster-api/internal/services/auth"
)

const defaultWriteTimeout = 10 * time.Second

// IdentityResolver authenticates a plain HTTP request
type IdentityResolver interface {
	HTTPIdentity(r *http.Request) (auth.Identity, error)
}

// HandlerConfig holds dependencies for the web handler
type HandlerConfig struct {
	RosterService roster.Service
	Identities    IdentityResolver
	// Metrics is served on /metrics when set
	Metrics      http.Handler
	Logger       *zap.Logger
	WriteTimeout time.Duration
	// AllowedOrigins restricts websocket upgrades. Empty allows any origin.
	AllowedOrigins []string
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.RosterService == nil {
		vb.RequiredField("RosterService")
	}
	if c.Identities == nil {
		vb.RequiredField("Identities")
	}
	if c.WriteTimeout < 0 {
		vb.Field("WriteTimeout", "cannot be negative")
	}
	return vb.Build()
}

// Handler routes HTTP requests
type Handler struct {
	rosterService roster.Service
	identities    IdentityResolver
	metrics       http.Handler
	logger        *zap.Logger
	writeTimeout  time.Duration
	upgrader      websocket.Upgrader
}

// NewHandler creates a new web handler
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	h := &Handler{
		rosterService: cfg.RosterService,
		identities:    cfg.Identities,
		metrics:       cfg.Metrics,
		logger:        logging.OrNop(cfg.Logger),
		writeTimeout:  cfg.WriteTimeout,
	}
	if h.writeTimeout == 0 {
		h.writeTimeout = defaultWriteTimeout
	}

	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = true
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return len(origins) == 0 || origins[r.Header.Get("Origin")]
		},
	}

	return h, nil
}

// Router returns the routes served by the handler
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/roster", h.listRoster).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionID}", h.getSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionID}/watch", h.watchSession).Methods(http.MethodGet)
	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listRoster(w http.ResponseWriter, r *http.Request) {
	id, err := h.identities.HTTPIdentity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out, err := h.rosterService.ListRoster(r.Context(), &roster.ListRosterInput{UserID: id.UserID})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"roster":   out.Roster,
		"count":    len(out.Roster),
		"capacity": out.Capacity,
	})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	ref, err := h.sessionRef(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out, err := h.rosterService.GetSession(r.Context(), ref)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out.View)
}

// watchSession upgrades to a websocket and writes every session view as a
// JSON text frame. The socket closes when the session ends or the client
// goes away.
func (h *Handler) watchSession(w http.ResponseWriter, r *http.Request) {
	ref, err := h.sessionRef(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out, err := h.rosterService.WatchSession(ctx, ref)
	if err != nil {
		h.writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	// Client frames are ignored; reading only notices the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	logger := h.logger.With(zap.String("session_id", ref.SessionID), zap.String("user_id", ref.UserID))
	logger.Debug("websocket watch started")

	for view := range out.Views {
		_ = conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := conn.WriteJSON(view); err != nil {
			logger.Debug("websocket write failed", zap.Error(err))
			return
		}
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
		time.Now().Add(h.writeTimeout))
	logger.Debug("websocket watch ended")
}

func (h *Handler) sessionRef(r *http.Request) (*roster.SessionInput, error) {
	id, err := h.identities.HTTPIdentity(r)
	if err != nil {
		return nil, err
	}
	return &roster.SessionInput{UserID: id.UserID, SessionID: mux.Vars(r)["sessionID"]}, nil
}

type errorBody struct {
	Code    string `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	h.writeJSON(w, code.HTTPStatus(), errorBody{
		Code:    code.String(),
		Reason:  errors.GetReason(err).String(),
		Message: errors.GetMessage(err),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Debug("response write failed", zap.Error(err))
	}
}
