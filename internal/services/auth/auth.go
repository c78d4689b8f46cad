// Package auth resolves bearer tokens to user identities and carries the
// identity on the request context.
package auth

import (
	"context"
	"net/http"
	"strings"

	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"go.uber.org/zap"

	"github.com/KirkDiggler/roster-api/internal/errors"
	"github.com/KirkDiggler/roster-api/internal/pkg/logging"
)

const (
	// Scheme is the authorization scheme clients send
	Scheme = "bearer"

	// TokenQueryParam carries the token for browser websocket clients,
	// which cannot set headers
	TokenQueryParam = "access_token"
)

// Identity is the signed-in user
type Identity struct {
	UserID string
	Email  string
}

type identityKey struct{}

// WithIdentity returns a context carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity on ctx
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != ""
}

// RequireIdentity returns the identity on ctx or an Unauthenticated error
func RequireIdentity(ctx context.Context) (Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return Identity{}, errors.Unauthenticated("no signed-in user")
	}
	return id, nil
}

// Config contains the static token table
type Config struct {
	Tokens map[string]Identity
	Logger *zap.Logger
}

// Validate validates the Config
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	for token, id := range cfg.Tokens {
		if strings.TrimSpace(token) == "" {
			vb.Field("Tokens", "token cannot be blank")
		}
		if id.UserID == "" {
			vb.Fieldf("Tokens", "token for %q has no user", id.Email)
		}
	}
	return vb.Build()
}

// Authenticator checks bearer tokens against a static table
type Authenticator struct {
	tokens map[string]Identity
	logger *zap.Logger
}

// New creates an Authenticator
func New(cfg *Config) (*Authenticator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	tokens := make(map[string]Identity, len(cfg.Tokens))
	for token, id := range cfg.Tokens {
		tokens[token] = id
	}

	return &Authenticator{
		tokens: tokens,
		logger: logging.OrNop(cfg.Logger),
	}, nil
}

// Authenticate resolves a token
func (a *Authenticator) Authenticate(token string) (Identity, error) {
	if token == "" {
		return Identity{}, errors.Unauthenticated("missing token")
	}
	id, ok := a.tokens[token]
	if !ok {
		return Identity{}, errors.Unauthenticated("unknown token")
	}
	return id, nil
}

// AuthFunc is a go-grpc-middleware auth function. It reads the bearer token
// from request metadata and stores the identity on the context.
func (a *Authenticator) AuthFunc(ctx context.Context) (context.Context, error) {
	token, err := grpcauth.AuthFromMD(ctx, Scheme)
	if err != nil {
		return nil, err
	}

	id, err := a.Authenticate(token)
	if err != nil {
		a.logger.Debug("rejected token", zap.Error(err))
		return nil, errors.ToGRPCError(err)
	}
	return WithIdentity(ctx, id), nil
}

// HTTPIdentity authenticates a plain HTTP request from its Authorization
// header, falling back to the access_token query parameter
func (a *Authenticator) HTTPIdentity(r *http.Request) (Identity, error) {
	token := r.URL.Query().Get(TokenQueryParam)
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, value, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, Scheme) {
			return Identity{}, errors.Unauthenticated("bad authorization header")
		}
		token = strings.TrimSpace(value)
	}
	return a.Authenticate(token)
}
