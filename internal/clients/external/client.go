// Package external is the location for the species lookup client
package external

//go:generate mockgen -destination=mock/mock_client.go -package=externalmock github.com/KirkDiggler/roster-api/internal/clients/external Client

import (
	"context"
	"strings"
	"time"

	"github.com/mtslzr/pokeapi-go"
	"github.com/mtslzr/pokeapi-go/structs"
	"go.uber.org/zap"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
	"github.com/KirkDiggler/roster-api/internal/pkg/logging"
	"github.com/KirkDiggler/roster-api/internal/pkg/metrics"
)

// Client defines the interface for species lookups
type Client interface {
	// LookupSpecies fetches a species by name or national dex number.
	// Returns errors.InvalidArgument for a blank query
	// Returns errors.NotFound when the upstream has no such species or fails
	LookupSpecies(ctx context.Context, query string) (*pokemon.SpeciesRecord, error)
}

// speciesSource is the slice of pokeapi-go the client depends on
type speciesSource interface {
	Pokemon(id string) (structs.Pokemon, error)
}

type pokeAPISource struct{}

func (pokeAPISource) Pokemon(id string) (structs.Pokemon, error) {
	return pokeapi.Pokemon(id)
}

// Config contains configuration options for the external client.
type Config struct {
	// Timeout bounds a single upstream lookup (optional, defaults to 10 seconds)
	Timeout time.Duration
	Logger  *zap.Logger
	Metrics *metrics.Recorder
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Timeout < 0 {
		return errors.InvalidArgument("timeout cannot be negative")
	}
	return nil
}

type client struct {
	source  speciesSource
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Recorder
}

// New creates a species client backed by pokeapi-go
func New(cfg *Config) (Client, error) {
	return newWithSource(cfg, pokeAPISource{})
}

func newWithSource(cfg *Config, source speciesSource) (*client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &client{
		source:  source,
		timeout: cfg.Timeout,
		logger:  logging.OrNop(cfg.Logger),
		metrics: cfg.Metrics,
	}, nil
}

type lookupResult struct {
	species structs.Pokemon
	err     error
}

func (c *client) LookupSpecies(ctx context.Context, query string) (*pokemon.SpeciesRecord, error) {
	id := NormalizeQuery(query)
	if id == "" {
		return nil, errors.InvalidArgument("query is required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	// pokeapi-go has no context support; the buffered channel lets the call
	// finish in the background when the caller gives up.
	done := make(chan lookupResult, 1)
	go func() {
		p, err := c.source.Pokemon(id)
		done <- lookupResult{species: p, err: err}
	}()

	var res lookupResult
	select {
	case <-ctx.Done():
		c.metrics.Lookup(metrics.SourceUpstream, ctx.Err())
		return nil, errors.WrapWithCode(ctx.Err(), errors.CodeDeadlineExceeded, "species lookup timed out").
			WithMeta("query", id)
	case res = <-done:
	}
	c.metrics.LookupLatency(time.Since(started))

	if res.err != nil {
		c.logger.Debug("species lookup failed", zap.String("query", id), zap.Error(res.err))
		c.metrics.Lookup(metrics.SourceUpstream, res.err)
		return nil, errors.WrapWithCode(res.err, errors.CodeNotFound, "species not found").
			WithMeta("query", id)
	}
	if res.species.Name == "" {
		c.metrics.Lookup(metrics.SourceUpstream, errors.NotFound("empty"))
		return nil, errors.NotFoundf("species %q not found", id).WithMeta("query", id)
	}

	c.metrics.Lookup(metrics.SourceUpstream, nil)
	return toSpeciesRecord(&res.species), nil
}

// NormalizeQuery lowercases a query and joins words with hyphens, the form
// species names take upstream.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), "-")
}
