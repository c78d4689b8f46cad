// Package roster implements the roster orchestrator: species lookups, roster
// writes and the registry of live sessions
package roster

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/KirkDiggler/roster-api/internal/clients/external"
	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
	"github.com/KirkDiggler/roster-api/internal/orchestrators/session"
	"github.com/KirkDiggler/roster-api/internal/pkg/clock"
	"github.com/KirkDiggler/roster-api/internal/pkg/idgen"
	"github.com/KirkDiggler/roster-api/internal/pkg/logging"
	"github.com/KirkDiggler/roster-api/internal/pkg/metrics"
	rosterrepo "github.com/KirkDiggler/roster-api/internal/repositories/roster"
	speciesrepo "github.com/KirkDiggler/roster-api/internal/repositories/species"
)

// Config holds the dependencies for the roster orchestrator
type Config struct {
	RosterRepo     rosterrepo.Repository
	SpeciesCache   speciesrepo.Repository // optional
	ExternalClient external.Client
	IDGenerator    idgen.Generator
	Clock          clock.Clock

	// Capacity is reported to clients; the store enforces it
	Capacity    int
	IdleTimeout time.Duration

	Logger  *zap.Logger
	Metrics *metrics.Recorder
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	if c.RosterRepo == nil {
		vb.RequiredField("RosterRepo")
	}
	if c.ExternalClient == nil {
		vb.RequiredField("ExternalClient")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Capacity < 0 {
		vb.InvalidField("Capacity", "cannot be negative")
	}
	if c.IdleTimeout < 0 {
		vb.InvalidField("IdleTimeout", "cannot be negative")
	}

	return vb.Build()
}

// Orchestrator implements the Service interface
type Orchestrator struct {
	rosterRepo     rosterrepo.Repository
	speciesCache   speciesrepo.Repository
	externalClient external.Client
	idGen          idgen.Generator
	clock          clock.Clock
	capacity       int
	idleTimeout    time.Duration
	logger         *zap.Logger
	metrics        *metrics.Recorder

	lookups singleflight.Group

	mu       sync.Mutex
	sessions map[string]*session.Session
}

// Ensure Orchestrator implements the Service interface
var _ Service = (*Orchestrator)(nil)

// New creates a new roster orchestrator
func New(cfg *Config) (*Orchestrator, error) {
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

	return &Orchestrator{
		rosterRepo:     cfg.RosterRepo,
		speciesCache:   cfg.SpeciesCache,
		externalClient: cfg.ExternalClient,
		idGen:          cfg.IDGenerator,
		clock:          clk,
		capacity:       capacity,
		idleTimeout:    cfg.IdleTimeout,
		logger:         logging.OrNop(cfg.Logger),
		metrics:        cfg.Metrics,
		sessions:       make(map[string]*session.Session),
	}, nil
}

// LookupSpecies resolves a species by name or number. Cached records are
// served first; concurrent misses for the same query share one upstream
// call.
func (o *Orchestrator) LookupSpecies(ctx context.Context, input *LookupSpeciesInput) (*LookupSpeciesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	query := external.NormalizeQuery(input.Query)
	if query == "" {
		return nil, errors.InvalidArgument("query is required")
	}

	if record, ok := o.cached(ctx, query); ok {
		return &LookupSpeciesOutput{Species: record, Cached: true}, nil
	}

	ch := o.lookups.DoChan(query, func() (interface{}, error) {
		// shared by every waiter, so it must not die with the first caller
		record, err := o.externalClient.LookupSpecies(context.WithoutCancel(ctx), query)
		if err != nil {
			return nil, err
		}
		o.cache(context.WithoutCancel(ctx), query, record)
		return record, nil
	})

	select {
	case <-ctx.Done():
		return nil, errors.WrapWithCode(ctx.Err(), errors.CodeDeadlineExceeded, "species lookup cancelled")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		record := res.Val.(*pokemon.SpeciesRecord)
		return &LookupSpeciesOutput{Species: copyRecord(record)}, nil
	}
}

func (o *Orchestrator) cached(ctx context.Context, query string) (*pokemon.SpeciesRecord, bool) {
	if o.speciesCache == nil {
		return nil, false
	}

	out, err := o.speciesCache.Get(ctx, speciesrepo.GetInput{Name: query})
	switch {
	case err == nil:
		o.metrics.Lookup(metrics.SourceCache, nil)
		return out.Record, true
	case !errors.IsNotFound(err):
		o.logger.Warn("species cache read failed", zap.String("query", query), zap.Error(err))
	}
	return nil, false
}

func (o *Orchestrator) cache(ctx context.Context, query string, record *pokemon.SpeciesRecord) {
	if o.speciesCache == nil {
		return
	}

	keys := []string{query}
	if record.Name != query {
		keys = append(keys, record.Name)
	}
	for _, key := range keys {
		if _, err := o.speciesCache.Put(ctx, speciesrepo.PutInput{Key: key, Record: record}); err != nil {
			o.logger.Warn("species cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func copyRecord(r *pokemon.SpeciesRecord) *pokemon.SpeciesRecord {
	c := *r
	c.Stats = append([]pokemon.Stat(nil), r.Stats...)
	c.Moves = append([]pokemon.MoveDescriptor(nil), r.Moves...)
	return &c
}

// AddToRoster looks a species up and stores it as a new entry with every
// slot empty
func (o *Orchestrator) AddToRoster(ctx context.Context, input *AddToRosterInput) (*AddToRosterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	errors.ValidateRequired("query", input.Query, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	lookup, err := o.LookupSpecies(ctx, &LookupSpeciesInput{Query: input.Query})
	if err != nil {
		return nil, err
	}

	out, err := o.rosterRepo.Create(ctx, &rosterrepo.CreateInput{
		UserID: input.UserID,
		Entry:  lookup.Species.NewEntry(),
	})
	if err != nil {
		if errors.IsRosterFull(err) || errors.IsInvalidArgument(err) {
			return nil, err
		}
		return nil, errors.Persistence(err, "failed to add entry")
	}

	o.logger.Info("entry added",
		zap.String("user_id", input.UserID),
		zap.String("entry_id", out.Entry.ID),
		zap.String("species", out.Entry.Name),
	)

	return &AddToRosterOutput{Entry: out.Entry}, nil
}

// ListRoster returns the user's roster in arrival order
func (o *Orchestrator) ListRoster(ctx context.Context, input *ListRosterInput) (*ListRosterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.UserID == "" {
		return nil, errors.InvalidArgument("userID is required")
	}

	out, err := o.rosterRepo.List(ctx, &rosterrepo.ListInput{UserID: input.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list roster")
	}

	return &ListRosterOutput{Roster: out.Roster, Capacity: o.capacity}, nil
}
