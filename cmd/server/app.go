package main

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/KirkDiggler/roster-api/internal/clients/external"
	"github.com/KirkDiggler/roster-api/internal/config"
	"github.com/KirkDiggler/roster-api/internal/errors"
	"github.com/KirkDiggler/roster-api/internal/orchestrators/roster"
	"github.com/KirkDiggler/roster-api/internal/pkg/idgen"
	"github.com/KirkDiggler/roster-api/internal/pkg/metrics"
	redisclient "github.com/KirkDiggler/roster-api/internal/redis"
	rosterrepo "github.com/KirkDiggler/roster-api/internal/repositories/roster"
	speciesrepo "github.com/KirkDiggler/roster-api/internal/repositories/species"
	"github.com/KirkDiggler/roster-api/internal/services/auth"
)

// app is the wired dependency graph behind both listeners
type app struct {
	cfg          *config.Config
	logger       *zap.Logger
	metrics      *metrics.Recorder
	authn        *auth.Authenticator
	orchestrator *roster.Orchestrator
	closers      []io.Closer
}

// newApp builds every dependency from cfg. Redis is dialed only when the
// store driver needs it, and the species cache rides on the same client.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
	}

	var redisClient redisclient.Client
	if cfg.NeedsRedis() {
		client, err := redisclient.NewClient(cfg.Redis.Addr, &redisclient.Options{PoolSize: cfg.Redis.PoolSize})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client)
		if err := redisclient.Ping(ctx, client); err != nil {
			a.Close()
			return nil, err
		}
		redisClient = client
	}

	repo, err := a.newRosterRepo(redisClient)
	if err != nil {
		a.Close()
		return nil, err
	}

	var speciesCache speciesrepo.Repository
	if redisClient != nil {
		speciesCache, err = speciesrepo.NewRedis(&speciesrepo.RedisConfig{
			Client: redisClient,
			TTL:    cfg.PokeAPI.CacheTTL,
		})
		if err != nil {
			a.Close()
			return nil, errors.Wrap(err, "failed to create species cache")
		}
	}

	externalClient, err := external.New(&external.Config{
		Timeout: cfg.PokeAPI.Timeout,
		Logger:  logger,
		Metrics: a.metrics,
	})
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "failed to create species client")
	}

	tokens := make(map[string]auth.Identity, len(cfg.Auth.Tokens))
	for token, id := range cfg.Auth.Tokens {
		tokens[token] = auth.Identity{UserID: id.UserID, Email: id.Email}
	}
	a.authn, err = auth.New(&auth.Config{Tokens: tokens, Logger: logger})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.orchestrator, err = roster.New(&roster.Config{
		RosterRepo:     repo,
		SpeciesCache:   speciesCache,
		ExternalClient: externalClient,
		IDGenerator:    idgen.NewUUID("sess"),
		Capacity:       cfg.Roster.Capacity,
		IdleTimeout:    cfg.Session.IdleTimeout,
		Logger:         logger,
		Metrics:        a.metrics,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	logger.Info("dependencies ready",
		zap.String("store", cfg.Store.Driver),
		zap.Bool("species_cache", speciesCache != nil),
		zap.Int("tokens", len(tokens)),
	)
	return a, nil
}

func (a *app) newRosterRepo(client redisclient.Client) (rosterrepo.Repository, error) {
	opts := rosterrepo.Options{
		IDGenerator: idgen.NewUUID("entry"),
		Capacity:    a.cfg.Roster.Capacity,
		Logger:      a.logger,
		Metrics:     a.metrics,
	}

	switch a.cfg.Store.Driver {
	case config.DriverRedis:
		return rosterrepo.NewRedis(&rosterrepo.RedisConfig{Client: client, Options: opts})
	case config.DriverSQLite:
		repo, err := rosterrepo.NewSQLite(&rosterrepo.SQLiteConfig{Path: a.cfg.Store.SQLitePath, Options: opts})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, repo)
		return repo, nil
	case config.DriverMemory:
		return rosterrepo.NewInMemory(opts)
	default:
		return nil, errors.InvalidArgumentf("unknown store driver %q", a.cfg.Store.Driver)
	}
}

// Close ends every session, then releases stores and connections in
// reverse order of creation
func (a *app) Close() {
	if a.orchestrator != nil {
		a.orchestrator.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
