package species

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
	redisclient "github.com/KirkDiggler/roster-api/internal/redis"
)

const (
	speciesKeyPrefix = "species:"

	defaultTTL = 24 * time.Hour

	// Error messages
	errNameEmpty = "species name cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	ttl    time.Duration
}

// RedisConfig contains configuration for the Redis species cache.
type RedisConfig struct {
	Client redisclient.Client
	// TTL bounds how long a record is served from cache. Zero uses 24h.
	TTL time.Duration
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.TTL < 0 {
		return errors.InvalidArgument("ttl cannot be negative")
	}
	return nil
}

// NewRedis creates a new Redis-backed species cache
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		ttl:    ttl,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	result, err := r.client.Get(ctx, GetKey(input.Name)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("species %s not cached", input.Name)
		}
		return nil, errors.Wrapf(err, "failed to get cached species %s", input.Name)
	}

	var record pokemon.SpeciesRecord
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal species %s", input.Name)
	}

	return &GetOutput{Record: &record}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if input.Record == nil {
		return nil, errors.InvalidArgument("record is required")
	}
	key := input.Key
	if key == "" {
		key = input.Record.Name
	}
	if key == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	data, err := json.Marshal(input.Record)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal species %s", key)
	}

	if err := r.client.Set(ctx, GetKey(key), data, r.ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to cache species %s", key)
	}

	return &PutOutput{}, nil
}

// GetKey returns the Redis key for a cached species
// Exposed for testing purposes
func GetKey(name string) string {
	return fmt.Sprintf("%s%s", speciesKeyPrefix, name)
}
