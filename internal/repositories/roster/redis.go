package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
	redisclient "github.com/KirkDiggler/roster-api/internal/redis"
)

const (
	rosterKeyPrefix = "roster:"
	entriesSuffix   = ":entries"
	changesSuffix   = ":changes"

	// optimistic transactions give up after this many WATCH conflicts
	maxTxRetries = 5
)

type redisRepository struct {
	client redisclient.Client
	opts   Options
}

var _ Repository = (*redisRepository)(nil)

// RedisConfig contains configuration for the Redis roster repository.
type RedisConfig struct {
	Client redisclient.Client
	Options
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed roster repository. Entries live in one
// hash per user; every write publishes on the user's change channel so
// subscribers in any process reload.
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.Options.withDefaults()
	if err != nil {
		return nil, errors.Wrap(err, "invalid options")
	}

	return &redisRepository{
		client: cfg.Client,
		opts:   opts,
	}, nil
}

// EntriesKey returns the hash holding a user's entries
// Exposed for testing purposes
func EntriesKey(userID string) string {
	return rosterKeyPrefix + userID + entriesSuffix
}

// ChangesChannel returns the pub/sub channel announcing a user's writes
// Exposed for testing purposes
func ChangesChannel(userID string) string {
	return rosterKeyPrefix + userID + changesSuffix
}

func (r *redisRepository) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	defer r.opts.Metrics.StoreOp("create", time.Now())
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	entry := input.Entry.Clone()
	entry.ID = r.opts.IDGenerator.Generate()
	entry.CreatedAt = r.opts.Clock.Now().UTC()

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal roster entry")
	}

	key := EntriesKey(input.UserID)
	err = r.watch(ctx, key, func(tx *redis.Tx) error {
		count, err := tx.HLen(ctx, key).Result()
		if err != nil {
			return errors.Wrap(err, "failed to count roster entries")
		}
		if int(count) >= r.opts.Capacity {
			return errors.RosterFullf(errRosterFull, count).WithMeta("user_id", input.UserID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, entry.ID, data)
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	r.publish(ctx, input.UserID)
	return &CreateOutput{Entry: entry}, nil
}

func (r *redisRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	defer r.opts.Metrics.StoreOp("list", time.Now())
	if err := validateUser(input); err != nil {
		return nil, err
	}

	roster, err := r.load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Roster: roster}, nil
}

func (r *redisRepository) load(ctx context.Context, userID string) (pokemon.Roster, error) {
	values, err := r.client.HGetAll(ctx, EntriesKey(userID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load roster for user %s", userID)
	}

	roster := make(pokemon.Roster, 0, len(values))
	for id, raw := range values {
		var entry pokemon.RosterEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal roster entry %s", id)
		}
		roster = append(roster, &entry)
	}
	sortByArrival(roster)
	return roster, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateEntryRef(input.UserID, input.EntryID); err != nil {
		return nil, err
	}

	raw, err := r.client.HGet(ctx, EntriesKey(input.UserID), input.EntryID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf(errEntryNotFound, input.EntryID)
		}
		return nil, errors.Wrapf(err, "failed to get roster entry %s", input.EntryID)
	}

	var entry pokemon.RosterEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal roster entry %s", input.EntryID)
	}
	return &GetOutput{Entry: &entry}, nil
}

func (r *redisRepository) UpdateFields(ctx context.Context, input *UpdateFieldsInput) (*UpdateFieldsOutput, error) {
	defer r.opts.Metrics.StoreOp("update_fields", time.Now())
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateEntryRef(input.UserID, input.EntryID); err != nil {
		return nil, err
	}

	key := EntriesKey(input.UserID)
	var updated pokemon.RosterEntry
	err := r.watch(ctx, key, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, key, input.EntryID).Result()
		if err != nil {
			if err == redis.Nil {
				return errors.NotFoundf(errEntryNotFound, input.EntryID)
			}
			return errors.Wrapf(err, "failed to get roster entry %s", input.EntryID)
		}

		updated = pokemon.RosterEntry{}
		if err := json.Unmarshal([]byte(raw), &updated); err != nil {
			return errors.Wrapf(err, "failed to unmarshal roster entry %s", input.EntryID)
		}
		applyFields(&updated, input.Fields)

		data, err := json.Marshal(&updated)
		if err != nil {
			return errors.Wrap(err, "failed to marshal roster entry")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, input.EntryID, data)
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	r.publish(ctx, input.UserID)
	return &UpdateFieldsOutput{Entry: &updated}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	defer r.opts.Metrics.StoreOp("delete", time.Now())
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateEntryRef(input.UserID, input.EntryID); err != nil {
		return nil, err
	}

	removed, err := r.client.HDel(ctx, EntriesKey(input.UserID), input.EntryID).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete roster entry %s", input.EntryID)
	}
	if removed == 0 {
		return nil, errors.NotFoundf(errEntryNotFound, input.EntryID)
	}

	r.publish(ctx, input.UserID)
	return &DeleteOutput{}, nil
}

// Subscribe confirms the pub/sub subscription before the first load so no
// write can fall between the initial snapshot and the feed.
func (r *redisRepository) Subscribe(ctx context.Context, input *SubscribeInput) (*SubscribeOutput, error) {
	if err := validateSubscribe(input); err != nil {
		return nil, err
	}

	pubsub := r.client.Subscribe(ctx, ChangesChannel(input.UserID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to subscribe to roster changes")
	}

	trigger := make(chan struct{}, 1)
	forwardDone := make(chan struct{})
	messages := pubsub.Channel()
	go func() {
		defer close(forwardDone)
		for range messages {
			wake(trigger)
		}
	}()

	load := func(ctx context.Context) (pokemon.Roster, error) {
		return r.load(ctx, input.UserID)
	}
	sub := startSubscription(context.WithoutCancel(ctx), trigger, load, input.OnSnapshot, r.opts.Logger, func() {
		if err := pubsub.Close(); err != nil {
			r.opts.Logger.Debug("failed to close roster pubsub",
				zap.String("user_id", input.UserID), zap.Error(err))
		}
		<-forwardDone
	})

	return &SubscribeOutput{Unsubscribe: sub.stop}, nil
}

// watch runs fn in an optimistic transaction on key, retrying on conflicts
func (r *redisRepository) watch(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, fn, key)
		if err != redis.TxFailedErr {
			return err
		}
	}
	return errors.New(errors.CodeAborted, fmt.Sprintf("too many concurrent writes to %s", key))
}

// publish announces a committed write. Failures are logged only: the write
// itself already succeeded.
func (r *redisRepository) publish(ctx context.Context, userID string) {
	if err := r.client.Publish(ctx, ChangesChannel(userID), "changed").Err(); err != nil {
		r.opts.Logger.Warn("failed to publish roster change",
			zap.String("user_id", userID), zap.Error(err))
	}
}
