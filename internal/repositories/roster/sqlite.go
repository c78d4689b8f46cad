package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS roster_entries (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		payload    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS roster_entries_user ON roster_entries (user_id, created_at)`,
}

// SQLiteConfig contains configuration for the SQLite roster repository.
type SQLiteConfig struct {
	// Path of the database file; ":memory:" keeps it in process
	Path string
	Options
}

// Validate validates the SQLiteConfig.
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Path == "" {
		return errors.InvalidArgument("path cannot be empty")
	}
	return nil
}

// SQLiteRepository stores each entry as a JSON row. The live feed is process
// local, like the in-memory driver.
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
	feed *hub
}

var _ Repository = (*SQLiteRepository)(nil)

// NewSQLite opens (creating if needed) the database at cfg.Path
func NewSQLite(cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.Options.withDefaults()
	if err != nil {
		return nil, errors.Wrap(err, "invalid options")
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory for %s", cfg.Path)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite")
	}
	// one connection serializes writers, which the capacity check relies on
	db.SetMaxOpenConns(1)

	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "failed to create roster schema")
		}
	}

	return &SQLiteRepository{
		db:   db,
		opts: opts,
		feed: newHub(),
	}, nil
}

// Close releases the database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Create stores a new entry
func (r *SQLiteRepository) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	defer r.opts.Metrics.StoreOp("create", time.Now())
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	entry := input.Entry.Clone()
	entry.ID = r.opts.IDGenerator.Generate()
	entry.CreatedAt = r.opts.Clock.Now().UTC()

	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal roster entry")
	}

	err = r.inTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM roster_entries WHERE user_id = ?`, input.UserID,
		).Scan(&count); err != nil {
			return errors.Wrap(err, "failed to count roster entries")
		}
		if count >= r.opts.Capacity {
			return errors.RosterFullf(errRosterFull, count).WithMeta("user_id", input.UserID)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO roster_entries (id, user_id, created_at, payload) VALUES (?, ?, ?, ?)`,
			entry.ID, input.UserID, entry.CreatedAt.UnixNano(), string(payload),
		); err != nil {
			return errors.Wrap(err, "failed to insert roster entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.feed.publish(input.UserID)
	return &CreateOutput{Entry: entry}, nil
}

// List returns the roster ordered by arrival
func (r *SQLiteRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
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

func (r *SQLiteRepository) load(ctx context.Context, userID string) (pokemon.Roster, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, payload FROM roster_entries WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load roster for user %s", userID)
	}
	defer func() { _ = rows.Close() }()

	roster := pokemon.Roster{}
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, errors.Wrap(err, "failed to scan roster entry")
		}
		var entry pokemon.RosterEntry
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal roster entry %s", id)
		}
		roster = append(roster, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read roster rows")
	}
	return roster, nil
}

// Get returns one entry
func (r *SQLiteRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateEntryRef(input.UserID, input.EntryID); err != nil {
		return nil, err
	}

	entry, err := getEntry(ctx, r.db, input.UserID, input.EntryID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Entry: entry}, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getEntry(ctx context.Context, q queryRower, userID, entryID string) (*pokemon.RosterEntry, error) {
	var payload string
	err := q.QueryRowContext(ctx,
		`SELECT payload FROM roster_entries WHERE user_id = ? AND id = ?`, userID, entryID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf(errEntryNotFound, entryID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get roster entry %s", entryID)
	}

	var entry pokemon.RosterEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal roster entry %s", entryID)
	}
	return &entry, nil
}

// UpdateFields applies a partial update
func (r *SQLiteRepository) UpdateFields(ctx context.Context, input *UpdateFieldsInput) (*UpdateFieldsOutput, error) {
	defer r.opts.Metrics.StoreOp("update_fields", time.Now())
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateEntryRef(input.UserID, input.EntryID); err != nil {
		return nil, err
	}

	var updated *pokemon.RosterEntry
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		entry, err := getEntry(ctx, tx, input.UserID, input.EntryID)
		if err != nil {
			return err
		}
		applyFields(entry, input.Fields)

		payload, err := json.Marshal(entry)
		if err != nil {
			return errors.Wrap(err, "failed to marshal roster entry")
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE roster_entries SET payload = ? WHERE user_id = ? AND id = ?`,
			string(payload), input.UserID, input.EntryID,
		); err != nil {
			return errors.Wrapf(err, "failed to update roster entry %s", input.EntryID)
		}
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.feed.publish(input.UserID)
	return &UpdateFieldsOutput{Entry: updated}, nil
}

// Delete removes an entry
func (r *SQLiteRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	defer r.opts.Metrics.StoreOp("delete", time.Now())
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateEntryRef(input.UserID, input.EntryID); err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM roster_entries WHERE user_id = ? AND id = ?`, input.UserID, input.EntryID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete roster entry %s", input.EntryID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return nil, errors.NotFoundf(errEntryNotFound, input.EntryID)
	}

	r.feed.publish(input.UserID)
	return &DeleteOutput{}, nil
}

// Subscribe starts a live feed of the user's roster
func (r *SQLiteRepository) Subscribe(ctx context.Context, input *SubscribeInput) (*SubscribeOutput, error) {
	if err := validateSubscribe(input); err != nil {
		return nil, err
	}

	load := func(ctx context.Context) (pokemon.Roster, error) {
		return r.load(ctx, input.UserID)
	}
	return subscribeLocal(ctx, r.feed, input, load, r.opts.Logger), nil
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}
