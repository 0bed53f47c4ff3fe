package pgdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/joineazy/tracker/core"
)

// DB is a core.KVStore backed by the kv table.
type DB struct {
	db      *sqlx.DB
	timeout time.Duration
}

var _ core.KVStore = (*DB)(nil)

// Open connects to databaseURL and waits for the server to answer.
// The schema is not touched; see Migrate.
func Open(databaseURL string, timeout time.Duration) (*DB, error) {
	sdb, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := ping(sdb); err != nil {
		_ = sdb.Close()
		return nil, err
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DB{db: sdb, timeout: timeout}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "DB ping timeout")
}

func (db *DB) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), db.timeout)
	defer cancel()

	var val string
	err := db.db.GetContext(ctx, &val, `SELECT value FROM kv WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrKeyNotFound
		}
		return nil, errors.Wrapf(err, "reading key %q", key)
	}
	return []byte(val), nil
}

func (db *DB) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), db.timeout)
	defer cancel()

	const q = `
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	_, err := db.db.ExecContext(ctx, q, key, string(value))
	return errors.Wrapf(err, "writing key %q", key)
}

func (db *DB) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), db.timeout)
	defer cancel()

	_, err := db.db.ExecContext(ctx, `DELETE FROM kv WHERE key = $1`, key)
	return errors.Wrapf(err, "deleting key %q", key)
}

func (db *DB) Close() error {
	return db.db.Close()
}
