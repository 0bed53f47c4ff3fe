package boltdb

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/joineazy/tracker/core"
)

var (
	bucket = []byte("joineazy")

	ErrInUse = errors.New("database is in use by another process")
)

// DB is a core.KVStore backed by a single bbolt bucket. It survives restarts.
type DB struct {
	db *bbolt.DB
}

var _ core.KVStore = (*DB)(nil)

// Open opens (or creates) the database file at path.
// A file locked by another process for longer than lockTimeout yields ErrInUse.
func Open(path string, lockTimeout time.Duration) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}

	if lockTimeout <= 0 {
		lockTimeout = time.Second
	}
	bdb, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		if errors.Is(err, bbolt.ErrTimeout) {
			return nil, errors.Wrap(ErrInUse, path)
		}
		return nil, errors.Wrap(err, "opening bolt database")
	}
	err = bdb.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = bdb.Close()
		return nil, errors.Wrap(err, "creating bucket")
	}
	return &DB{db: bdb}, nil
}

func (db *DB) Get(key string) ([]byte, error) {
	var val []byte
	err := db.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucket).Get([]byte(key))
		if v == nil {
			return core.ErrKeyNotFound
		}
		// v is only valid during the transaction
		val = append([]byte(nil), v...)
		return nil
	})
	return val, err
}

func (db *DB) Set(key string, value []byte) error {
	return db.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), value)
	})
}

func (db *DB) Delete(key string) error {
	return db.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
}

func (db *DB) Close() error {
	return db.db.Close()
}
