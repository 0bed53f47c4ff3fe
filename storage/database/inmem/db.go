package inmemdb

import (
	"sync"

	"github.com/joineazy/tracker/core"
)

// DB is a process-local core.KVStore. Its content is lost on Close.
type DB struct {
	sync.RWMutex
	table map[string][]byte
}

var _ core.KVStore = (*DB)(nil)

func Open() *DB {
	return &DB{table: make(map[string][]byte)}
}

func (db *DB) Get(key string) ([]byte, error) {
	db.RLock()
	defer db.RUnlock()

	if val, ok := db.table[key]; ok {
		return copyBytes(val), nil
	}
	return nil, core.ErrKeyNotFound
}

func (db *DB) Set(key string, value []byte) error {
	db.Lock()
	defer db.Unlock()
	db.table[key] = copyBytes(value)
	return nil
}

func (db *DB) Delete(key string) error {
	db.Lock()
	defer db.Unlock()
	delete(db.table, key)
	return nil
}

func (db *DB) Close() error {
	db.Lock()
	defer db.Unlock()
	db.table = make(map[string][]byte)
	return nil
}

func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
