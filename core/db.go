package core

import "github.com/pkg/errors"

var ErrKeyNotFound = errors.New("key not found")

type (
	// KVStore is a flat namespace of keys holding opaque (JSON) documents.
	// Every call is a whole-value read or write; there are no transactions across calls.
	KVStore interface {
		// Get returns ErrKeyNotFound when the key is absent.
		Get(key string) ([]byte, error)
		Set(key string, value []byte) error
		// Delete is a no-op for absent keys.
		Delete(key string) error
		Close() error
	}
)
