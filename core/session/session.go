// Package session holds the identity of the user logged in on one tab.
//
// The identity lives under a single key of a tab-scoped core.KVStore:
// it is gone once the tab (or browser session) ends, unlike the persistent store.
package session

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/joineazy/tracker/core"
)

// Key is where the identity is kept in the tab-scoped store.
const Key = "joineazy_user"

var ErrNoSession = errors.New("no active session")

// Identity references a directory User. Profile data is looked up fresh when needed.
type Identity struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
}

type Holder struct {
	kv core.KVStore
}

func NewHolder(kv core.KVStore) *Holder {
	return &Holder{kv: kv}
}

// Get returns ErrNoSession when nobody is logged in.
// An unreadable value counts as logged out.
func (h *Holder) Get() (Identity, error) {
	data, err := h.kv.Get(Key)
	if err != nil {
		if errors.Is(err, core.ErrKeyNotFound) {
			return Identity{}, ErrNoSession
		}
		return Identity{}, errors.Wrap(err, "reading session")
	}

	var ident Identity
	if err := json.Unmarshal(data, &ident); err != nil || ident.UserID == "" {
		return Identity{}, ErrNoSession
	}
	return ident, nil
}

func (h *Holder) Set(ident Identity) error {
	data, err := json.Marshal(ident)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	return errors.Wrap(h.kv.Set(Key, data), "writing session")
}

func (h *Holder) Clear() error {
	return errors.Wrap(h.kv.Delete(Key), "clearing session")
}
