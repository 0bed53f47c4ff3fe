// Package localstore keeps the user directory and the assignment dataset as
// two JSON documents in a core.KVStore.
package localstore

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/joineazy/tracker/core"
	"github.com/joineazy/tracker/core/assignment"
	"github.com/joineazy/tracker/core/user"
)

// Storage keys
const (
	DataKey  = "joineazy_data"
	UsersKey = "joineazy_users"
)

type Store struct {
	kv     core.KVStore
	logger core.Logger
}

var (
	_ user.Repository       = (*Store)(nil)
	_ assignment.Repository = (*Store)(nil)
)

func New(kv core.KVStore, logger core.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// read returns (nil, nil) when the key is absent.
func (s *Store) read(key string) ([]byte, error) {
	data, err := s.kv.Get(key)
	if err != nil {
		if errors.Is(err, core.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", key)
	}
	return data, nil
}

func (s *Store) write(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	return errors.Wrapf(s.kv.Set(key, data), "writing %s", key)
}

// LoadAssignmentData returns an empty Dataset when the document is absent or malformed.
func (s *Store) LoadAssignmentData() (assignment.Dataset, error) {
	data, err := s.read(DataKey)
	if err != nil {
		return assignment.Dataset{}, err
	}

	var ds assignment.Dataset
	if data != nil {
		if err := json.Unmarshal(data, &ds); err != nil {
			s.logger.Warn("malformed assignment data, using empty dataset", errors.Wrap(err, DataKey))
			ds = assignment.Dataset{}
		}
	}
	ds.Normalize()
	return ds, nil
}

func (s *Store) SaveAssignmentData(ds assignment.Dataset) error {
	ds.Normalize()
	return s.write(DataKey, ds)
}

// LoadUserDirectory returns an empty directory when the document is absent or malformed.
func (s *Store) LoadUserDirectory() ([]user.User, error) {
	data, err := s.read(UsersKey)
	if err != nil {
		return nil, err
	}

	users := []user.User{}
	if data != nil {
		if err := json.Unmarshal(data, &users); err != nil || users == nil {
			if err != nil {
				s.logger.Warn("malformed user directory, using empty directory", errors.Wrap(err, UsersKey))
			}
			users = []user.User{}
		}
	}
	return users, nil
}

func (s *Store) SaveUserDirectory(users []user.User) error {
	if users == nil {
		users = []user.User{}
	}
	return s.write(UsersKey, users)
}
