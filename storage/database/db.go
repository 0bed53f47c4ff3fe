package database

import (
	"github.com/pkg/errors"

	"github.com/joineazy/tracker/core"
	boltdb "github.com/joineazy/tracker/storage/database/bolt"
	inmemdb "github.com/joineazy/tracker/storage/database/inmem"
	pgdb "github.com/joineazy/tracker/storage/database/postgres"
)

// Open returns the persistent core.KVStore selected by conf.Storage.Engine.
func Open(conf *core.Config) (core.KVStore, error) {
	switch conf.Storage.Engine {
	case core.EngineMemory:
		return inmemdb.Open(), nil
	case core.EngineBolt:
		return boltdb.Open(conf.Storage.Path, conf.Storage.QueryTimeout)
	case core.EnginePostgres:
		if conf.Storage.DatabaseURL == "" {
			return nil, errors.New("storage.databaseURL is required by the postgres engine")
		}
		return pgdb.Open(conf.Storage.DatabaseURL, conf.Storage.QueryTimeout)
	default:
		return nil, errors.Errorf("unknown storage engine %q", conf.Storage.Engine)
	}
}

// Migrate brings the schema up to date. Only the postgres engine has one.
func Migrate(conf *core.Config) error {
	if conf.Storage.Engine != core.EnginePostgres {
		return errNoMigrations(conf.Storage.Engine)
	}
	return pgdb.Migrate(conf.Storage.DatabaseURL)
}

// Rollback reverts the latest postgres migration.
func Rollback(conf *core.Config) error {
	if conf.Storage.Engine != core.EnginePostgres {
		return errNoMigrations(conf.Storage.Engine)
	}
	return pgdb.Rollback(conf.Storage.DatabaseURL)
}

// Version reports the postgres schema version and whether the last migration failed halfway.
func Version(conf *core.Config) (uint, bool, error) {
	if conf.Storage.Engine != core.EnginePostgres {
		return 0, false, errNoMigrations(conf.Storage.Engine)
	}
	return pgdb.Version(conf.Storage.DatabaseURL)
}

func errNoMigrations(engine string) error {
	return errors.Errorf("engine %q has no migrations", engine)
}
