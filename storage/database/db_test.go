package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joineazy/tracker/core"
	boltdb "github.com/joineazy/tracker/storage/database/bolt"
	inmemdb "github.com/joineazy/tracker/storage/database/inmem"
)

func TestOpen(t *testing.T) {
	conf := core.NewConfig()

	conf.Storage.Engine = core.EngineMemory
	kv, err := Open(conf)
	require.NoError(t, err)
	assert.IsType(t, &inmemdb.DB{}, kv)

	conf.Storage.Engine = core.EngineBolt
	conf.Storage.Path = filepath.Join(t.TempDir(), "joineazy.db")
	kv, err = Open(conf)
	require.NoError(t, err)
	assert.IsType(t, &boltdb.DB{}, kv)
	require.NoError(t, kv.Close())

	conf.Storage.Engine = core.EnginePostgres
	conf.Storage.DatabaseURL = ""
	_, err = Open(conf)
	assert.Error(t, err)

	conf.Storage.Engine = "mongo"
	_, err = Open(conf)
	assert.Error(t, err)
}

func TestMigrate_withoutSchema(t *testing.T) {
	conf := core.NewConfig()
	conf.Storage.Engine = core.EngineMemory

	for _, engine := range []string{core.EngineMemory, core.EngineBolt} {
		conf.Storage.Engine = engine
		want := `engine "` + engine + `" has no migrations`

		assert.EqualError(t, Migrate(conf), want)
		assert.EqualError(t, Rollback(conf), want)
		_, _, err := Version(conf)
		assert.EqualError(t, err, want)
	}
}
