package testutil

import (
	"io/ioutil"
	"log"
	"testing"

	"github.com/joineazy/tracker/core"
	"github.com/joineazy/tracker/core/user"
	logsvc "github.com/joineazy/tracker/services/logger"
	inmemdb "github.com/joineazy/tracker/storage/database/inmem"
	"github.com/joineazy/tracker/storage/localstore"
)

// Config returns the configuration used by tests: in-memory storage, no Rollbar.
func Config() *core.Config {
	conf := core.NewConfig()
	conf.TestMode = true
	conf.Debug = false
	conf.RollbarToken = ""
	conf.Storage.Engine = core.EngineMemory
	conf.Server.RateLimit = 0 // unlimited
	return conf
}

// Logger returns a core.Logger that prints nothing.
func Logger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
}

// PrepareStore returns an empty store and the KV it writes to.
func PrepareStore(t *testing.T) (*localstore.Store, core.KVStore) {
	kv := inmemdb.Open()
	t.Cleanup(func() { _ = kv.Close() })
	return localstore.New(kv, Logger(Config())), kv
}

func CreateUser(t *testing.T, svc *user.Service, name, email, pwd, role string) user.User {
	usr, err := svc.Register(user.NewUser{Name: name, Email: email, Password: pwd, Role: role})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
