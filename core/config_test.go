package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_defaults(t *testing.T) {
	t.Setenv("ENV", "")

	conf := NewConfig()
	assert.Equal(t, "DEV", conf.Env)
	assert.True(t, conf.Debug)
	assert.False(t, conf.TestMode)
	assert.True(t, conf.SeedOnStart)
	assert.Equal(t, ":8080", conf.Server.Address)
	assert.Equal(t, 10*time.Second, conf.Server.ShutdownTimeout)
	assert.Equal(t, "joineazy_session", conf.Server.SessionCookie)
	assert.Equal(t, EngineBolt, conf.Storage.Engine)
	assert.Equal(t, "Joineazy", conf.DefaultFromEmail.Name)
	assert.Equal(t, "noreply@localhost", conf.DefaultFromEmail.Address)
}

func TestNewConfig_env(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_DEBUG", "false")
	t.Setenv("TEST_SERVER_ADDRESS", ":9090")
	t.Setenv("TEST_SERVER_RATELIMIT", "2.5")
	t.Setenv("TEST_STORAGE_QUERYTIMEOUT", "1s")
	t.Setenv("TEST_DEFAULTFROMEMAIL", "not an address")

	conf := NewConfig()
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.False(t, conf.Debug)
	assert.Equal(t, EngineMemory, conf.Storage.Engine)
	assert.Equal(t, ":9090", conf.Server.Address)
	assert.Equal(t, 2.5, conf.Server.RateLimit)
	assert.Equal(t, time.Second, conf.Storage.QueryTimeout)
	assert.Equal(t, "not an address", conf.DefaultFromEmail.Address)
}
