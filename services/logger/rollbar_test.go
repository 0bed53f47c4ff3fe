package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/joineazy/tracker/core"
	"github.com/joineazy/tracker/core/user"
)

func TestRollbarLogger(t *testing.T) {
	conf := core.NewConfig()
	conf.TestMode = true
	conf.RollbarToken = ""

	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), conf)

	usr := user.User{ID: "42", Name: "Rajat", Email: "r@x.com", Password: "secret1", Role: user.RoleAdmin}
	logger.Error("toggling submission", errors.New("boom"), map[string]interface{}{"assignment": "a1"}, usr)
	logger.Warn("malformed assignment data")

	out := buf.String()
	assert.Contains(t, out, "[ERROR] toggling submission\n")
	assert.Contains(t, out, "  boom\n")
	assert.Contains(t, out, "map[assignment:a1]")
	assert.Contains(t, out, "  user: 42 <r@x.com> (admin)\n")
	assert.NotContains(t, out, "secret1")
	assert.Contains(t, out, "[WARN] malformed assignment data\n")
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := RollbarLogger{}
	usr := user.User{ID: "42", Role: user.RoleAdmin}
	other := user.User{ID: "43", Role: user.RoleStudent}
	err := errors.New("boom")

	args := logger.prepare("msg", []interface{}{usr, err, other})
	assert.Equal(t, []interface{}{"msg", err, map[string]interface{}{"role": user.RoleAdmin}}, args)

	args = logger.prepare("msg", []interface{}{map[string]interface{}{"route": "/v1/assignments"}, err, usr, map[string]interface{}{"method": "POST"}})
	assert.Equal(t, []interface{}{"msg", err, map[string]interface{}{
		"route":  "/v1/assignments",
		"method": "POST",
		"role":   user.RoleAdmin,
	}}, args)

	args = logger.prepare("msg", []interface{}{err})
	assert.Equal(t, []interface{}{"msg", err}, args)
}
