package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joineazy/tracker/core/session"
	inmemdb "github.com/joineazy/tracker/storage/database/inmem"
)

func TestHolder(t *testing.T) {
	kv := inmemdb.Open()
	h := session.NewHolder(kv)

	_, err := h.Get()
	assert.Equal(t, session.ErrNoSession, err)

	ident := session.Identity{UserID: "42", Role: "admin"}
	require.NoError(t, h.Set(ident))

	got, err := h.Get()
	require.NoError(t, err)
	assert.Equal(t, ident, got)

	raw, err := kv.Get(session.Key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "42", "role": "admin"}`, string(raw))

	require.NoError(t, h.Clear())
	_, err = h.Get()
	assert.Equal(t, session.ErrNoSession, err)

	// idempotent
	require.NoError(t, h.Clear())
}

func TestHolder_Get_unreadable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "lol"},
		{name: "wrong shape", raw: `["42"]`},
		{name: "no id", raw: `{"role": "admin"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := inmemdb.Open()
			require.NoError(t, kv.Set(session.Key, []byte(tt.raw)))

			_, err := session.NewHolder(kv).Get()
			assert.Equal(t, session.ErrNoSession, err)
		})
	}
}
