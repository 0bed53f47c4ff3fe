package inmemdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joineazy/tracker/core"
)

func TestDB(t *testing.T) {
	db := Open()

	_, err := db.Get("k")
	assert.Equal(t, core.ErrKeyNotFound, err)

	val := []byte("v1")
	require.NoError(t, db.Set("k", val))
	val[0] = 'x'

	got, err := db.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	got[0] = 'y'
	got, err = db.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	require.NoError(t, db.Delete("k"))
	require.NoError(t, db.Delete("k"))
	_, err = db.Get("k")
	assert.Equal(t, core.ErrKeyNotFound, err)

	require.NoError(t, db.Set("k", nil))
	got, err = db.Get("k")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, db.Close())
	_, err = db.Get("k")
	assert.Equal(t, core.ErrKeyNotFound, err)
}
