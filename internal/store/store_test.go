package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSnapshot_RoundTrip(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.SaveSnapshot([]byte(`[{"id":"main"}]`)))
	got, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"main"}]`), got)
}

func TestSnapshot_SaveOverwrites(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.SaveSnapshot([]byte("first")))
	require.NoError(t, s.SaveSnapshot([]byte("second")))

	got, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestSnapshot_EmptyStore(t *testing.T) {
	s := openTemp(t)

	_, err := s.LoadSnapshot()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshot_Clear(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.SaveSnapshot([]byte("doc")))
	require.NoError(t, s.Clear())

	_, err := s.LoadSnapshot()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
