package marker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarker(t *testing.T) *Marker {
	t.Helper()

	return New(filepath.Join(t.TempDir(), "session"))
}

func TestReadMissingMarker(t *testing.T) {
	m := newTestMarker(t)

	email, err := m.Read()
	require.NoError(t, err)
	assert.Empty(t, email)
}

func TestWriteThenRead(t *testing.T) {
	m := newTestMarker(t)

	require.NoError(t, m.Write("ana@example.com"))

	email, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)
}

func TestWriteOverwrites(t *testing.T) {
	m := newTestMarker(t)

	require.NoError(t, m.Write("first@example.com"))
	require.NoError(t, m.Write("second@example.com"))

	email, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", email)
}

func TestClearIsIdempotent(t *testing.T) {
	m := newTestMarker(t)

	require.NoError(t, m.Write("ana@example.com"))
	require.NoError(t, m.Clear())
	require.NoError(t, m.Clear())

	email, err := m.Read()
	require.NoError(t, err)
	assert.Empty(t, email)
}

func TestCorruptMarkerReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	email, err := New(path).Read()
	require.NoError(t, err)
	assert.Empty(t, email)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	m := New(filepath.Join(dir, "session"))

	require.NoError(t, m.Write("ana@example.com"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session", entries[0].Name())
}
