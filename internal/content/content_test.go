package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.js")
	require.NoError(t, os.WriteFile(path, []byte("app.get('/')"), 0644))

	s, err := NewStore(0, 0)
	require.NoError(t, err)

	got, err := s.ReadString(path)
	require.NoError(t, err)
	assert.Equal(t, "app.get('/')", got)
	assert.Equal(t, 1, s.Len())

	_, err = s.Read(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestStore_ReadSeesChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main"), 0644))

	s, err := NewStore(8, 0)
	require.NoError(t, err)
	_, err = s.Read(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("package main // changed"), 0644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	got, err := s.ReadString(path)
	require.NoError(t, err)
	assert.Equal(t, "package main // changed", got)
}

func TestStore_Limits(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.txt")
	bin := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(big, make([]byte, 64), 0644))
	require.NoError(t, os.WriteFile(bin, []byte{'a', 0, 'b'}, 0644))

	s, err := NewStore(8, 10)
	require.NoError(t, err)

	_, err = s.Read(big)
	assert.True(t, errors.Is(err, ErrTooLarge), "got %v", err)

	_, err = s.Read(bin)
	assert.True(t, errors.Is(err, ErrBinary), "got %v", err)

	_, err = s.Read(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)

	assert.Equal(t, 0, s.Len())
}

func TestStore_Eviction(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(2, 0)
	require.NoError(t, err)

	for _, name := range []string{"a", "b", "c"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0644))
		_, err := s.Read(p)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, s.Len())

	s.Purge()
	assert.Equal(t, 0, s.Len())
}
