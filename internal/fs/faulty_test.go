package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileReadFileRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "round.json")

	require.NoError(t, WriteFile(Default, name, []byte("payload"), 0o644))

	data, err := ReadFile(Default, name)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestFaultyFS_Passthrough(t *testing.T) {
	fsys := NewFaultyFS(nil)
	name := filepath.Join(t.TempDir(), "clean.txt")

	require.NoError(t, WriteFile(fsys, name, []byte("untouched"), 0o644))

	data, err := ReadFile(fsys, name)
	require.NoError(t, err)
	assert.Equal(t, []byte("untouched"), data)
}

func TestFaultyFS_FailAfterBytes(t *testing.T) {
	fsys := NewFaultyFS(nil)
	fsys.AddRule("partial", Fault{FailAfterBytes: 4})
	name := filepath.Join(t.TempDir(), "partial.txt")

	err := WriteFile(fsys, name, []byte("0123456789"), 0o644)
	require.ErrorIs(t, err, ErrInjected)

	// The write stopped at the byte limit, leaving a truncated file behind.
	data, readErr := os.ReadFile(name)
	require.NoError(t, readErr)
	assert.Equal(t, []byte("0123"), data)
}

func TestFaultyFS_FailOnSync(t *testing.T) {
	fsys := NewFaultyFS(nil)
	fsys.AddRule("sync", Fault{FailAfterBytes: -1, FailOnSync: true})
	name := filepath.Join(t.TempDir(), "sync.txt")

	err := WriteFile(fsys, name, []byte("data"), 0o644)
	assert.ErrorIs(t, err, ErrInjected)
}

func TestFaultyFS_FailRename(t *testing.T) {
	fsys := NewFaultyFS(nil)
	dir := t.TempDir()
	src := filepath.Join(dir, "src.tmp")
	dst := filepath.Join(dir, "dst.json")
	require.NoError(t, WriteFile(fsys, src, []byte("x"), 0o644))

	fsys.AddRule("src.tmp", Fault{FailAfterBytes: -1, FailRename: true})
	assert.ErrorIs(t, fsys.Rename(src, dst), ErrInjected)

	fsys.ClearRules()
	require.NoError(t, fsys.Rename(src, dst))
	_, err := os.Stat(dst)
	assert.NoError(t, err)
}

func TestFaultyFS_CustomError(t *testing.T) {
	custom := errors.New("disk full")
	fsys := NewFaultyFS(nil)
	fsys.AddRule("full", Fault{FailAfterBytes: 0, Err: custom})
	name := filepath.Join(t.TempDir(), "full.txt")

	err := WriteFile(fsys, name, []byte("data"), 0o644)
	assert.ErrorIs(t, err, custom)
}
