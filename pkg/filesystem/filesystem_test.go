package filesystem

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/pkginstall/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseFS(t *testing.T, fsys types.FS, root string) {
	t.Helper()

	testFile := filepath.Join(root, "sub", "dir", "test.txt")
	require.NoError(t, fsys.MkdirAll(filepath.Dir(testFile), 0755))

	w, err := fsys.OpenFile(testFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := fsys.Open(testFile)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "hello world", string(data))

	require.NoError(t, fsys.Chmod(testFile, 0600))
	info, err := fsys.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := fsys.ReadDir(filepath.Dir(testFile))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "test.txt", entries[0].Name())

	require.NoError(t, fsys.RemoveAll(filepath.Join(root, "sub")))
	_, err = fsys.Stat(testFile)
	assert.True(t, os.IsNotExist(err))
}

func TestOSFilesystem(t *testing.T) {
	exerciseFS(t, NewOS(), t.TempDir())
}

func TestMemoryFilesystem(t *testing.T) {
	exerciseFS(t, NewMemory(), "/root")
}

func TestOSSymlinks(t *testing.T) {
	fsys := NewOS()
	tmpDir := t.TempDir()
	link := filepath.Join(tmpDir, "link")

	require.NoError(t, fsys.Symlink("../lib/foo.so", link))

	target, err := fsys.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, "../lib/foo.so", target)

	info, err := fsys.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}

func TestAferoOsFsSymlinks(t *testing.T) {
	fsys := NewAferoFS(afero.NewOsFs())
	tmpDir := t.TempDir()
	link := filepath.Join(tmpDir, "link")

	require.NoError(t, fsys.Symlink("target", link))
	target, err := fsys.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, "target", target)
}

func TestMemorySymlinkUnsupported(t *testing.T) {
	fsys := NewMemory()
	err := fsys.Symlink("target", "/link")
	require.Error(t, err)
	assert.ErrorIs(t, err, afero.ErrNoSymlink)

	_, err = fsys.Readlink("/link")
	assert.Error(t, err)
}

func TestMemoryReadFileOnDirectory(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.MkdirAll("/dir", 0755))
	_, err := fsys.ReadFile("/dir")
	assert.Error(t, err)
}
