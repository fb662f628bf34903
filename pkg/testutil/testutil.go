package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/pkginstall/pkg/config"
	"github.com/arthur-debert/pkginstall/pkg/types"
)

// FileTree represents a directory structure for testing.
// Values are either file contents (string) or nested FileTrees.
type FileTree map[string]interface{}

// CreateFileTree recursively creates tree under basePath on fsys
func CreateFileTree(t *testing.T, fsys types.FS, basePath string, tree FileTree) {
	t.Helper()

	require.NoError(t, fsys.MkdirAll(basePath, 0755))
	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			require.NoError(t, fsys.WriteFile(fullPath, []byte(v), 0644), "write %s", fullPath)
		case FileTree:
			CreateFileTree(t, fsys, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}

// WriteFile writes content to path on disk with exactly perm, creating parents
func WriteFile(t *testing.T, path, content string, perm fs.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	// WriteFile is subject to the umask
	require.NoError(t, os.Chmod(path, perm))
}

// AssertMode checks the permission bits of path on disk
func AssertMode(t *testing.T, path string, want fs.FileMode) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, want, info.Mode().Perm(), "mode of %s", path)
}

// UnsetEnv removes key for the duration of the test
func UnsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

// IsolateEnv clears the variables the installer reads and points the XDG
// config and state directories at a fresh temp dir, which it returns.
func IsolateEnv(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	for _, key := range []string{
		config.EnvWorkspaceDirectory,
		config.EnvWorkingDirectory,
		config.EnvRunfilesDir,
		config.EnvDestdir,
	} {
		UnsetEnv(t, key)
	}

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "xdg-config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "xdg-state"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	return root
}

// Standalone marks the test as a standalone run rooted at dir
func Standalone(t *testing.T, dir string) {
	t.Helper()
	t.Setenv(config.EnvWorkspaceDirectory, dir)
	t.Setenv(config.EnvWorkingDirectory, dir)
}
