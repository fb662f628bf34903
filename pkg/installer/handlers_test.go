package installer

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/pkginstall/pkg/errors"
	"github.com/arthur-debert/pkginstall/pkg/testutil"
	"github.com/arthur-debert/pkginstall/pkg/types"
)

func TestInstallSymlink_LiteralRelativeTarget(t *testing.T) {
	tmp := t.TempDir()
	dest := filepath.Join(tmp, "usr", "bin", "foo.so")

	inst := newTestInstaller(t, &types.ExecutionContext{Standalone: true})
	_, err := inst.Install([]types.Entry{types.NewEntry(types.TagSymlink, "../lib/foo.so", dest)})
	require.NoError(t, err)

	info, err := os.Lstat(dest)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&fs.ModeSymlink)

	target, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, "../lib/foo.so", target)
}

func TestInstallSymlink_ExistingDestFails(t *testing.T) {
	tmp := t.TempDir()
	dest := filepath.Join(tmp, "link")
	entry := types.NewEntry(types.TagSymlink, "target", dest)

	inst := newTestInstaller(t, &types.ExecutionContext{Standalone: true})
	_, err := inst.Install([]types.Entry{entry})
	require.NoError(t, err)

	_, err = inst.Install([]types.Entry{entry})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSymlinkCreate))
}

func TestInstallSymlink_ModeDoesNotFollowLink(t *testing.T) {
	tmp := t.TempDir()
	dest := filepath.Join(tmp, "dangling")
	entry := types.NewEntry(types.TagSymlink, "does/not/exist", dest)
	entry.Mode = "0600"

	inst := newTestInstaller(t, &types.ExecutionContext{Standalone: true})
	_, err := inst.Install([]types.Entry{entry})
	require.NoError(t, err)

	target, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, "does/not/exist", target)
}

func TestInstallSymlink_BuildModeRewritesSource(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "runfiles", "_main")
	dest := filepath.Join(tmp, "out", "link")

	inst := newTestInstaller(t, &types.ExecutionContext{WorkspaceRoot: root})
	_, err := inst.Install([]types.Entry{types.NewEntry(types.TagSymlink, "lib/foo.so", dest)})
	require.NoError(t, err)

	target, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "lib", "foo.so"), target)
}

// makeSourceTree builds:
//
//	src/
//	  top.txt        0644
//	  private.txt    0600
//	  sub/           0755
//	    deep.txt     0644
//	    deeper/      0700
//	      leaf.txt   0644
//	  link -> top.txt
func makeSourceTree(t *testing.T, root string) {
	t.Helper()
	testutil.WriteFile(t, filepath.Join(root, "top.txt"), "top", 0644)
	testutil.WriteFile(t, filepath.Join(root, "private.txt"), "private", 0600)
	testutil.WriteFile(t, filepath.Join(root, "sub", "deep.txt"), "deep", 0644)
	testutil.WriteFile(t, filepath.Join(root, "sub", "deeper", "leaf.txt"), "leaf", 0644)
	require.NoError(t, os.Chmod(filepath.Join(root, "sub", "deeper"), 0700))
	require.NoError(t, os.Symlink("top.txt", filepath.Join(root, "link")))
}

func TestInstallTree_CopiesStructure(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	makeSourceTree(t, src)
	dest := filepath.Join(tmp, "out", "tree")

	inst := newTestInstaller(t, &types.ExecutionContext{Standalone: true})
	_, err := inst.Install([]types.Entry{types.NewEntry(types.TagTreeArtifact, src, dest)})
	require.NoError(t, err)

	for rel, want := range map[string]string{
		"top.txt":             "top",
		"private.txt":         "private",
		"sub/deep.txt":        "deep",
		"sub/deeper/leaf.txt": "leaf",
	} {
		got, err := os.ReadFile(filepath.Join(dest, rel))
		require.NoError(t, err, rel)
		assert.Equal(t, want, string(got), rel)
	}

	target, err := os.Readlink(filepath.Join(dest, "link"))
	require.NoError(t, err)
	assert.Equal(t, "top.txt", target)
}

func TestInstallTree_UniformMode(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	makeSourceTree(t, src)
	dest := filepath.Join(tmp, "out", "tree")

	entry := types.NewEntry(types.TagTreeArtifact, src, dest)
	entry.Mode = "0750"

	inst := newTestInstaller(t, &types.ExecutionContext{Standalone: true})
	_, err := inst.Install([]types.Entry{entry})
	require.NoError(t, err)

	count := 0
	err = filepath.WalkDir(dest, func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		testutil.AssertMode(t, path, 0750)
		count++
		return nil
	})
	require.NoError(t, err)
	// tree root, sub, deeper and four files
	assert.Equal(t, 7, count)
}

func TestInstallTree_ExistingDestFails(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	makeSourceTree(t, src)
	dest := filepath.Join(tmp, "out", "tree")
	require.NoError(t, os.MkdirAll(dest, 0755))

	inst := newTestInstaller(t, &types.ExecutionContext{Standalone: true})
	_, err := inst.Install([]types.Entry{types.NewEntry(types.TagTreeArtifact, src, dest)})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
}

func TestInstallTree_SourceMustBeDirectory(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "file.txt")
	testutil.WriteFile(t, src, "x", 0644)

	inst := newTestInstaller(t, &types.ExecutionContext{Standalone: true})
	_, err := inst.Install([]types.Entry{types.NewEntry(types.TagTreeArtifact, src, filepath.Join(tmp, "out"))})
	assert.True(t, errors.IsErrorCode(err, errors.ErrTreeCopy))

	_, err = inst.Install([]types.Entry{types.NewEntry(types.TagTreeArtifact, filepath.Join(tmp, "nope"), filepath.Join(tmp, "out2"))})
	assert.True(t, errors.IsErrorCode(err, errors.ErrTreeCopy))
}

func TestInstallTree_IntoDirectoryCreatedEarlier(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	makeSourceTree(t, src)
	destdir := filepath.Join(tmp, "stage")

	parent := types.NewEntry(types.TagDirectory, "", "usr/share/app")
	parent.Mode = "0755"
	tree := types.NewEntry(types.TagTreeArtifact, src, "usr/share/app/data")

	inst := newTestInstaller(t, &types.ExecutionContext{Standalone: true, Destdir: destdir})
	_, err := inst.Install([]types.Entry{parent, tree})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(destdir, "usr/share/app/data/sub/deep.txt"))
}

func TestInstallTree_DestInsideSource(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "a")
	testutil.WriteFile(t, filepath.Join(src, "f.txt"), "f", 0644)
	testutil.WriteFile(t, filepath.Join(src, "sub", "g.txt"), "g", 0644)

	tests := []struct {
		name     string
		dest     string
		want     []string
		notExist []string
	}{
		{
			name:     "direct child",
			dest:     filepath.Join(src, "b"),
			want:     []string{"f.txt", "sub/g.txt"},
			notExist: []string{"b"},
		},
		{
			name:     "inside a subdirectory",
			dest:     filepath.Join(src, "sub", "x"),
			want:     []string{"f.txt", "sub/g.txt"},
			notExist: []string{"sub/x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := newTestInstaller(t, &types.ExecutionContext{Standalone: true})
			_, err := inst.Install([]types.Entry{types.NewEntry(types.TagTreeArtifact, src, tt.dest)})
			require.NoError(t, err)

			for _, rel := range tt.want {
				assert.FileExists(t, filepath.Join(tt.dest, rel))
			}
			for _, rel := range tt.notExist {
				assert.NoDirExists(t, filepath.Join(tt.dest, rel))
			}
		})
	}
}
