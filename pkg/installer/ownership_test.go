package installer

import (
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/pkginstall/pkg/errors"
	"github.com/arthur-debert/pkginstall/pkg/filesystem"
	"github.com/arthur-debert/pkginstall/pkg/testutil"
	"github.com/arthur-debert/pkginstall/pkg/types"
)

// recordingFS logs metadata calls on top of an in-memory filesystem
type recordingFS struct {
	types.FS
	calls []string
}

func (r *recordingFS) Chmod(name string, mode fs.FileMode) error {
	r.calls = append(r.calls, fmt.Sprintf("chmod %s %o", name, mode.Perm()))
	return r.FS.Chmod(name, mode)
}

func (r *recordingFS) Lchown(name string, uid, gid int) error {
	r.calls = append(r.calls, fmt.Sprintf("chown %s %d:%d", name, uid, gid))
	return r.FS.Lchown(name, uid, gid)
}

type fakeLookup struct {
	users  map[string]int
	groups map[string]int
}

func (f fakeLookup) LookupUser(name string) (int, error) {
	if id, ok := f.users[name]; ok {
		return id, nil
	}
	return 0, user.UnknownUserError(name)
}

func (f fakeLookup) LookupGroup(name string) (int, error) {
	if id, ok := f.groups[name]; ok {
		return id, nil
	}
	return 0, user.UnknownGroupError(name)
}

var testLookup = fakeLookup{
	users:  map[string]int{"app": 1001},
	groups: map[string]int{"staff": 50},
}

func newRecordingEnforcer(privileged bool) (*Enforcer, *recordingFS) {
	rec := &recordingFS{FS: filesystem.NewMemory()}
	_ = rec.FS.WriteFile("/f", []byte("x"), 0644)
	return NewEnforcer(rec, func() bool { return privileged }, testLookup, zerolog.Nop()), rec
}

func TestEnforcer_NoMetadataIsNoop(t *testing.T) {
	e, rec := newRecordingEnforcer(true)
	require.NoError(t, e.Apply("/f", types.Entry{}, false))
	assert.Empty(t, rec.calls)
}

func TestEnforcer_ModeOnly(t *testing.T) {
	e, rec := newRecordingEnforcer(false)
	require.NoError(t, e.Apply("/f", types.Entry{Mode: "0600"}, false))
	assert.Equal(t, []string{"chmod /f 600"}, rec.calls)
}

func TestEnforcer_UnprivilegedSkipsOwnership(t *testing.T) {
	e, rec := newRecordingEnforcer(false)

	// unknown names are never looked up without privilege
	err := e.Apply("/f", types.Entry{User: "nobody-here", Group: "no-group", Mode: "0640"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"chmod /f 640"}, rec.calls)
}

func TestEnforcer_PrivilegedChownsBeforeChmod(t *testing.T) {
	e, rec := newRecordingEnforcer(true)

	err := e.Apply("/f", types.Entry{User: "app", Group: "staff", Mode: "4755"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"chown /f 1001:50", "chmod /f 755"}, rec.calls)
}

func TestEnforcer_UserOrGroupAlone(t *testing.T) {
	e, rec := newRecordingEnforcer(true)

	require.NoError(t, e.Apply("/f", types.Entry{User: "app"}, false))
	require.NoError(t, e.Apply("/f", types.Entry{Group: "staff"}, false))
	assert.Equal(t, []string{"chown /f 1001:-1", "chown /f -1:50"}, rec.calls)
}

func TestEnforcer_UnknownUserIsFatalWhenPrivileged(t *testing.T) {
	e, rec := newRecordingEnforcer(true)

	err := e.Apply("/f", types.Entry{User: "ghost", Mode: "0600"}, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrOwnership))
	assert.Contains(t, err.Error(), "ghost")
	assert.Empty(t, rec.calls)

	err = e.Apply("/f", types.Entry{Group: "ghosts"}, false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrOwnership))
}

func TestEnforcer_SymlinkGetsOwnershipOnly(t *testing.T) {
	e, rec := newRecordingEnforcer(true)

	require.NoError(t, e.Apply("/f", types.Entry{User: "app", Mode: "0777"}, true))
	assert.Equal(t, []string{"chown /f 1001:-1"}, rec.calls)
}

func TestEnforcer_ChmodFailure(t *testing.T) {
	e, _ := newRecordingEnforcer(false)
	err := e.Apply("/missing", types.Entry{Mode: "0600"}, false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrChmod))
}

func TestEnforcer_ChownToSelfOnRealFilesystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	uid := strconv.Itoa(os.Getuid())
	gid := strconv.Itoa(os.Getgid())

	e := NewEnforcer(filesystem.NewOS(), func() bool { return true }, SystemLookup{}, zerolog.Nop())
	require.NoError(t, e.Apply(path, types.Entry{User: uid, Group: gid, Mode: "0640"}, false))

	testutil.AssertMode(t, path, 0640)
}

func TestInstallTree_OwnershipAppliedToEveryPath(t *testing.T) {
	fsys := &recordingFS{FS: filesystem.NewMemory()}
	testutil.CreateFileTree(t, fsys, "/src", testutil.FileTree{
		"a.txt": "a",
		"sub":   testutil.FileTree{"b.txt": "b"},
	})

	logger := zerolog.Nop()
	inst := New(Options{
		Context:    &types.ExecutionContext{Standalone: true},
		FS:         fsys,
		Logger:     &logger,
		Privileged: func() bool { return true },
		Lookup:     testLookup,
	})

	entry := types.NewEntry(types.TagTreeArtifact, "/src", "/dest")
	entry.User = "app"
	_, err := inst.Install([]types.Entry{entry})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"chown /dest 1001:-1",
		"chown /dest/a.txt 1001:-1",
		"chown /dest/sub 1001:-1",
		"chown /dest/sub/b.txt 1001:-1",
	}, fsys.calls)
	// the tree root is enforced last
	assert.Equal(t, "chown /dest 1001:-1", fsys.calls[len(fsys.calls)-1])
}

func TestSystemLookup_Numeric(t *testing.T) {
	id, err := SystemLookup{}.LookupUser("1234")
	require.NoError(t, err)
	assert.Equal(t, 1234, id)

	id, err = SystemLookup{}.LookupGroup("0")
	require.NoError(t, err)
	assert.Equal(t, 0, id)
}

func TestSystemLookup_Unknown(t *testing.T) {
	_, err := SystemLookup{}.LookupUser("pkginstall-no-such-user")
	assert.Error(t, err)
	_, err = SystemLookup{}.LookupGroup("pkginstall-no-such-group")
	assert.Error(t, err)
}

func TestHasOwnershipPrivilege(t *testing.T) {
	assert.Equal(t, os.Geteuid() == 0, HasOwnershipPrivilege())
}
