package installer

import (
	"os"
	"os/user"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/pkginstall/pkg/errors"
	"github.com/arthur-debert/pkginstall/pkg/types"
)

// HasOwnershipPrivilege reports whether the process may chown arbitrary files.
// Platforms without uids report -1 and are never privileged.
func HasOwnershipPrivilege() bool {
	return os.Geteuid() == 0
}

// IDLookup resolves user and group names to numeric ids
type IDLookup interface {
	LookupUser(name string) (int, error)
	LookupGroup(name string) (int, error)
}

// SystemLookup resolves names through the system user database.
// Numeric names are taken as ids directly.
type SystemLookup struct{}

func (SystemLookup) LookupUser(name string) (int, error) {
	if id, err := strconv.Atoi(name); err == nil {
		return id, nil
	}
	u, err := user.Lookup(name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(u.Uid)
}

func (SystemLookup) LookupGroup(name string) (int, error) {
	if id, err := strconv.Atoi(name); err == nil {
		return id, nil
	}
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(g.Gid)
}

// Enforcer applies an entry's declared mode and ownership to a path
type Enforcer struct {
	fs         types.FS
	privileged func() bool
	lookup     IDLookup
	logger     zerolog.Logger
}

// NewEnforcer creates an Enforcer. Nil privileged and lookup select the system defaults.
func NewEnforcer(fs types.FS, privileged func() bool, lookup IDLookup, logger zerolog.Logger) *Enforcer {
	if privileged == nil {
		privileged = HasOwnershipPrivilege
	}
	if lookup == nil {
		lookup = SystemLookup{}
	}
	return &Enforcer{
		fs:         fs,
		privileged: privileged,
		lookup:     lookup,
		logger:     logger,
	}
}

// Apply enforces entry's mode, user and group on path.
// Ownership is changed first because chown clears setuid/setgid bits.
// Without privilege the ownership change is skipped silently. Symlinks only
// get ownership; their permission bits cannot be set.
func (e *Enforcer) Apply(path string, entry types.Entry, isLink bool) error {
	mode, hasMode, err := entry.FileMode()
	if err != nil {
		return err
	}

	if entry.HasOwnership() {
		if err := e.chown(path, entry); err != nil {
			return err
		}
	}

	if hasMode && !isLink {
		e.logger.Debug().Str("path", path).Str("mode", mode.String()).Msg("CHMOD")
		if err := e.fs.Chmod(path, mode); err != nil {
			return errors.Wrapf(err, errors.ErrChmod, "failed to set mode %s on %s", entry.Mode, path).
				WithDetail("path", path)
		}
	}

	return nil
}

func (e *Enforcer) chown(path string, entry types.Entry) error {
	if !e.privileged() {
		e.logger.Debug().
			Str("path", path).
			Str("user", entry.User).
			Str("group", entry.Group).
			Msg("Skipping ownership change, insufficient privilege")
		return nil
	}

	uid, gid := -1, -1
	if entry.User != "" {
		id, err := e.lookup.LookupUser(entry.User)
		if err != nil {
			return errors.Wrapf(err, errors.ErrOwnership, "unknown user %q for %s", entry.User, path).
				WithDetail("path", path)
		}
		uid = id
	}
	if entry.Group != "" {
		id, err := e.lookup.LookupGroup(entry.Group)
		if err != nil {
			return errors.Wrapf(err, errors.ErrOwnership, "unknown group %q for %s", entry.Group, path).
				WithDetail("path", path)
		}
		gid = id
	}

	e.logger.Debug().Str("path", path).Int("uid", uid).Int("gid", gid).Msg("CHOWN")
	if err := e.fs.Lchown(path, uid, gid); err != nil {
		return errors.Wrapf(err, errors.ErrOwnership, "failed to change ownership of %s", path).
			WithDetail("path", path)
	}
	return nil
}
