package installer

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/pkginstall/pkg/errors"
	"github.com/arthur-debert/pkginstall/pkg/types"
)

// defaultDirMode is used for parents and for directories before enforcement
const defaultDirMode fs.FileMode = 0755

// ensureParent creates the parent of dest without applying any ownership
func (i *Installer) ensureParent(dest string) error {
	parent := filepath.Dir(dest)
	i.logger.Debug().Str("path", parent).Msg("MKDIR (unowned)")
	if err := i.fs.MkdirAll(parent, defaultDirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent directory %s", parent).
			WithDetail("path", parent)
	}
	return nil
}

func (i *Installer) installFile(entry types.Entry) error {
	if err := i.ensureParent(entry.Dest); err != nil {
		return err
	}

	i.logger.Info().Str("src", entry.Src).Str("dest", entry.Dest).Msg("COPY")
	if err := i.copyFile(entry.Src, entry.Dest); err != nil {
		return err
	}

	return i.enforcer.Apply(entry.Dest, entry, false)
}

func (i *Installer) installSymlink(entry types.Entry) error {
	if err := i.ensureParent(entry.Dest); err != nil {
		return err
	}

	i.logger.Info().Str("target", entry.Src).Str("dest", entry.Dest).Msg("SYMLINK")
	if err := i.fs.Symlink(entry.Src, entry.Dest); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create symlink %s -> %s", entry.Dest, entry.Src).
			WithDetail("dest", entry.Dest)
	}

	return i.enforcer.Apply(entry.Dest, entry, true)
}

func (i *Installer) installDirectory(entry types.Entry) error {
	if err := i.ensureParent(entry.Dest); err != nil {
		return err
	}

	i.logger.Info().Str("mode", entry.Mode).Str("dest", entry.Dest).Msg("MKDIR")
	if err := i.fs.MkdirAll(entry.Dest, defaultDirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", entry.Dest).
			WithDetail("dest", entry.Dest)
	}

	return i.enforcer.Apply(entry.Dest, entry, false)
}

// treeItem is one path written by a tree copy
type treeItem struct {
	path   string
	isLink bool
}

func (i *Installer) installTree(entry types.Entry) error {
	if err := i.ensureParent(entry.Dest); err != nil {
		return err
	}

	if _, err := i.fs.Lstat(entry.Dest); err == nil {
		return errors.Newf(errors.ErrAlreadyExists, "tree destination %s already exists", entry.Dest).
			WithDetail("dest", entry.Dest)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrTreeCopy, "cannot inspect tree destination %s", entry.Dest)
	}

	info, err := i.fs.Stat(entry.Src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrTreeCopy, "cannot read tree source %s", entry.Src).
			WithDetail("src", entry.Src)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrTreeCopy, "tree source %s is not a directory", entry.Src).
			WithDetail("src", entry.Src)
	}

	i.logger.Info().Str("src", entry.Src).Str("dest", entry.Dest).Msg("COPYTREE")

	var copied []treeItem
	dest := filepath.Clean(entry.Dest)
	if err := i.copyTree(filepath.Clean(entry.Src), dest, dest, &copied); err != nil {
		return err
	}

	// children first, so restrictive directory modes never block the walk
	for j := len(copied) - 1; j >= 0; j-- {
		if err := i.enforcer.Apply(copied[j].path, entry, copied[j].isLink); err != nil {
			return err
		}
	}
	return nil
}

// copyTree copies src into the not yet existing dest, recording every path it writes.
// Each listing is taken before dest is created and root, the tree's own
// destination, is never descended into, so a dest nested inside src is safe.
func (i *Installer) copyTree(src, dest, root string, copied *[]treeItem) error {
	children, err := i.fs.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrTreeCopy, "failed to read directory %s", src)
	}

	if err := i.fs.MkdirAll(dest, defaultDirMode); err != nil {
		return errors.Wrapf(err, errors.ErrTreeCopy, "failed to create directory %s", dest)
	}
	*copied = append(*copied, treeItem{path: dest})

	for _, child := range children {
		from := filepath.Join(src, child.Name())
		to := filepath.Join(dest, child.Name())
		if from == root {
			continue
		}

		switch {
		case child.Type()&fs.ModeSymlink != 0:
			target, err := i.fs.Readlink(from)
			if err != nil {
				return errors.Wrapf(err, errors.ErrTreeCopy, "failed to read link %s", from)
			}
			i.logger.Debug().Str("target", target).Str("dest", to).Msg("SYMLINK (tree)")
			if err := i.fs.Symlink(target, to); err != nil {
				return errors.Wrapf(err, errors.ErrTreeCopy, "failed to create link %s", to)
			}
			*copied = append(*copied, treeItem{path: to, isLink: true})
		case child.IsDir():
			if err := i.copyTree(from, to, root, copied); err != nil {
				return err
			}
		default:
			i.logger.Debug().Str("src", from).Str("dest", to).Msg("COPY (tree)")
			if err := i.copyFile(from, to); err != nil {
				return errors.Wrap(err, errors.ErrTreeCopy, "failed to copy tree")
			}
			*copied = append(*copied, treeItem{path: to})
		}
	}

	return nil
}

// copyFile copies src's bytes to dest, truncating dest if it exists.
// A newly created dest starts with src's permission bits.
func (i *Installer) copyFile(src, dest string) error {
	info, err := i.fs.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot read source %s", src).
			WithDetail("src", src)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrFileCopy, "source %s is a directory", src).
			WithDetail("src", src)
	}

	in, err := i.fs.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot open source %s", src).
			WithDetail("src", src)
	}
	defer in.Close()

	out, err := i.fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot create %s", dest).
			WithDetail("dest", dest)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to copy %s to %s", src, dest)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to finish writing %s", dest)
	}

	return nil
}
