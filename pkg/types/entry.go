package types

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/arthur-debert/pkginstall/pkg/errors"
)

// Kind identifies the install action an Entry describes
type Kind int

const (
	// KindUnknown is the zero value; entries carrying it abort the install
	KindUnknown Kind = iota
	KindFile
	KindSymlink
	KindDirectory
	KindTreeArtifact
)

// Manifest tags for each kind
const (
	TagFile         = "file"
	TagSymlink      = "symlink"
	TagDirectory    = "dir"
	TagTreeArtifact = "tree"
)

var kindTags = map[Kind]string{
	KindFile:         TagFile,
	KindSymlink:      TagSymlink,
	KindDirectory:    TagDirectory,
	KindTreeArtifact: TagTreeArtifact,
}

// ParseKind maps a manifest tag to its Kind. Unrecognized tags map to KindUnknown.
func ParseKind(tag string) Kind {
	for kind, t := range kindTags {
		if t == tag {
			return kind
		}
	}
	return KindUnknown
}

func (k Kind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return "unknown"
}

// RequiresSource reports whether entries of this kind must name a source
func (k Kind) RequiresSource() bool {
	switch k {
	case KindFile, KindSymlink, KindTreeArtifact:
		return true
	default:
		return false
	}
}

// Entry is one install directive from a manifest.
// Mode, User and Group are optional; an empty string means absent.
type Entry struct {
	Kind Kind
	// Tag is the type string exactly as the manifest spelled it
	Tag    string
	Src    string
	Dest   string
	Mode   string
	User   string
	Group  string
	Origin string
}

// NewEntry builds an Entry from a manifest tag
func NewEntry(tag, src, dest string) Entry {
	return Entry{
		Kind: ParseKind(tag),
		Tag:  tag,
		Src:  src,
		Dest: dest,
	}
}

// TypeName returns the manifest spelling of the entry's type
func (e Entry) TypeName() string {
	if e.Tag != "" {
		return e.Tag
	}
	return e.Kind.String()
}

// HasOwnership reports whether a user or group was declared
func (e Entry) HasOwnership() bool {
	return e.User != "" || e.Group != ""
}

// Validate checks the structural invariants of an entry.
// The kind itself is not checked here; unknown kinds are rejected by the installer.
func (e Entry) Validate() error {
	if e.Dest == "" {
		return errors.Newf(errors.ErrInvalidEntry, "%s entry has no destination", e.TypeName()).
			WithDetail("src", e.Src)
	}
	if e.Kind.RequiresSource() && e.Src == "" {
		return errors.Newf(errors.ErrInvalidEntry, "%s entry for %s has no source", e.TypeName(), e.Dest).
			WithDetail("dest", e.Dest)
	}
	if e.Mode != "" {
		if _, _, err := e.FileMode(); err != nil {
			return err
		}
	}
	return nil
}

// FileMode parses Mode as an octal permission value.
// The boolean is false when no mode was declared.
func (e Entry) FileMode() (fs.FileMode, bool, error) {
	if e.Mode == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(e.Mode, 8, 32)
	if err != nil {
		return 0, false, errors.Wrapf(err, errors.ErrInvalidEntry, "invalid mode %q for %s", e.Mode, e.Dest)
	}
	if v > 0o7777 {
		return 0, false, errors.Newf(errors.ErrInvalidEntry, "mode %q for %s is out of range", e.Mode, e.Dest)
	}
	return toFileMode(uint32(v)), true, nil
}

// toFileMode converts unix permission bits, including setuid, setgid and
// sticky, to their fs.FileMode representation.
func toFileMode(bits uint32) fs.FileMode {
	mode := fs.FileMode(bits & 0o777)
	if bits&0o4000 != 0 {
		mode |= fs.ModeSetuid
	}
	if bits&0o2000 != 0 {
		mode |= fs.ModeSetgid
	}
	if bits&0o1000 != 0 {
		mode |= fs.ModeSticky
	}
	return mode
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s <- %s", e.TypeName(), e.Dest, e.Src)
}
