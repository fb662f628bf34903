package manifest

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/pkginstall/pkg/errors"
	"github.com/arthur-debert/pkginstall/pkg/types"
)

// Format is a manifest encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// record is the on-disk shape of one manifest entry
type record struct {
	Type   string `json:"type" yaml:"type" toml:"type"`
	Src    string `json:"src" yaml:"src" toml:"src"`
	Dest   string `json:"dest" yaml:"dest" toml:"dest"`
	Mode   string `json:"mode" yaml:"mode" toml:"mode"`
	User   string `json:"user" yaml:"user" toml:"user"`
	Group  string `json:"group" yaml:"group" toml:"group"`
	UID    *int   `json:"uid" yaml:"uid" toml:"uid"`
	GID    *int   `json:"gid" yaml:"gid" toml:"gid"`
	Origin string `json:"origin" yaml:"origin" toml:"origin"`
}

type tomlDocument struct {
	Entries []record `toml:"entries"`
}

func (r record) toEntry() types.Entry {
	e := types.NewEntry(r.Type, r.Src, r.Dest)
	e.Mode = r.Mode
	e.User = r.User
	e.Group = r.Group
	e.Origin = r.Origin

	// numeric ids stand in for names when no name was given
	if e.User == "" && r.UID != nil {
		e.User = strconv.Itoa(*r.UID)
	}
	if e.Group == "" && r.GID != nil {
		e.Group = strconv.Itoa(*r.GID)
	}
	return e
}

// Read decodes all entries from r, preserving manifest order
func Read(r io.Reader, format Format) ([]types.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestRead, "failed to read manifest")
	}

	records, err := decode(data, format)
	if err != nil {
		return nil, err
	}

	entries := make([]types.Entry, 0, len(records))
	for i, rec := range records {
		entry := rec.toEntry()
		if err := entry.Validate(); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidEntry, "manifest entry %d", i).
				WithDetail("index", i)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ReadFile reads a manifest from fsys, choosing the format from the extension
func ReadFile(fsys types.FS, path string) ([]types.Entry, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestRead, "failed to read manifest %s", path).
			WithDetail("path", path)
	}
	entries, err := Read(bytes.NewReader(data), FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "invalid manifest %s", path).
			WithDetail("path", path)
	}
	return entries, nil
}

func decode(data []byte, format Format) ([]record, error) {
	var records []record

	switch format {
	case FormatTOML:
		var doc tomlDocument
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to decode TOML manifest")
		}
		records = doc.Entries
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to decode JSON manifest")
		}
	case FormatYAML:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to decode YAML manifest")
		}
	default:
		return nil, errors.Newf(errors.ErrManifestParse, "unsupported manifest format %q", format)
	}

	return records, nil
}
