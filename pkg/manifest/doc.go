// Package manifest decodes install manifests into types.Entry values.
//
// A manifest is an ordered list of records, each with a type tag (file,
// symlink, dir, tree), a destination, an optional source and optional
// mode/user/group metadata. JSON and YAML manifests are read with yaml.v3
// (JSON being a subset of YAML); TOML manifests use [[entries]] tables.
//
// Unknown type tags are not rejected here. They are carried through as
// types.KindUnknown so the installer can abort at the offending entry.
package manifest
