// Package filesystem provides filesystem implementations for pkginstall.
//
// This package contains implementations of the types.FS interface: the
// standard OS filesystem used for real installs and an afero-backed one
// used by tests that do not need symlinks.
package filesystem
