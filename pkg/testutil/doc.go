// Package testutil provides shared helpers for pkginstall tests: building
// file trees on any types.FS, writing fixtures on disk, checking modes, and
// isolating a test from the installer's environment variables.
package testutil
