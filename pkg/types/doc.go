// Package types defines the core types and interfaces used throughout pkginstall.
// This includes the manifest Entry and its Kind, the read-only ExecutionContext
// shared by every component, and the FS interface the installer mutates the
// filesystem through.
package types
