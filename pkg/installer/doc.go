// Package installer materializes manifest entries on disk.
//
// Entries are processed strictly in manifest order. Each entry is first
// resolved against the ExecutionContext (source under the workspace root
// unless running standalone, destination under the destdir when one is set),
// then dispatched on its Kind to one of four handlers:
//
//	file     byte copy, overwriting an existing destination
//	symlink  link whose target is the literal source string
//	dir      MkdirAll, idempotent
//	tree     recursive copy of a directory; the destination must not exist
//
// Every handler creates missing parent directories (0755, no ownership) and
// finishes by running the Enforcer over what it wrote. The first error stops
// the run; nothing already installed is rolled back.
package installer
