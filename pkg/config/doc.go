// Package config builds the read-only execution context for an install run.
//
// Inputs come from three places, each read exactly once at start-up:
//
//   - the process environment (run-mode signals, runfiles root, DESTDIR),
//     loaded through a koanf env provider;
//   - an optional TOML settings file (workspace name, default destdir,
//     wipe-destdir), loaded through koanf's file provider;
//   - command line overrides supplied by the CLI.
//
// NewExecutionContext combines them into a types.ExecutionContext. No other
// package consults the environment.
package config
