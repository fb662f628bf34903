package types

// ExecutionContext is the process-wide install context.
// It is built once at start-up and shared read-only by every component.
type ExecutionContext struct {
	// Standalone is true when invoked as a standalone run; sources are used as given
	Standalone bool

	// WorkspaceRoot is where source paths are resolved in build-invocation mode
	WorkspaceRoot string

	// WorkingDir is the directory the standalone run was started from
	WorkingDir string

	// Destdir prefixes every destination when set
	Destdir string

	// WipeDestdir removes Destdir before any entry is installed
	WipeDestdir bool

	// DryRun logs every action without touching the filesystem
	DryRun bool
}

// Mode returns a short label for the invocation mode
func (c *ExecutionContext) Mode() string {
	if c.Standalone {
		return "standalone"
	}
	return "build"
}
