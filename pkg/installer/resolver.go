package installer

import (
	"path/filepath"

	"github.com/arthur-debert/pkginstall/pkg/types"
)

// Resolve rewrites an entry's paths for the given context.
// Relative sources move under the workspace root in build-invocation mode;
// every destination, directories included, moves under the destdir.
// The two differ on absolute paths: an absolute src is kept as is, while an
// absolute dest is still nested under the destdir.
// No traversal checks are made: manifests come from a trusted build.
func Resolve(ctx *types.ExecutionContext, entry types.Entry) types.Entry {
	if !ctx.Standalone && entry.Src != "" && !filepath.IsAbs(entry.Src) {
		entry.Src = filepath.Join(ctx.WorkspaceRoot, entry.Src)
	}
	if ctx.Destdir != "" {
		entry.Dest = filepath.Join(ctx.Destdir, entry.Dest)
	}
	return entry
}
