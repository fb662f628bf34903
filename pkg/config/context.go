package config

import (
	"path/filepath"

	"github.com/arthur-debert/pkginstall/pkg/errors"
	"github.com/arthur-debert/pkginstall/pkg/types"
)

// Overrides are the command line values that take precedence over environment and settings
type Overrides struct {
	Destdir string
	// DestdirSet distinguishes an explicit empty --destdir from an absent flag
	DestdirSet  bool
	WipeDestdir bool
	DryRun      bool
}

// NewExecutionContext resolves the execution context for one run.
// In build-invocation mode a missing runfiles root is a configuration error.
func NewExecutionContext(env *Environment, settings *Settings, o Overrides) (*types.ExecutionContext, error) {
	if env == nil {
		return nil, errors.New(errors.ErrInternal, "environment not loaded")
	}
	if settings == nil {
		settings = &Settings{WorkspaceName: DefaultWorkspaceName}
	}

	ctx := &types.ExecutionContext{
		Standalone:  env.Standalone(),
		WipeDestdir: o.WipeDestdir || settings.WipeDestdir,
		DryRun:      o.DryRun,
	}

	if ctx.Standalone {
		ctx.WorkingDir = env.WorkingDirectory
	} else {
		if env.RunfilesDir == "" {
			return nil, errors.Newf(errors.ErrConfig,
				"%s must be set in the environment when not invoked as a standalone run", EnvRunfilesDir)
		}
		name := settings.WorkspaceName
		if name == "" {
			name = DefaultWorkspaceName
		}
		ctx.WorkspaceRoot = filepath.Join(env.RunfilesDir, name)
	}

	destdir, err := resolveDestdir(ctx, env, settings, o)
	if err != nil {
		return nil, err
	}
	ctx.Destdir = destdir

	if ctx.WipeDestdir && ctx.Destdir == "" {
		return nil, errors.New(errors.ErrConfig, "wipe-destdir requires a destdir")
	}

	return ctx, nil
}

// resolveDestdir applies flag > DESTDIR > settings precedence and makes the result absolute
func resolveDestdir(ctx *types.ExecutionContext, env *Environment, settings *Settings, o Overrides) (string, error) {
	var destdir string
	switch {
	case o.DestdirSet:
		destdir = o.Destdir
	case env.Destdir != "":
		destdir = env.Destdir
	default:
		destdir = settings.Destdir
	}

	if destdir == "" || filepath.IsAbs(destdir) {
		return destdir, nil
	}

	if ctx.Standalone && ctx.WorkingDir != "" {
		return filepath.Join(ctx.WorkingDir, destdir), nil
	}

	abs, err := filepath.Abs(destdir)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrConfig, "cannot resolve destdir %s", destdir)
	}
	return abs, nil
}

// ManifestPath locates a manifest named on the command line.
// Relative paths live under the workspace root unless running standalone.
func ManifestPath(ctx *types.ExecutionContext, path string) string {
	if ctx.Standalone || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ctx.WorkspaceRoot, path)
}
