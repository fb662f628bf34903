package installer

import (
	opfs "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/pkginstall/pkg/errors"
	"github.com/arthur-debert/pkginstall/pkg/filesystem"
	"github.com/arthur-debert/pkginstall/pkg/logging"
	"github.com/arthur-debert/pkginstall/pkg/types"
)

// Options contains configuration for the installer
type Options struct {
	Context *types.ExecutionContext
	// Filesystem operations interface for testing
	FS     types.FS
	Logger *zerolog.Logger
	// Privileged overrides the ownership privilege check
	Privileged func() bool
	Lookup     IDLookup
}

// Installer applies manifest entries to the filesystem
type Installer struct {
	ctx      *types.ExecutionContext
	fs       types.FS
	logger   zerolog.Logger
	enforcer *Enforcer
	target   opfs.FullFileSystem
}

// Result summarizes a completed run
type Result struct {
	Installed int
	ByKind    map[types.Kind]int
	DryRun    bool
}

// New creates a new installer instance
func New(opts Options) *Installer {
	logger := logging.GetLogger("installer")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	ctx := opts.Context
	if ctx == nil {
		ctx = &types.ExecutionContext{Standalone: true}
	}

	return &Installer{
		ctx:      ctx,
		fs:       fs,
		logger:   logger,
		enforcer: NewEnforcer(fs, opts.Privileged, opts.Lookup, logger),
		target:   newTarget(),
	}
}

// Install resolves and installs entries in order. The first failure aborts
// the run and leaves whatever was already installed in place.
func (i *Installer) Install(entries []types.Entry) (*Result, error) {
	done := logging.LogOperationStart(i.logger, "install")
	defer done()

	i.logger.Info().
		Str("mode", i.ctx.Mode()).
		Str("workspaceRoot", i.ctx.WorkspaceRoot).
		Str("destdir", i.ctx.Destdir).
		Bool("dryRun", i.ctx.DryRun).
		Int("entries", len(entries)).
		Msg("Starting install")

	if err := i.wipeDestdir(); err != nil {
		return nil, err
	}

	result := &Result{ByKind: make(map[types.Kind]int), DryRun: i.ctx.DryRun}
	for idx, entry := range entries {
		if err := i.installEntry(idx, Resolve(i.ctx, entry)); err != nil {
			i.logger.Error().
				Err(err).
				Int("index", idx).
				Str("type", entry.TypeName()).
				Str("dest", entry.Dest).
				Msg("Install aborted")
			return nil, err
		}
		result.Installed++
		result.ByKind[entry.Kind]++
	}

	i.logger.Info().Int("installed", result.Installed).Msg("Install completed")
	return result, nil
}

// installEntry dispatches one resolved entry to its handler
func (i *Installer) installEntry(idx int, entry types.Entry) error {
	var handler func(types.Entry) error

	switch entry.Kind {
	case types.KindFile:
		handler = i.installFile
	case types.KindSymlink:
		handler = i.installSymlink
	case types.KindDirectory:
		handler = i.installDirectory
	case types.KindTreeArtifact:
		handler = i.installTree
	default:
		return errors.Newf(errors.ErrUnknownKind, "unrecognized entry type %q", entry.TypeName()).
			WithDetail("dest", entry.Dest)
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	if i.ctx.DryRun {
		i.logger.Info().
			Str("type", entry.TypeName()).
			Str("src", entry.Src).
			Str("dest", entry.Dest).
			Str("mode", entry.Mode).
			Msg("Dry run - would install")
		return nil
	}

	return i.run(operationID(entry.TypeName(), idx, entry.Dest), func() error {
		return handler(entry)
	})
}

func (i *Installer) wipeDestdir() error {
	if !i.ctx.WipeDestdir || i.ctx.Destdir == "" {
		return nil
	}
	if i.ctx.DryRun {
		i.logger.Info().Str("destdir", i.ctx.Destdir).Msg("Dry run - would wipe destdir")
		return nil
	}

	i.logger.Info().Str("destdir", i.ctx.Destdir).Msg("Wiping destdir")
	return i.run("wipe_destdir", func() error {
		if err := i.fs.RemoveAll(i.ctx.Destdir); err != nil {
			return errors.Wrapf(err, errors.ErrWipe, "failed to wipe destdir %s", i.ctx.Destdir)
		}
		return nil
	})
}
