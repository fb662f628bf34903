package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	opfs "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"

	"github.com/arthur-debert/pkginstall/pkg/errors"
)

// newTarget returns the filesystem synthfs pipelines run against. Install
// steps themselves act on the installer's types.FS, so each step is a custom
// operation and synthfs supplies ids, ordering, timing and results.
func newTarget() opfs.FullFileSystem {
	osfs := opfs.NewOSFileSystem("/")
	return synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths()
}

// operationID names the operation for entry idx, e.g. "file_3_app.conf"
func operationID(kind string, idx int, dest string) string {
	return fmt.Sprintf("%s_%d_%s", kind, idx, filepath.Base(dest))
}

// run executes step as a single-operation pipeline. Partial work is never
// rolled back: what was installed before a failure stays in place.
func (i *Installer) run(id string, step func() error) error {
	var stepErr error
	op := synthfs.New().CustomOperationWithID(id, func(ctx context.Context, _ opfs.FileSystem) error {
		stepErr = step()
		return stepErr
	})

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = false

	result, err := synthfs.RunWithOptions(context.Background(), i.target, options, op)
	i.logOperations(result)

	if stepErr != nil {
		return stepErr
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "operation %s failed", id).
			WithDetail("operation", id)
	}
	return nil
}

func (i *Installer) logOperations(result *synthfs.Result) {
	if result == nil {
		return
	}
	for _, r := range result.GetOperations() {
		opResult, ok := r.(synthfs.OperationResult)
		if !ok {
			continue
		}
		event := i.logger.Debug()
		if opResult.Status != synthfs.StatusSuccess {
			event = i.logger.Warn().Err(opResult.Error)
		}
		event.
			Str("operation", string(opResult.OperationID)).
			Dur("duration", opResult.Duration).
			Msg("Operation finished")
	}
}
