package installer

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/pkginstall/pkg/filesystem"
	"github.com/arthur-debert/pkginstall/pkg/types"
)

func unprivileged() bool { return false }

func newTestInstaller(t *testing.T, ctx *types.ExecutionContext) *Installer {
	t.Helper()
	logger := zerolog.Nop()
	return New(Options{
		Context:    ctx,
		FS:         filesystem.NewOS(),
		Logger:     &logger,
		Privileged: unprivileged,
	})
}
