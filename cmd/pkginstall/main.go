// Command pkginstall installs files, symlinks, directories and trees
// described by manifests.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/pkginstall/pkg/ui/styles"
)

func main() {
	os.Exit(run(NewRootCmd().Execute, os.Stderr, styles.ColorEnabled(os.Stderr)))
}

// run executes the command and reports any error on stderr, returning the exit code
func run(execute func() error, stderr io.Writer, color bool) int {
	if err := execute(); err != nil {
		fmt.Fprintln(stderr, styles.Render("Error", fmt.Sprintf(MsgErrorPrefix, err), color))
		return 1
	}
	return 0
}
