package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Environment variable names
const (
	// EnvWorkspaceDirectory and EnvWorkingDirectory are both set by a standalone run
	EnvWorkspaceDirectory = "BUILD_WORKSPACE_DIRECTORY"
	EnvWorkingDirectory   = "BUILD_WORKING_DIRECTORY"

	// EnvRunfilesDir is the runfiles root, required in build-invocation mode
	EnvRunfilesDir = "RUNFILES_DIR"

	// EnvDestdir supplies the default destdir
	EnvDestdir = "DESTDIR"
)

const (
	keyWorkspaceDirectory = "workspace_directory"
	keyWorkingDirectory   = "working_directory"
	keyRunfilesDir        = "runfiles_dir"
	keyDestdir            = "destdir"
)

var envKeys = map[string]string{
	EnvWorkspaceDirectory: keyWorkspaceDirectory,
	EnvWorkingDirectory:   keyWorkingDirectory,
	EnvRunfilesDir:        keyRunfilesDir,
	EnvDestdir:            keyDestdir,
}

// Environment is the snapshot of the environment variables the installer consults
type Environment struct {
	WorkspaceDirectory string `koanf:"workspace_directory"`
	WorkingDirectory   string `koanf:"working_directory"`
	RunfilesDir        string `koanf:"runfiles_dir"`
	Destdir            string `koanf:"destdir"`

	// Presence of the run-mode signals; an empty value still counts as present
	HasWorkspaceDirectory bool `koanf:"-"`
	HasWorkingDirectory   bool `koanf:"-"`
}

// Standalone reports whether both standalone-run signals are present
func (e *Environment) Standalone() bool {
	return e.HasWorkspaceDirectory && e.HasWorkingDirectory
}

// LoadEnvironment reads the installer's environment variables from the process
func LoadEnvironment() (*Environment, error) {
	return loadEnvironment(env.Provider("", ".", func(s string) string {
		// unknown variables map to "" and are dropped by the provider
		return envKeys[s]
	}))
}

func loadEnvironment(p koanf.Provider) (*Environment, error) {
	k := koanf.New(".")
	if err := k.Load(p, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var e Environment
	if err := k.Unmarshal("", &e); err != nil {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	e.HasWorkspaceDirectory = k.Exists(keyWorkspaceDirectory)
	e.HasWorkingDirectory = k.Exists(keyWorkingDirectory)

	return &e, nil
}
