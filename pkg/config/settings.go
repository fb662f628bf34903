package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/pkginstall/pkg/errors"
)

// DefaultWorkspaceName is the directory under the runfiles root holding the workspace's sources
const DefaultWorkspaceName = "_main"

// SettingsFileName is the name of the optional settings file
const SettingsFileName = "config.toml"

// Settings are the file-backed defaults for an install run
type Settings struct {
	WorkspaceName string `koanf:"workspace_name"`
	Destdir       string `koanf:"destdir"`
	WipeDestdir   bool   `koanf:"wipe_destdir"`
}

func defaultSettings() map[string]interface{} {
	return map[string]interface{}{
		"workspace_name": DefaultWorkspaceName,
		"destdir":        "",
		"wipe_destdir":   false,
	}
}

// DefaultSettingsPath returns $XDG_CONFIG_HOME/pkginstall/config.toml
func DefaultSettingsPath() string {
	return filepath.Join(xdg.ConfigHome, "pkginstall", SettingsFileName)
}

// LoadSettings loads settings from path on top of the built-in defaults.
// A missing file is only an error when required is set.
func LoadSettings(path string, required bool) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultSettings(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default settings")
	}

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", path)
			}
		case os.IsNotExist(err) && !required:
		default:
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read settings file %s", path)
		}
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid settings in %s", path)
	}
	if s.WorkspaceName == "" {
		s.WorkspaceName = DefaultWorkspaceName
	}

	return &s, nil
}
