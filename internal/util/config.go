package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const DefaultConfigFile = "darix.toml"

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
	// DebugAST selects an AST dump format: text, json or yaml. Empty disables it.
	DebugAST     string         `toml:"debug_ast"`
	MaxCallDepth int            `toml:"max_call_depth"`
	Database     DatabaseConfig `toml:"database"`
}

type DatabaseConfig struct {
	Enabled bool     `toml:"enabled"`
	Drivers []string `toml:"drivers"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel:     "none",
		MaxCallDepth: 5000,
		Database: DatabaseConfig{
			Enabled: true,
		},
	}
}

// LoadConfig reads a TOML file over the defaults. With an empty path the
// default file is used when present. Unknown keys are reported as an error so
// typos do not silently fall back to defaults.
func LoadConfig(path string) (Configuration, error) {
	config := DefaultConfiguration()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfiguration(), nil
		}
		return config, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return config, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	return config, nil
}

// ReadSource loads a program file.
func ReadSource(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(src), nil
}
