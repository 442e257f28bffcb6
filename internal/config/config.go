// Package config loads relctl.toml, the secrets environment, and the
// plugin target list. Configuration is read once at the CLI boundary;
// the release engine never sees raw config shapes.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// MainConfig describes the main repository's release settings.
type MainConfig struct {
	// Repo is the owner/name pair of the upstream repository. When
	// empty it is derived from the origin remote.
	Repo string `toml:"repo"`
	// VersionFile is a file whose embedded version literal is rewritten
	// to the release tag before tagging (e.g. a startup banner).
	VersionFile string `toml:"version_file"`
	// PluginsFile is the plugin list consumed by the plugins command.
	// Default plugins.json next to relctl.toml.
	PluginsFile string `toml:"plugins_file"`
}

// JournalConfig controls the local run history database.
type JournalConfig struct {
	Enabled *bool `toml:"enabled"`
}

// On reports whether the journal is enabled; it defaults to on.
func (j JournalConfig) On() bool { return j.Enabled == nil || *j.Enabled }

type Config struct {
	Main    MainConfig    `toml:"main"`
	Journal JournalConfig `toml:"journal"`

	ConfigFilePath string `toml:"-"`
}

// ConfigDir returns the directory holding relctl.toml, or "" when no
// config file was found.
func (c *Config) ConfigDir() string {
	if c == nil || c.ConfigFilePath == "" {
		return ""
	}
	return filepath.Dir(c.ConfigFilePath)
}

// PluginsPath resolves the plugin list path relative to the config dir.
func (c *Config) PluginsPath() string {
	name := c.Main.PluginsFile
	if name == "" {
		name = "plugins.json"
	}
	if filepath.IsAbs(name) || c.ConfigDir() == "" {
		return name
	}
	return filepath.Join(c.ConfigDir(), name)
}

// LoadConfig walks up from the working directory looking for
// relctl.toml, stopping at a project root marker. A missing file is not
// an error: the zero Config is returned with ConfigFilePath unset.
func LoadConfig() (*Config, error) {
	startDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return loadConfigFrom(startDir)
}

func loadConfigFrom(startDir string) (*Config, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, "relctl.toml")
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, err
			}

			var config Config
			if err := toml.Unmarshal(data, &config); err != nil {
				return nil, err
			}

			config.ConfigFilePath = configPath
			return &config, nil
		}

		if isProjectRoot(dir) {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return &Config{}, nil
}

// isProjectRoot checks for common project root markers so the walk-up
// does not escape the repository.
func isProjectRoot(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
		return true
	}
	return false
}
