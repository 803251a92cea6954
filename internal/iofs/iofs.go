// Package iofs prepares directories and files used by mddb.
package iofs

import (
	_ "embed"
	"os"

	"github.com/mdverse/mddb/pkg/config"
	"gopkg.in/yaml.v3"
)

// ConfigYAML is the template of config.yaml written on the first run.
//
//go:embed config.yaml
var ConfigYAML string

// EnsureDirs creates configuration, cache, data and log directories.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.RawDir(homeDir),
		config.CleanedDir(homeDir),
		config.DataDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the config.yaml template unless the file
// already exists.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if _, err := ParseConfig([]byte(ConfigYAML)); err != nil {
		return err
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// ParseConfig reads configuration YAML on top of the defaults.
func ParseConfig(data []byte) (*config.Config, error) {
	res := config.New()
	if err := yaml.Unmarshal(data, res); err != nil {
		return nil, ParseConfigError(err)
	}
	return res, nil
}
