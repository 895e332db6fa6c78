package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir

const (
	userConfigDir  = ".config/kubezen"
	configFileName = "config.yaml"
)

// Load builds the effective configuration: defaults overlaid with the user's
// config file, if one exists. A missing user file is not an error.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := userConfigPath()
	if err != nil {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	return loadInto(cfg, path)
}

// LoadFromPath builds the configuration from defaults plus an explicit file.
// Unlike Load, the file must exist.
func LoadFromPath(path string) (Config, error) {
	return loadInto(DefaultConfig(), path)
}

func loadInto(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := validate(base); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return base, nil
}

func validate(cfg Config) error {
	if cfg.SessionName == "" {
		return fmt.Errorf("sessionName must not be empty")
	}
	if cfg.FzfPath == "" {
		return fmt.Errorf("fzfPath must not be empty")
	}
	seen := make(map[string]bool, len(cfg.Resources))
	for _, r := range cfg.Resources {
		if r.Kind == "" || r.Plural == "" || r.Version == "" {
			return fmt.Errorf("resource definition %q is missing kind, plural or version", r.Kind)
		}
		if seen[r.Kind] {
			return fmt.Errorf("duplicate resource definition for kind %q", r.Kind)
		}
		seen[r.Kind] = true
	}
	return nil
}

func userConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}
