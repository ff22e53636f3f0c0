package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "orgnet"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yml"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/orgnet/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// Locate finds the configuration to use: an explicit path wins, then an
// orgnet.yml found walking up from start, then the global config file.
func Locate(explicit, start string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	path, err := FindConfig(start)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return "", err
	}

	global := GlobalConfigPath()
	if global != "" {
		if _, statErr := os.Stat(global); statErr == nil {
			return global, nil
		}
	}
	return "", ErrConfigNotFound
}

// HelpfulConfigMessage returns a helpful message when no configuration is found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No %s found.

Run 'orgnet init' in your project directory to write one, or create %s:
  mkdir -p %s
  orgnet init --output %s`,
		ConfigFile,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
