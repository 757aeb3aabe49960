package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "AST3D_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "ast3d.yaml"
	// ConfigDirName is the directory under XDG and /etc
	ConfigDirName = "ast3d"
)

// searchPaths lists config candidates in priority order. Entries whose
// variable is unset are omitted.
func searchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		paths = append(paths, abs)
	} else {
		paths = append(paths, ConfigFileName)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing config file, or "" if none
func FindConfigPath() string {
	for _, p := range searchPaths() {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// DefaultConfigPath returns where a new config file should be written
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, ConfigDirName, "config.yaml")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName, "config.yaml")
	}
	return ConfigFileName
}

// EnsureConfigDir creates the parent directory of configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
