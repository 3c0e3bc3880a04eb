package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// DefaultPath is where the inventory lives unless configured otherwise.
	DefaultPath = "~/.spool/filament_data.json"
	// DefaultExport is the default project usage CSV file.
	DefaultExport = "project_usage.csv"
	// DefaultSnapshots is how many previous versions of the file are kept.
	DefaultSnapshots = 10
)

// Config locates the inventory and its companions.
type Config interface {
	DataPath() string
	SnapshotLimit() int
	ExportPath() string
	LogLevel() string
}

// LoadConfig reads .spool.yaml from $SPOOL_CONFIG_PATH, the working directory
// or the home directory, with SPOOL_* environment overrides.
func LoadConfig() (*FileConfig, error) {
	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("snapshots", DefaultSnapshots)
	v.SetDefault("export", DefaultExport)
	v.SetDefault("log_level", "warn")
	v.SetConfigName(".spool") // .yaml is implicit
	v.SetEnvPrefix("SPOOL")
	v.AutomaticEnv()

	if override := os.Getenv("SPOOL_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := ExpandPath(v.GetString("path"))
	if err != nil {
		return nil, err
	}
	return &FileConfig{
		Path:      path,
		Snapshots: v.GetInt("snapshots"),
		Export:    v.GetString("export"),
		Level:     v.GetString("log_level"),
		Source:    v.ConfigFileUsed(),
	}, nil
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("store: expand %q: %w", path, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("store: resolve %q: %w", path, err)
	}
	return abs, nil
}

// FileConfig is the resolved configuration.
type FileConfig struct {
	Path      string `json:"path"`
	Snapshots int    `json:"snapshots"`
	Export    string `json:"export"`
	Level     string `json:"log_level"`
	// Source is the config file that was read, if any.
	Source string `json:"source,omitempty"`
}

func (f *FileConfig) DataPath() string   { return f.Path }
func (f *FileConfig) SnapshotLimit() int { return f.Snapshots }
func (f *FileConfig) ExportPath() string { return f.Export }
func (f *FileConfig) LogLevel() string   { return f.Level }
