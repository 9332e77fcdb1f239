// Package config loads go-album settings from an optional TOML file.
// Command-line flags are applied on top by the caller before Validate.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

const DefaultPath = "~/.config/go-album/config.toml"

const (
	BackendExiftool = "exiftool"
	BackendNative   = "native"
	BackendAuto     = "auto"
)

type Config struct {
	Source          string `toml:"source"`
	Dest            string `toml:"dest"`
	Move            bool   `toml:"move"`
	Overwrite       bool   `toml:"overwrite"`
	Verify          bool   `toml:"verify"`
	MetadataBackend string `toml:"metadata_backend"`
	ExiftoolPath    string `toml:"exiftool_path"`
	MaxSuffix       int    `toml:"max_suffix"`
	DirMode         string `toml:"dir_mode"`
	StatsdAddr      string `toml:"statsd_addr"`
}

func Default() Config {
	return Config{
		MetadataBackend: BackendExiftool,
		DirMode:         "0770",
	}
}

// Load reads path, or DefaultPath when path is empty. A missing file is not
// an error: defaults are returned and the bool result is false.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	resolved, err := homedir.Expand(path)
	if err != nil {
		return nil, false, fmt.Errorf("expand config path: %w", err)
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return &cfg, false, nil
		}
		return nil, false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, false, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, true, nil
}

// Normalize expands ~ and makes paths absolute.
func (c *Config) Normalize() error {
	var err error
	if c.Source, err = expandPath(c.Source); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if c.Dest, err = expandPath(c.Dest); err != nil {
		return fmt.Errorf("dest: %w", err)
	}
	if c.ExiftoolPath != "" {
		if c.ExiftoolPath, err = homedir.Expand(c.ExiftoolPath); err != nil {
			return fmt.Errorf("exiftool_path: %w", err)
		}
	}
	if c.MetadataBackend == "" {
		c.MetadataBackend = BackendExiftool
	}
	if c.DirMode == "" {
		c.DirMode = Default().DirMode
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("source directory is required")
	}
	if c.Dest == "" {
		return errors.New("destination directory is required")
	}
	switch c.MetadataBackend {
	case BackendExiftool, BackendNative, BackendAuto:
	default:
		return fmt.Errorf("unknown metadata backend %q", c.MetadataBackend)
	}
	if c.MaxSuffix < 0 {
		return fmt.Errorf("max_suffix must not be negative, got %d", c.MaxSuffix)
	}
	if _, err := c.Mode(); err != nil {
		return err
	}
	return nil
}

// Mode parses DirMode as an octal permission string.
func (c *Config) Mode() (os.FileMode, error) {
	v, err := strconv.ParseUint(c.DirMode, 8, 32)
	if err != nil || v == 0 || v > 0o777 {
		return 0, fmt.Errorf("invalid dir_mode %q", c.DirMode)
	}
	return os.FileMode(v), nil
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
