package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks the environment variables read as overrides.
	EnvPrefix = "WBS_"
	// EnvConfigFile names the YAML file to load.
	EnvConfigFile = EnvPrefix + "CONFIG"

	maxConfigFileSize = 1024 * 1024
)

// Load reads configuration with this precedence, highest first:
//  1. WBS_ environment variables (WBS_DB_PATH -> db.path)
//  2. the YAML file at path, or at $WBS_CONFIG, or ~/.wbs/config.yaml
//  3. defaults
//
// An explicitly named file must exist; the default file is optional.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("finding home directory: %w", err)
	}

	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		explicit = false
		path = filepath.Join(home, ".wbs", "config.yaml")
	}

	content, err := readConfigFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return nil, err
	default:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	applyDefaults(&cfg, home)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// envKey maps WBS_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading config file info: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config, home string) {
	if cfg.DB.Path == "" {
		cfg.DB.Path = filepath.Join(home, ".wbs", "wbs.db")
	}
	cfg.DB.Path = expandHome(cfg.DB.Path, home)
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = FormatAuto
	}
	if cfg.Metrics.Textfile != "" {
		cfg.Metrics.Textfile = expandHome(cfg.Metrics.Textfile, home)
	}
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
