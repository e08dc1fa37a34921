// Package config loads the qrshare settings from an optional YAML file and QRSHARE_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/darlingshare/go-qrshare/upload"
)

// EnvPrefix ...
const EnvPrefix = "QRSHARE_"

// listKeys are split on whitespace when set from the environment.
var listKeys = map[string]struct{}{
	"upload.excludes": {},
}

// Config is the complete qrshare configuration.
type Config struct {
	Backend   BackendConfig   `koanf:"backend"`
	Upload    UploadConfig    `koanf:"upload"`
	Prefs     PrefsConfig     `koanf:"prefs"`
	Analytics AnalyticsConfig `koanf:"analytics"`
}

// BackendConfig points at the share backend.
type BackendConfig struct {
	URL string `koanf:"url" validate:"required,url"`
}

// UploadConfig tunes the chunked upload and the path collection.
type UploadConfig struct {
	ChunkSize int64    `koanf:"chunksize" validate:"gt=0"`
	Retries   int      `koanf:"retries" validate:"gte=0,lte=10"`
	Excludes  []string `koanf:"excludes"`
}

// PrefsMode selects the preference store backend.
type PrefsMode string

const (
	PrefsModeMemory PrefsMode = "memory"
	PrefsModeFile   PrefsMode = "file"
	PrefsModeRedis  PrefsMode = "redis"
)

// PrefsConfig configures where the welcome flag is persisted.
type PrefsConfig struct {
	Mode  PrefsMode `koanf:"mode" validate:"oneof=memory file redis"`
	Path  string    `koanf:"path" validate:"required_if=Mode file"`
	Redis struct {
		Host      string `koanf:"host"`
		Port      int    `koanf:"port" validate:"gte=0,lte=65535"`
		Username  string `koanf:"username"`
		Password  string `koanf:"password"`
		Database  int    `koanf:"database" validate:"gte=0"`
		KeyPrefix string `koanf:"keyprefix"`
	} `koanf:"redis"`
}

// AnalyticsConfig controls usage events.
// When Enabled, archive and upload events are posted to the Bitrise step analytics
// service through go-utils/v2/analytics. Disabled by default.
type AnalyticsConfig struct {
	Enabled bool `koanf:"enabled"`
}

var validate = validator.New()

// Load reads path (if not empty), then the environment of envRepo, applies defaults and validates the result.
// Environment keys map to config keys by dropping the prefix and replacing _ with a dot:
// QRSHARE_BACKEND_URL sets backend.url.
func Load(path string, envRepo env.Repository) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("failed to stat config file: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	err := k.Load(envprovider.Provider(".", envprovider.Opt{
		Prefix:      EnvPrefix,
		EnvironFunc: envRepo.List,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, EnvPrefix)), "_", ".")

			if _, ok := listKeys[k]; ok {
				return k, strings.Fields(v)
			}

			return k, v
		},
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load env provider: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := setDefaults(&c, envRepo); err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate ...
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// UploadConfig converts the loaded settings into the upload orchestrator's configuration.
func (c Config) UploadConfig() upload.Config {
	return upload.Config{
		BackendURL: c.Backend.URL,
		ChunkSize:  c.Upload.ChunkSize,
		Retries:    c.Upload.Retries,
	}
}

func setDefaults(c *Config, envRepo env.Repository) error {
	defaults := upload.DefaultConfig()
	if c.Backend.URL == "" {
		c.Backend.URL = defaults.BackendURL
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.Upload.ChunkSize == 0 {
		c.Upload.ChunkSize = defaults.ChunkSize
	}

	return setPrefsDefaults(c, envRepo)
}

func setPrefsDefaults(c *Config, envRepo env.Repository) error {
	if c.Prefs.Mode == "" {
		c.Prefs.Mode = PrefsModeFile
	}

	switch c.Prefs.Mode {
	case PrefsModeFile:
		if c.Prefs.Path == "" {
			dir, err := configDir(envRepo)
			if err != nil {
				return err
			}
			c.Prefs.Path = filepath.Join(dir, "qrshare", "prefs.yaml")
		}
	case PrefsModeRedis:
		if c.Prefs.Redis.Host == "" {
			c.Prefs.Redis.Host = "localhost"
		}
		if c.Prefs.Redis.Port == 0 {
			c.Prefs.Redis.Port = 6379
		}
		if c.Prefs.Redis.KeyPrefix == "" {
			c.Prefs.Redis.KeyPrefix = "qrshare:"
		}
	}

	return nil
}

func configDir(envRepo env.Repository) (string, error) {
	if dir := envRepo.Get("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	if home := envRepo.Get("HOME"); home != "" {
		return filepath.Join(home, ".config"), nil
	}
	return "", fmt.Errorf("neither XDG_CONFIG_HOME nor HOME is set, configure prefs.path")
}
