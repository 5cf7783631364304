package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/gangsheet/pkg/layout"
	"github.com/matzehuels/gangsheet/pkg/server"
)

// envPrefix is the prefix of environment overrides, e.g. GANGSHEET_SHEET_WIDTH.
const envPrefix = "GANGSHEET"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the process configuration shared by all commands.
type Config struct {
	// Layout holds the planning defaults jobs are resolved against.
	Layout layout.Config

	// PresetsFile is an optional TOML file of extra sheet presets.
	PresetsFile string

	// LogFormat is text, json or logfmt.
	LogFormat string

	Server ServerConfig
	Cache  CacheConfig
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr           string
	MaxUploadMB    int
	Metrics        bool
	AllowedOrigins []string
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string
	RedisURL string
	Dir      string
	Prefix   string
}

// flagKeys maps command flags onto config keys. Flags only override the
// config when set on the command line.
var flagKeys = map[string]string{
	"addr":          "server.addr",
	"max-upload-mb": "server.max_upload_mb",
	"metrics":       "server.metrics",
	"presets-file":  "presets_file",
	"cache-backend": "cache.backend",
	"redis-url":     "cache.redis_url",
	"log-format":    "log_format",
}

// DefaultConfig returns the configuration used when no file, environment or
// flag overrides anything.
func DefaultConfig() *Config {
	return &Config{
		Layout:    layout.DefaultConfig(),
		LogFormat: LogText,
		Server: ServerConfig{
			Addr:        server.DefaultAddr,
			MaxUploadMB: server.DefaultMaxUploadBytes >> 20,
		},
		Cache: CacheConfig{Backend: CacheFile},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("sheet.width", d.Layout.SheetWidth)
	v.SetDefault("sheet.height", d.Layout.SheetHeight)
	v.SetDefault("sheet.margin", d.Layout.Margin)
	v.SetDefault("sheet.gap", d.Layout.Gap)
	v.SetDefault("density", d.Layout.DefaultDensity)
	v.SetDefault("max_sheets", d.Layout.MaxSheets)
	v.SetDefault("presets_file", "")
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
	v.SetDefault("server.metrics", false)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.prefix", "")
}

// LoadConfig loads configuration with the following priority, highest first:
//  1. Command flags that were set explicitly
//  2. Environment variables with the GANGSHEET_ prefix (GANGSHEET_SHEET_WIDTH)
//  3. The config file: path, or config.toml in ConfigDir when path is empty
//  4. Built-in defaults
//
// A missing default config file is not an error; a missing explicit one is.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		Layout: layout.Config{
			SheetWidth:     v.GetFloat64("sheet.width"),
			SheetHeight:    v.GetFloat64("sheet.height"),
			Margin:         v.GetFloat64("sheet.margin"),
			Gap:            v.GetFloat64("sheet.gap"),
			DefaultDensity: v.GetFloat64("density"),
			MaxSheets:      v.GetInt("max_sheets"),
		},
		PresetsFile: v.GetString("presets_file"),
		LogFormat:   strings.ToLower(v.GetString("log_format")),
		Server: ServerConfig{
			Addr:           v.GetString("server.addr"),
			MaxUploadMB:    v.GetInt("server.max_upload_mb"),
			Metrics:        v.GetBool("server.metrics"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		},
		Cache: CacheConfig{
			Backend:  strings.ToLower(v.GetString("cache.backend")),
			RedisURL: v.GetString("cache.redis_url"),
			Dir:      v.GetString("cache.dir"),
			Prefix:   v.GetString("cache.prefix"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values no command could run with.
func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if _, ok := logFormatters[c.LogFormat]; !ok {
		return fmt.Errorf("unknown log format %q (must be text, json or logfmt)", c.LogFormat)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	return nil
}

// Presets returns the built-in presets merged with PresetsFile, if set.
func (c *Config) Presets() (layout.Presets, error) {
	builtin := layout.BuiltinPresets()
	if c.PresetsFile == "" {
		return builtin, nil
	}
	f, err := os.Open(c.PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("open presets: %w", err)
	}
	defer f.Close()
	presets, err := layout.LoadPresets(f, builtin)
	if err != nil {
		return nil, fmt.Errorf("load presets %s: %w", c.PresetsFile, err)
	}
	return presets, nil
}

// ConfigDir returns the per-user config directory (~/.config/gangsheet on
// Linux, honoring XDG_CONFIG_HOME).
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}
