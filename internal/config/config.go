// Package config loads formwalk settings from an optional YAML file and
// FORMWALK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-formwalk/internal/logging"
	"github.com/goliatone/go-formwalk/pkg/store"
	"github.com/goliatone/go-formwalk/pkg/web"
)

// EnvPrefix is prepended to every environment variable, with dots replaced
// by underscores: store.sqlite.path -> FORMWALK_STORE_SQLITE_PATH.
const EnvPrefix = "FORMWALK"

// Config is the full application configuration.
type Config struct {
	Questions string         `mapstructure:"questions"`
	Store     store.Config   `mapstructure:"store"`
	Server    web.Config     `mapstructure:"server"`
	Log       logging.Config `mapstructure:"log"`
	Theme     ThemeConfig    `mapstructure:"theme"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
}

// ThemeConfig points at a go-theme manifest for the HTML renderer.
type ThemeConfig struct {
	Manifest string `mapstructure:"manifest"`
	Variant  string `mapstructure:"variant"`
}

// TelegramConfig holds the bot credentials.
type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

// New returns a viper instance with defaults and environment binding set up.
// Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("questions", "")

	v.SetDefault("store.backend", store.BackendFile)
	v.SetDefault("store.path", "formwalk-data.json")
	v.SetDefault("store.sqlite.path", "formwalk.db")
	v.SetDefault("store.minio.endpoint", "")
	v.SetDefault("store.minio.access_key", "")
	v.SetDefault("store.minio.secret_key", "")
	v.SetDefault("store.minio.bucket", "formwalk")
	v.SetDefault("store.minio.prefix", "")
	v.SetDefault("store.minio.use_ssl", false)
	v.SetDefault("store.firebase.credentials_file", "")
	v.SetDefault("store.firebase.database_url", "")
	v.SetDefault("store.firebase.root", "formwalk")

	server := web.DefaultConfig()
	v.SetDefault("server.addr", server.Addr)
	v.SetDefault("server.rate_limit", server.RateLimit)
	v.SetDefault("server.burst", server.Burst)
	v.SetDefault("server.cookie_secure", server.CookieSecure)
	v.SetDefault("server.shutdown_timeout", server.ShutdownTimeout)
	v.SetDefault("server.max_sessions", server.MaxSessions)
	v.SetDefault("server.session_ttl", server.SessionTTL)

	log := logging.DefaultConfig()
	v.SetDefault("log.level", log.Level)
	v.SetDefault("log.file", log.File)
	v.SetDefault("log.max_size", log.MaxSize)
	v.SetDefault("log.max_backups", log.MaxBackups)
	v.SetDefault("log.max_age", log.MaxAge)
	v.SetDefault("log.compress", log.Compress)

	v.SetDefault("theme.manifest", "")
	v.SetDefault("theme.variant", "")

	v.SetDefault("telegram.token", "")
}

// Load reads file (or ./formwalk.yaml when file is empty and it exists) into
// v and decodes the result.
func Load(v *viper.Viper, file string) (*Config, error) {
	if v == nil {
		v = New()
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	} else {
		v.SetConfigName("formwalk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Store.Backend)) {
	case "", store.BackendMemory, store.BackendFile, store.BackendSQLite, store.BackendMinIO, store.BackendFirebase:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Server.Burst < 0 {
		return fmt.Errorf("config: server.burst must not be negative")
	}
	return nil
}
