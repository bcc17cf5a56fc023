// Package config resolves settings from .env, the environment and command
// line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"edurate/utils"
)

const DefaultServer = "http://localhost:8080"

type Config struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"oneof=debug release test"`

	DatabaseURL       string
	DBMaxOpenConns    int           `validate:"gte=0"`
	DBMaxIdleConns    int           `validate:"gte=0"`
	DBConnMaxLifetime time.Duration `validate:"gte=0"`

	RedisURL          string
	RedisPassword     string
	RateLimitRequests int           `validate:"gte=0"`
	RateLimitWindow   time.Duration `validate:"gt=0"`

	CORSOrigins []string `validate:"required,min=1"`
	UseHTTPS    bool
	TLSCertFile string `validate:"required_if=UseHTTPS true"`
	TLSKeyFile  string `validate:"required_if=UseHTTPS true"`

	LogLevel    string `validate:"oneof=debug info warn warning error"`
	LogFile     string
	LexiconFile string

	// Server is the API base URL used by the client commands.
	Server string `validate:"required,url"`
}

// FlagKeys maps command line flag names to the settings they override.
var FlagKeys = map[string]string{
	"port":         "PORT",
	"database-url": "DATABASE_URL",
	"redis-url":    "REDIS_URL",
	"log-level":    "LOG_LEVEL",
	"log-file":     "LOG_FILE",
	"lexicon":      "LEXICON_FILE",
	"server":       "EDURATE_SERVER",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("RATE_LIMIT_REQUESTS", 30)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("USE_HTTPS", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("EDURATE_SERVER", DefaultServer)
}

// Load reads .env if present, then the environment, then any flags in flags
// named in FlagKeys that were set explicitly.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		Port:              v.GetString("PORT"),
		GinMode:           v.GetString("GIN_MODE"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		RedisURL:          v.GetString("REDIS_URL"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
		RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		UseHTTPS:          v.GetBool("USE_HTTPS"),
		TLSCertFile:       v.GetString("TLS_CERT_FILE"),
		TLSKeyFile:        v.GetString("TLS_KEY_FILE"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFile:           v.GetString("LOG_FILE"),
		LexiconFile:       v.GetString("LEXICON_FILE"),
		Server:            strings.TrimRight(v.GetString("EDURATE_SERVER"), "/"),
	}

	if err := utils.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// RequireDatabase reports a missing DATABASE_URL for commands that need one.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	return nil
}

func (c *Config) RateLimitEnabled() bool {
	return c.RedisURL != "" && c.RateLimitRequests > 0
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
