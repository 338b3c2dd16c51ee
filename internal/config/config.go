// Package config reads the server settings from OMNIA_* environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/omnia-aid/omnia/internal/source"
)

// DevJWTSecret signs tokens when OMNIA_JWT_SECRET is unset. It is only fit
// for local use.
const DevJWTSecret = "omnia-dev-secret-change-me"

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	// APIURL is where the remote data source sends its requests.
	APIURL          string
	DataSource      string
	FixtureFallback bool
	FixtureLatency  time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	RedirectDelay time.Duration
	CORSOrigins   string
	RequireLogin  bool
	SeedAidTypes  bool
}

// UsesDevSecret reports whether tokens are signed with DevJWTSecret.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == DevJWTSecret
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "omnia.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("api_url", "")
	v.SetDefault("data_source", source.NameRemote)
	v.SetDefault("fixture_fallback", false)
	v.SetDefault("fixture_latency", "0s")
	v.SetDefault("jwt_secret", DevJWTSecret)
	v.SetDefault("jwt_ttl", "24h")
	v.SetDefault("redirect_delay", "2s")
	v.SetDefault("cors_origins", "http://localhost:4200,http://localhost:4300")
	v.SetDefault("require_login", true)
	v.SetDefault("seed_aid_types", true)
}

// Load reads the environment. An unknown data source or a malformed
// duration is an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OMNIA")
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:            strings.TrimSpace(v.GetString("port")),
		DBPath:          v.GetString("db_path"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		APIURL:          strings.TrimRight(strings.TrimSpace(v.GetString("api_url")), "/"),
		DataSource:      strings.ToLower(strings.TrimSpace(v.GetString("data_source"))),
		FixtureFallback: v.GetBool("fixture_fallback"),
		JWTSecret:       v.GetString("jwt_secret"),
		CORSOrigins:     v.GetString("cors_origins"),
		RequireLogin:    v.GetBool("require_login"),
		SeedAidTypes:    v.GetBool("seed_aid_types"),
	}

	switch cfg.DataSource {
	case source.NameRemote, source.NameFixture:
	default:
		return nil, fmt.Errorf("OMNIA_DATA_SOURCE: unknown source %q (want %s or %s)", cfg.DataSource, source.NameRemote, source.NameFixture)
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("OMNIA_PORT: must not be empty")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "http://localhost:" + cfg.Port
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("OMNIA_JWT_SECRET: must not be empty")
	}

	var err error
	if cfg.FixtureLatency, err = duration(v, "fixture_latency"); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = duration(v, "jwt_ttl"); err != nil {
		return nil, err
	}
	if cfg.RedirectDelay, err = duration(v, "redirect_delay"); err != nil {
		return nil, err
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("OMNIA_JWT_TTL: must be positive")
	}
	return cfg, nil
}

// duration parses key strictly; viper's own conversion turns garbage into 0.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("OMNIA_%s: %w", strings.ToUpper(key), err)
	}
	if d < 0 {
		return 0, fmt.Errorf("OMNIA_%s: must not be negative", strings.ToUpper(key))
	}
	return d, nil
}
