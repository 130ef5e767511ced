// Package config loads the frontend's settings from defaults, an optional
// YAML file, TRIVIA_* environment variables and command-line flags, in that
// order of precedence (flags win).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable the frontend reads.
const EnvPrefix = "TRIVIA_"

// Config holds the frontend's settings.
type Config struct {
	Server  Server  `koanf:"server"`
	API     API     `koanf:"api"`
	Session Session `koanf:"session"`
	CORS    CORS    `koanf:"cors"`
	Log     Log     `koanf:"log"`
	Import  Import  `koanf:"import"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr          string `koanf:"addr" validate:"required"`
	SecureCookies bool   `koanf:"secure_cookies"`
}

// API configures the one client that talks to the trivia API.
type API struct {
	BaseURL     string        `koanf:"base_url" validate:"required,url"`
	Credentials string        `koanf:"credentials" validate:"oneof=omit include"`
	ContentType string        `koanf:"content_type" validate:"required"`
	Timeout     time.Duration `koanf:"timeout" validate:"gte=0"`
}

// Session configures where per-browser view state is kept.
type Session struct {
	Store string        `koanf:"store" validate:"oneof=memory sqlite"`
	DSN   string        `koanf:"dsn" validate:"required_if=Store sqlite"`
	TTL   time.Duration `koanf:"ttl" validate:"gt=0"`
}

// CORS lists the origins allowed to call the frontend from another site.
type CORS struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Import names questions to post to the API instead of serving: a single
// file, or a git repository cloned (or pulled) into Dir.
type Import struct {
	File string `koanf:"file" validate:"excluded_with=Repo"`
	Repo string `koanf:"repo"`
	Dir  string `koanf:"dir"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// Flags returns the flag set Load parses, with every default registered.
func Flags() *pflag.FlagSet {
	f := pflag.NewFlagSet("trivia", pflag.ContinueOnError)
	f.String("config", "", "Path to a YAML config file")
	f.String("import.file", "", "Post the questions in this file to the API and exit")
	f.String("import.repo", "", "Clone this git repository and post its question files to the API")
	f.String("import.dir", "", "Checkout directory for import.repo (a temporary one if empty)")
	f.String("server.addr", ":8080", "Address the frontend listens on")
	f.Bool("server.secure_cookies", false, "Mark the session cookie Secure")
	f.String("api.base_url", "http://127.0.0.1:5000", "Base URL of the trivia API")
	f.String("api.credentials", "omit", "Credential mode for API calls: omit or include")
	f.String("api.content_type", "application/json", "Content type of API request bodies")
	f.Duration("api.timeout", 10*time.Second, "Timeout of a single API call (0 disables it)")
	f.String("session.store", "memory", "Where view state is kept: memory or sqlite")
	f.String("session.dsn", ":memory:", "SQLite DSN when session.store is sqlite")
	f.Duration("session.ttl", 12*time.Hour, "Idle time after which a session is dropped")
	f.StringSlice("cors.allowed_origins", nil, "Origins allowed to call the frontend")
	f.String("log.level", "info", "Log level: debug, info, warn or error")
	f.String("log.format", "json", "Log format: json or text")
	return f
}

// Load parses args and merges every configuration source into a Config.
func Load(args []string) (*Config, error) {
	f := Flags()
	if err := f.Parse(args); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path, _ := f.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Unchanged flags only fill keys no other source set.
	if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}
	k.Delete("config")

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// envKey maps TRIVIA_API_BASE_URL to api.base_url.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}
