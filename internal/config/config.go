// Package config reads server settings from the environment.
//
// A .env file, when present, is loaded by main before Load runs; real
// environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds every tunable of the server.
type Config struct {
	Port      string `env:"PORT"       envDefault:"5175"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	AppEnv    string `env:"APP_ENV"    envDefault:"development"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/app.db"`

	JWTSecret      string `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME"      envDefault:"wordle_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN"    envDefault:"http://localhost:5173"`

	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"6"`
	WordLengths []int         `env:"WORD_LENGTHS" envDefault:"5,6"`
	DailySalt   string        `env:"DAILY_SALT"   envDefault:"local_dev_salt"`
	DailyLength int           `env:"DAILY_LENGTH" envDefault:"5"`
	GameTTL     time.Duration `env:"GAME_TTL"     envDefault:"24h"`

	WordsCacheDir      string        `env:"WORDS_CACHE_DIR"      envDefault:"."`
	WordsSourceURLs    []string      `env:"WORDS_SOURCE_URLS"    envDefault:"https://raw.githubusercontent.com/danakt/russian-words/master/russian.txt,https://raw.githubusercontent.com/Harrix/Russian-Nouns/main/dist/russian_nouns.txt"`
	WordsFetchTimeout  time.Duration `env:"WORDS_FETCH_TIMEOUT"  envDefault:"3s"`
	WordsAllowFallback bool          `env:"WORDS_ALLOW_FALLBACK" envDefault:"true"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("MAX_ATTEMPTS must be positive, got %d", c.MaxAttempts))
	}
	if len(c.WordLengths) == 0 {
		errs = append(errs, errors.New("WORD_LENGTHS must not be empty"))
	}
	for _, n := range c.WordLengths {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("WORD_LENGTHS: invalid length %d", n))
		}
	}
	if !slices.Contains(c.WordLengths, c.DailyLength) {
		errs = append(errs, fmt.Errorf("DAILY_LENGTH %d is not one of WORD_LENGTHS", c.DailyLength))
	}
	if c.GameTTL <= 0 {
		errs = append(errs, fmt.Errorf("GAME_TTL must be positive, got %s", c.GameTTL))
	}
	if c.JWTExpiresDays <= 0 {
		errs = append(errs, fmt.Errorf("JWT_EXPIRES_DAYS must be positive, got %d", c.JWTExpiresDays))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

// Production reports whether cookies must be Secure.
func (c Config) Production() bool { return c.AppEnv == "production" }
