// Package config loads the bot configuration from the environment and from
// dotenv files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/keshon/support-bot/internal/parser"
)

type Config struct {
	DiscordToken string   `env:"DISCORD_TOKEN,required,notEmpty"`
	Prefix       string   `env:"BOT_PREFIX" envDefault:"?"`
	Admins       []string `env:"BOT_ADMINS" envSeparator:","`

	AllowBots               bool    `env:"ALLOW_BOTS" envDefault:"false"`
	AllowSpaceBeforeCommand bool    `env:"ALLOW_SPACE_BEFORE_COMMAND" envDefault:"false"`
	IgnorePrefixCase        bool    `env:"IGNORE_PREFIX_CASE" envDefault:"false"`
	FloatBound              float64 `env:"FLOAT_BOUND" envDefault:"703687441776.64"`

	WordBlockEnabled bool   `env:"WORD_BLOCK" envDefault:"false"`
	BlocklistPath    string `env:"BLOCKLIST_PATH"`
	HomoglyphsPath   string `env:"HOMOGLYPHS_PATH"`
	RepliesPath      string `env:"REPLIES_PATH"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`
	LogFile  string `env:"LOG_FILE"`

	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"DB_DSN" envDefault:"data/support-bot.db"`

	WebPort int `env:"WEBSERVER_PORT" envDefault:"8080"`

	FAQURL      string        `env:"FAQ_URL" envDefault:"https://help.yessness.com/assets/json/faq.json"`
	FAQCacheTTL time.Duration `env:"FAQ_CACHE_TTL" envDefault:"10m"`

	AoCLeaderboardID string `env:"AOC_LEADERBOARD_ID"`
	AoCSession       string `env:"AOC_SESSION"`
	AoCYear          int    `env:"AOC_YEAR"`

	CommandCooldown time.Duration `env:"COMMAND_COOLDOWN" envDefault:"2s"`
	StatusInterval  time.Duration `env:"STATUS_INTERVAL" envDefault:"5m"`
	EvalTimeout     time.Duration `env:"EVAL_TIMEOUT" envDefault:"60s"`
}

// Load reads dotenv files from the working directory and then parses the
// process environment.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with dotenv files looked up in dir.
//
// Files are chosen by APP_ENV and loaded most specific first. Variables that
// are already set are never overwritten, so the real environment beats
// .env.<env>.local, which beats .env.<env>, which beats .env.
func LoadFrom(dir string) (*Config, error) {
	for _, name := range DotenvFiles(os.Getenv("APP_ENV")) {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromMap parses a Config from environ instead of the process environment.
func FromMap(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// DotenvFiles returns the dotenv file names for appEnv, most specific first.
func DotenvFiles(appEnv string) []string {
	var name string
	switch strings.ToLower(appEnv) {
	case "production", "prod":
		name = "production"
	case "test", "testing":
		name = "test"
	default:
		name = "development"
	}
	return []string{".env." + name + ".local", ".env." + name, ".env"}
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Prefix) == "" {
		errs = append(errs, errors.New("BOT_PREFIX must not be blank"))
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q (must be sqlite or postgres)", c.DBDriver))
	}
	if c.WebPort < 0 || c.WebPort > 65535 {
		errs = append(errs, fmt.Errorf("WEBSERVER_PORT %d out of range", c.WebPort))
	}
	if c.FloatBound <= 0 {
		errs = append(errs, errors.New("FLOAT_BOUND must be positive"))
	}
	return errors.Join(errs...)
}

// ParserOptions returns the parser options described by c.
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		AllowBots:               c.AllowBots,
		AllowSpaceBeforeCommand: c.AllowSpaceBeforeCommand,
		IgnorePrefixCase:        c.IgnorePrefixCase,
		FloatBound:              c.FloatBound,
	}
}

// IsAdmin reports whether userID is listed in BOT_ADMINS.
func (c *Config) IsAdmin(userID string) bool {
	for _, id := range c.Admins {
		if strings.TrimSpace(id) == userID {
			return true
		}
	}
	return false
}

// WebAddr is the listen address of the stats server.
func (c *Config) WebAddr() string {
	return fmt.Sprintf(":%d", c.WebPort)
}
