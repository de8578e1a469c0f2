package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// MinRecommendedInterval is the poll interval floor below which the caller
// logs a warning about API load. Polling faster is allowed.
const MinRecommendedInterval = 10

const defaultInterval = 30

// Config is the operational surface: command-line flags with environment
// variable fallbacks, plus an optional TOML file for the archive and
// forwarding backends.
type Config struct {
	Cloud    string
	Instance string
	Interval int
	Prefix   bool
	Verbose  bool

	Backends Backends
}

// Backends configures where captured output is additionally sent. All
// backends are off by default; the stdout sink is always on.
type Backends struct {
	Archive struct {
		SQLite struct {
			Enabled bool   `toml:"enabled"`
			Path    string `toml:"path"`
		} `toml:"sqlite"`

		Postgres struct {
			Enabled bool   `toml:"enabled"`
			DSN     string `toml:"dsn"`
		} `toml:"postgres"`

		Redis struct {
			Enabled bool   `toml:"enabled"`
			Addr    string `toml:"addr"`
			Stream  string `toml:"stream"`
			Channel string `toml:"channel"`
		} `toml:"redis"`
	} `toml:"archive"`

	Forward struct {
		Enabled bool   `toml:"enabled"`
		URL     string `toml:"url"`
	} `toml:"forward"`
}

// Parse builds the configuration from command-line arguments, consulting
// getenv for fallbacks the way the flags document.
func Parse(args []string, getenv func(string) string) (*Config, error) {
	fs := flag.NewFlagSet("novatail", flag.ContinueOnError)

	cloud := fs.String("os-cloud", envOr(getenv, "OS_CLOUD", "default"),
		"OpenStack cloud name from clouds.yaml (env: OS_CLOUD)")
	instance := fs.String("instance", getenv("INSTANCE_UUID"),
		"Nova instance UUID to poll (env: INSTANCE_UUID)")
	interval := fs.Int("interval", envInt(getenv, "POLL_INTERVAL", defaultInterval),
		"poll interval in seconds (env: POLL_INTERVAL)")
	noPrefix := fs.Bool("no-prefix", envBool(getenv, "NO_PREFIX"),
		"do not prefix output lines with the instance name (env: NO_PREFIX)")
	verbose := fs.Bool("verbose", envBool(getenv, "VERBOSE"),
		"enable debug logging (env: VERBOSE)")
	backendsPath := fs.String("config", "",
		"optional TOML file configuring archive and forwarding backends")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Cloud:    *cloud,
		Instance: strings.TrimSpace(*instance),
		Interval: *interval,
		Prefix:   !*noPrefix,
		Verbose:  *verbose,
	}

	if *backendsPath != "" {
		if _, err := toml.DecodeFile(*backendsPath, &cfg.Backends); err != nil {
			return nil, fmt.Errorf("load backends config %s: %w", *backendsPath, err)
		}
	}

	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	redis := &cfg.Backends.Archive.Redis
	if redis.Stream == "" {
		redis.Stream = "novatail:console"
	}
	if redis.Channel == "" {
		redis.Channel = "novatail:gaps"
	}
}

func validate(cfg *Config) error {
	if cfg.Instance == "" {
		return errors.New("instance UUID is required (-instance flag or INSTANCE_UUID)")
	}
	if cfg.Backends.Archive.SQLite.Enabled && strings.TrimSpace(cfg.Backends.Archive.SQLite.Path) == "" {
		return errors.New("archive.sqlite.path empty but enabled")
	}
	if cfg.Backends.Archive.Postgres.Enabled && strings.TrimSpace(cfg.Backends.Archive.Postgres.DSN) == "" {
		return errors.New("archive.postgres.dsn empty but enabled")
	}
	if cfg.Backends.Archive.Redis.Enabled && strings.TrimSpace(cfg.Backends.Archive.Redis.Addr) == "" {
		return errors.New("archive.redis.addr empty but enabled")
	}
	if cfg.Backends.Forward.Enabled && strings.TrimSpace(cfg.Backends.Forward.URL) == "" {
		return errors.New("forward.url empty but enabled")
	}
	return nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(getenv func(string) string, key string, fallback int) int {
	v := getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(getenv func(string) string, key string) bool {
	switch strings.ToLower(getenv(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
