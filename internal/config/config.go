package config

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

//go:embed defaults.yaml
var defaults []byte

type Config struct {
	DBDriver             string `koanf:"db_driver"`
	DBHost               string `koanf:"db_host"`
	DBPort               string `koanf:"db_port"`
	DBUser               string `koanf:"db_user"`
	DBPassword           string `koanf:"db_password"`
	DBName               string `koanf:"db_name"`
	RedisHost            string `koanf:"redis_host"`
	RedisPort            string `koanf:"redis_port"`
	SessionSecret        string `koanf:"session_secret"`
	GinMode              string `koanf:"gin_mode"`
	HTTPAddr             string `koanf:"http_addr"`
	OpenAIAPIKey         string `koanf:"openai_api_key"`
	DeadlineScanSchedule string `koanf:"deadline_scan_schedule"`
	Timezone             string `koanf:"timezone"`
}

// Load reads the embedded defaults and overrides them with environment
// variables (DB_HOST -> db_host).
func Load() (*Config, error) {
	return load(defaults)
}

func load(base []byte) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(base), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	known := make(map[string]struct{})
	for _, key := range k.Keys() {
		known[key] = struct{}{}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := known[key]; !ok {
			return ""
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("db_driver must be mysql or postgres, got %q", c.DBDriver)
	}
	if _, err := cron.ParseStandard(c.DeadlineScanSchedule); err != nil {
		return fmt.Errorf("invalid deadline_scan_schedule %q: %w", c.DeadlineScanSchedule, err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone. "Local" is the host zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
