package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config is the runtime configuration: an optional JSON file overlaid with
// environment variables. The upstream API key only ever comes from the
// environment.
type Config struct {
	ServerAddress string   `json:"server_address" env:"HEALTHCHAT_ADDR"`
	Models        []string `json:"models" env:"HEALTHCHAT_MODELS" envSeparator:","`

	GeminiAPIKey string        `json:"-" env:"GEMINI_API_KEY"`
	CacheTTL     time.Duration `json:"-" env:"HEALTHCHAT_CACHE_TTL"`

	Redis RedisConfig `json:"redis"`
}

type RedisConfig struct {
	Addr     string `json:"addr" env:"REDIS_ADDR"`
	Username string `json:"username" env:"REDIS_USERNAME"`
	Password string `json:"password" env:"REDIS_PASSWORD"`
	DB       int    `json:"db" env:"REDIS_DB"`
}

// DefaultModels is the fallback priority order used when none is configured.
var DefaultModels = []string{
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
	"gemini-1.5-pro",
}

// Load reads the JSON file at path (or $HEALTHCHAT_CONFIG) when one is
// present, applies environment overrides, and fills defaults. A missing API
// key is not an error here; the chat endpoint reports it as unconfigured.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("HEALTHCHAT_CONFIG")
	}

	cfg := &Config{}
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config %s: %w", path, err)
		}
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if cfg.ServerAddress == "" {
		cfg.ServerAddress = ":8080"
	}
	cfg.Models = compact(cfg.Models)
	if len(cfg.Models) == 0 {
		cfg.Models = append([]string(nil), DefaultModels...)
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	return cfg, nil
}

func compact(models []string) []string {
	out := models[:0]
	for _, m := range models {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
