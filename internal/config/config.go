package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	ScoreBackend ScoreBackendConfig `yaml:"score_backend"`
	Events       EventsConfig       `yaml:"events"`
	Index        IndexConfig        `yaml:"index"`
	Logging      LoggingConfig      `yaml:"logging"`
}

type ServerConfig struct {
	Port               int    `yaml:"port"`
	MetricsPort        int    `yaml:"metrics_port"`
	AdminToken         string `yaml:"admin_token"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type ScoreBackendConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type IndexConfig struct {
	// DefaultPeriod of 0 means "latest available period".
	DefaultPeriod     int               `yaml:"default_period"`
	ImportanceWeights ImportanceWeights `yaml:"importance_weights"`
}

type ImportanceWeights struct {
	Alta  float64 `yaml:"alta"`
	Media float64 `yaml:"media"`
	Baja  float64 `yaml:"baja"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			RateLimitPerMinute: 120,
		},
		ScoreBackend: ScoreBackendConfig{
			URL: "http://localhost:8090",
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Index: IndexConfig{
			ImportanceWeights: ImportanceWeights{Alta: 3, Media: 2, Baja: 1},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BRAINNOVA_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("BRAINNOVA_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("BRAINNOVA_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("BRAINNOVA_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("BRAINNOVA_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("BRAINNOVA_SCORE_BACKEND_URL"); v != "" {
		cfg.ScoreBackend.URL = v
	}
	if v := os.Getenv("BRAINNOVA_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("BRAINNOVA_DEFAULT_PERIOD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.DefaultPeriod = n
		}
	}
	if v := os.Getenv("BRAINNOVA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
