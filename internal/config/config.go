// Package config loads the runtime configuration: compiled defaults, then an
// optional YAML file, then environment variables, each layer overriding the
// previous one.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Session struct {
		Backend      string        `yaml:"backend"` // memory | redis
		TTL          time.Duration `yaml:"ttl"`
		HistoryLimit int           `yaml:"history_limit"`
		DefaultID    string        `yaml:"default_id"`
	} `yaml:"session"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	LLM struct {
		Model   string        `yaml:"model"`
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"llm"`
	Files struct {
		Root string `yaml:"root"`
	} `yaml:"files"`
	Packs struct {
		Dir string `yaml:"dir"`
	} `yaml:"packs"`
	Security struct {
		// EncryptionKey is a base64 encoded 32 byte key. When set, persisted
		// state is sealed with AES-256-GCM.
		EncryptionKey string   `yaml:"encryption_key"`
		FallbackKeys  []string `yaml:"fallback_keys"`
		RedactKeys    []string `yaml:"redact_keys"`
		RedactValues  []string `yaml:"redact_values"`
	} `yaml:"security"`
	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text | json | pretty
	} `yaml:"log"`
}

func Default() Config {
	var cfg Config
	cfg.HTTP.Addr = ":8080"
	cfg.Session.Backend = "memory"
	cfg.Session.HistoryLimit = 20
	cfg.Session.DefaultID = "local"
	cfg.LLM.Timeout = 30 * time.Second
	cfg.Metrics.Enabled = true
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// Load builds the configuration from defaults, the YAML file at path (missing
// files are fine), and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, err
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	applyEnv(&cfg)

	switch cfg.Session.Backend {
	case "memory", "redis":
	default:
		return cfg, fmt.Errorf("unknown session backend %q (want memory or redis)", cfg.Session.Backend)
	}
	if cfg.Session.Backend == "redis" && cfg.Redis.Addr == "" {
		return cfg, errors.New("missing redis.addr (or VALET_REDIS_ADDR)")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("VALET_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("VALET_SESSION_BACKEND"); v != "" {
		cfg.Session.Backend = v
	}
	if v := os.Getenv("VALET_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = d
		}
	}
	if v := os.Getenv("VALET_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Session.HistoryLimit = n
		}
	}
	if v := os.Getenv("VALET_SESSION_ID"); v != "" {
		cfg.Session.DefaultID = v
	}
	if v := os.Getenv("VALET_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("VALET_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("VALET_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("VALET_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("VALET_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = d
		}
	}
	if v := os.Getenv("VALET_ROOT"); v != "" {
		cfg.Files.Root = v
	}
	if v := os.Getenv("VALET_PACKS_DIR"); v != "" {
		cfg.Packs.Dir = v
	}
	if v := os.Getenv("VALET_ENCRYPTION_KEY"); v != "" {
		cfg.Security.EncryptionKey = v
	}
	if v := os.Getenv("VALET_ENCRYPTION_FALLBACKS"); v != "" {
		cfg.Security.FallbackKeys = splitCSV(v)
	}
	if v := os.Getenv("VALET_REDACT_KEYS"); v != "" {
		cfg.Security.RedactKeys = splitCSV(v)
	}
	if v := os.Getenv("VALET_REDACT_VALUES"); v != "" {
		cfg.Security.RedactValues = splitCSV(v)
	}
	if v := os.Getenv("VALET_METRICS"); v != "" {
		cfg.Metrics.Enabled = parseBool(v, cfg.Metrics.Enabled)
	}
	if v := os.Getenv("VALET_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("VALET_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func parseBool(input string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func splitCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		val := strings.TrimSpace(part)
		if val == "" {
			continue
		}
		out = append(out, val)
	}
	return out
}
