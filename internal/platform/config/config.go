// Package config loads application configuration from environment variables.
// All variables use the LEARN_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted by LEARN_AI_PROVIDER.
const (
	ProviderOpenAI  = "openai"
	ProviderOllama  = "ollama"
	ProviderOffline = "offline"
)

// Catalog sources accepted by LEARN_CATALOG_SOURCE.
const (
	CatalogBuiltin  = "builtin"
	CatalogYAML     = "yaml"
	CatalogPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	AI       AIConfig
	Catalog  CatalogConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL disables
// the database.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
	Migrate  bool
}

// CacheConfig holds Redis connection settings. An empty URL keeps token
// budgets in process memory.
type CacheConfig struct {
	URL string
}

// AIConfig selects the single generation provider and its limits.
type AIConfig struct {
	Provider         string
	Model            string
	MaxTokens        int
	Timeout          time.Duration
	DailyTokenBudget int64
	OpenAI           OpenAIConfig
	Ollama           OllamaConfig
}

// OpenAIConfig holds OpenAI provider settings.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// OllamaConfig holds self-hosted Ollama settings.
type OllamaConfig struct {
	URL string
}

// CatalogConfig chooses where the syllabus catalog comes from.
type CatalogConfig struct {
	Source string
	Path   string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with LEARN_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("LEARN_SERVER_PORT", 8080),
			Host: envStr("LEARN_SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL:      envStr("LEARN_DATABASE_URL", ""),
			MaxConns: envInt("LEARN_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("LEARN_DATABASE_MIN_CONNS", 2),
			Migrate:  envBool("LEARN_DATABASE_MIGRATE", true),
		},
		Cache: CacheConfig{
			URL: envStr("LEARN_CACHE_URL", ""),
		},
		AI: AIConfig{
			Provider:         strings.ToLower(envStr("LEARN_AI_PROVIDER", ProviderOpenAI)),
			Model:            envStr("LEARN_AI_MODEL", ""),
			MaxTokens:        envInt("LEARN_AI_MAX_TOKENS", 800),
			Timeout:          time.Duration(envInt("LEARN_AI_TIMEOUT_SECONDS", 60)) * time.Second,
			DailyTokenBudget: int64(envInt("LEARN_AI_DAILY_TOKEN_BUDGET", 0)),
			OpenAI: OpenAIConfig{
				APIKey:  envStr("LEARN_AI_OPENAI_API_KEY", ""),
				BaseURL: envStr("LEARN_AI_OPENAI_BASE_URL", ""),
			},
			Ollama: OllamaConfig{
				URL: envStr("LEARN_AI_OLLAMA_URL", "http://localhost:11434"),
			},
		},
		Catalog: CatalogConfig{
			Source: strings.ToLower(envStr("LEARN_CATALOG_SOURCE", CatalogBuiltin)),
			Path:   envStr("LEARN_CATALOG_PATH", ""),
		},
		Log: LogConfig{
			Level:  strings.ToLower(envStr("LEARN_LOG_LEVEL", "info")),
			Format: strings.ToLower(envStr("LEARN_LOG_FORMAT", "json")),
		},
	}

	// A key given directly wins over a mounted secret file.
	if path := os.Getenv("LEARN_AI_OPENAI_API_KEY_FILE"); path != "" && cfg.AI.OpenAI.APIKey == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading LEARN_AI_OPENAI_API_KEY_FILE: %w", err)
		}
		cfg.AI.OpenAI.APIKey = strings.TrimSpace(string(data))
	}

	return cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderOpenAI:
		if c.AI.OpenAI.APIKey == "" {
			return fmt.Errorf("LEARN_AI_OPENAI_API_KEY or LEARN_AI_OPENAI_API_KEY_FILE is required for provider %q", ProviderOpenAI)
		}
	case ProviderOllama:
		if c.AI.Ollama.URL == "" {
			return fmt.Errorf("LEARN_AI_OLLAMA_URL is required for provider %q", ProviderOllama)
		}
	case ProviderOffline:
	default:
		return fmt.Errorf("LEARN_AI_PROVIDER must be 'openai', 'ollama' or 'offline', got %q", c.AI.Provider)
	}

	if c.AI.Timeout <= 0 {
		return fmt.Errorf("LEARN_AI_TIMEOUT_SECONDS must be positive")
	}

	switch c.Catalog.Source {
	case CatalogBuiltin:
	case CatalogYAML:
		if c.Catalog.Path == "" {
			return fmt.Errorf("LEARN_CATALOG_PATH is required for catalog source %q", CatalogYAML)
		}
	case CatalogPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("LEARN_DATABASE_URL is required for catalog source %q", CatalogPostgres)
		}
	default:
		return fmt.Errorf("LEARN_CATALOG_SOURCE must be 'builtin', 'yaml' or 'postgres', got %q", c.Catalog.Source)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LEARN_LOG_LEVEL must be debug, info, warn or error, got %q", c.Log.Level)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("LEARN_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}

	return nil
}

// HasDatabase reports whether a PostgreSQL URL is configured.
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// HasCache reports whether a Redis URL is configured.
func (c *Config) HasCache() bool {
	return c.Cache.URL != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
