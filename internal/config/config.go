// Package config loads configuration from the environment with an
// optional YAML overlay file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LLM provider identifiers.
const (
	ProviderGoogleAI  = "googleai"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderBedrock   = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// LLM backend
	LLMProvider     string
	LLMModel        string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string

	// SurrealDB listings store
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Server
	ServerPort string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig mirrors the YAML overlay file (~/.makeke.yaml).
// Only non-empty values override the environment.
type fileConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	OllamaHost string `yaml:"ollama_host"`
	ServerPort string `yaml:"server_port"`
	LogFile    string `yaml:"log_file"`
	LogLevel   string `yaml:"log_level"`

	SurrealDB struct {
		URL       string `yaml:"url"`
		Namespace string `yaml:"namespace"`
		Database  string `yaml:"database"`
		User      string `yaml:"user"`
		Pass      string `yaml:"pass"`
		AuthLevel string `yaml:"auth_level"`
	} `yaml:"surrealdb"`
}

// Load reads configuration from environment variables, then applies the
// YAML overlay file if one exists.
func Load() Config {
	cfg := Config{
		LLMProvider:     getEnv("MAKEKE_LLM_PROVIDER", ProviderGoogleAI),
		LLMModel:        getEnv("MAKEKE_LLM_MODEL", "gemini-2.5-flash"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "makeke"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "marketplace"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		ServerPort: getEnv("MAKEKE_SERVER_PORT", "8686"),

		LogFile:  getEnv("MAKEKE_LOG_FILE", "/tmp/makeke.log"),
		LogLevel: parseLogLevel(getEnv("MAKEKE_LOG_LEVEL", "INFO")),
	}

	if path := overlayPath(); path != "" {
		if err := cfg.applyFile(path); err != nil {
			slog.Warn("ignoring config file", "path", path, "error", err)
		}
	}

	return cfg
}

// overlayPath returns the YAML overlay location, or "" if none exists.
func overlayPath() string {
	if p := os.Getenv("MAKEKE_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".makeke.yaml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// applyFile overlays non-empty values from a YAML file onto cfg.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setIf(&c.LLMProvider, fc.Provider)
	setIf(&c.LLMModel, fc.Model)
	setIf(&c.OllamaHost, fc.OllamaHost)
	setIf(&c.ServerPort, fc.ServerPort)
	setIf(&c.LogFile, fc.LogFile)
	if fc.LogLevel != "" {
		c.LogLevel = parseLogLevel(fc.LogLevel)
	}

	setIf(&c.SurrealDBURL, fc.SurrealDB.URL)
	setIf(&c.SurrealDBNamespace, fc.SurrealDB.Namespace)
	setIf(&c.SurrealDBDatabase, fc.SurrealDB.Database)
	setIf(&c.SurrealDBUser, fc.SurrealDB.User)
	setIf(&c.SurrealDBPass, fc.SurrealDB.Pass)
	setIf(&c.SurrealDBAuthLevel, fc.SurrealDB.AuthLevel)

	return nil
}

func setIf(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
