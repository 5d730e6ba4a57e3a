// Package config loads runtime configuration from the environment with an
// optional YAML file underneath.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported LLM providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// LLM provider
	LLMProvider     string
	LLMModel        string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string
	MaxTokens       int
	Temperature     float64
	LLMMaxAttempts  int

	// SurrealDB connection (document store)
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Pipeline
	Concurrency int
	ReviewPass  bool

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig is the YAML config file shape. Every field is optional; env
// vars win over file values.
type fileConfig struct {
	LLMProvider    string   `yaml:"llm_provider"`
	LLMModel       string   `yaml:"llm_model"`
	OllamaHost     string   `yaml:"ollama_host"`
	MaxTokens      *int     `yaml:"max_tokens"`
	Temperature    *float64 `yaml:"temperature"`
	LLMMaxAttempts *int     `yaml:"llm_max_attempts"`

	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`
	SurrealDBAuthLevel string `yaml:"surrealdb_auth_level"`

	Concurrency *int  `yaml:"concurrency"`
	ReviewPass  *bool `yaml:"review_pass"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		LLMProvider:     getEnv("COURSEGEN_LLM_PROVIDER", ProviderOllama),
		LLMModel:        getEnv("COURSEGEN_LLM_MODEL", "llama3.1"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		MaxTokens:       getEnvInt("COURSEGEN_MAX_TOKENS", 4096),
		Temperature:     getEnvFloat("COURSEGEN_TEMPERATURE", 0.7),
		LLMMaxAttempts:  getEnvInt("COURSEGEN_LLM_MAX_ATTEMPTS", 5),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "coursegen"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "content"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		Concurrency: getEnvInt("COURSEGEN_CONCURRENCY", 3),
		ReviewPass:  getEnv("COURSEGEN_REVIEW_PASS", "true") != "false",

		LogFile:  getEnv("COURSEGEN_LOG_FILE", "/tmp/coursegen.log"),
		LogLevel: parseLogLevel(getEnv("COURSEGEN_LOG_LEVEL", "INFO")),
	}
}

// LoadWithFile reads the YAML file at path (when non-empty) and applies env
// vars on top of it.
func LoadWithFile(path string) (Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	// File values fill in only where the env var was unset.
	setIfUnset := func(dst *string, envKey, fileVal string) {
		if fileVal != "" && os.Getenv(envKey) == "" {
			*dst = fileVal
		}
	}

	setIfUnset(&cfg.LLMProvider, "COURSEGEN_LLM_PROVIDER", fc.LLMProvider)
	setIfUnset(&cfg.LLMModel, "COURSEGEN_LLM_MODEL", fc.LLMModel)
	setIfUnset(&cfg.OllamaHost, "OLLAMA_HOST", fc.OllamaHost)
	setIfUnset(&cfg.SurrealDBURL, "SURREALDB_URL", fc.SurrealDBURL)
	setIfUnset(&cfg.SurrealDBNamespace, "SURREALDB_NAMESPACE", fc.SurrealDBNamespace)
	setIfUnset(&cfg.SurrealDBDatabase, "SURREALDB_DATABASE", fc.SurrealDBDatabase)
	setIfUnset(&cfg.SurrealDBUser, "SURREALDB_USER", fc.SurrealDBUser)
	setIfUnset(&cfg.SurrealDBPass, "SURREALDB_PASS", fc.SurrealDBPass)
	setIfUnset(&cfg.SurrealDBAuthLevel, "SURREALDB_AUTH_LEVEL", fc.SurrealDBAuthLevel)
	setIfUnset(&cfg.LogFile, "COURSEGEN_LOG_FILE", fc.LogFile)

	if fc.MaxTokens != nil && os.Getenv("COURSEGEN_MAX_TOKENS") == "" {
		cfg.MaxTokens = *fc.MaxTokens
	}
	if fc.Temperature != nil && os.Getenv("COURSEGEN_TEMPERATURE") == "" {
		cfg.Temperature = *fc.Temperature
	}
	if fc.LLMMaxAttempts != nil && os.Getenv("COURSEGEN_LLM_MAX_ATTEMPTS") == "" {
		cfg.LLMMaxAttempts = *fc.LLMMaxAttempts
	}
	if fc.Concurrency != nil && os.Getenv("COURSEGEN_CONCURRENCY") == "" {
		cfg.Concurrency = *fc.Concurrency
	}
	if fc.ReviewPass != nil && os.Getenv("COURSEGEN_REVIEW_PASS") == "" {
		cfg.ReviewPass = *fc.ReviewPass
	}
	if fc.LogLevel != "" && os.Getenv("COURSEGEN_LOG_LEVEL") == "" {
		cfg.LogLevel = parseLogLevel(fc.LogLevel)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
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
