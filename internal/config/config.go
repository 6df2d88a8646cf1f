package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for Voicepal
type Config struct {
	Generation GenerationConfig `json:"generation"`
	ASR        ASRConfig        `json:"asr"`
	Server     ServerConfig     `json:"server"`
}

// GenerationConfig holds the text-generation provider configuration
type GenerationConfig struct {
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"api_key"`
	Model          string `json:"model"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// ASRConfig holds speech transcription configuration (Whisper-compatible endpoint)
type ASRConfig struct {
	URL    string `json:"url"`
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

// ServerConfig holds API server configuration
type ServerConfig struct {
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	CORSOrigins []string `json:"cors_origins"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Generation: GenerationConfig{
			BaseURL:        "https://generativelanguage.googleapis.com",
			APIKey:         "",
			Model:          "gemini-2.5-flash-preview-05-20",
			TimeoutSeconds: 120,
		},
		ASR: ASRConfig{
			URL:    "http://localhost:8001/v1",
			APIKey: "",
			Model:  "whisper-large-v3",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
	}
}

func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*target = i
		}
	}
}

// Load loads configuration from the config file and environment variables
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse config file %s: %v\n", configPath, err)
		}
	}

	envString("VOICEPAL_GENERATION_URL", &cfg.Generation.BaseURL)
	envString("VOICEPAL_GENERATION_API_KEY", &cfg.Generation.APIKey)
	envString("VOICEPAL_GENERATION_MODEL", &cfg.Generation.Model)
	envInt("VOICEPAL_GENERATION_TIMEOUT", &cfg.Generation.TimeoutSeconds)

	envString("VOICEPAL_ASR_URL", &cfg.ASR.URL)
	envString("VOICEPAL_ASR_API_KEY", &cfg.ASR.APIKey)
	envString("VOICEPAL_ASR_MODEL", &cfg.ASR.Model)

	envString("VOICEPAL_SERVER_HOST", &cfg.Server.Host)
	envInt("VOICEPAL_SERVER_PORT", &cfg.Server.Port)
	if v := os.Getenv("VOICEPAL_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsGenerationConfigured returns true if the generation provider has credentials
func (c *Config) IsGenerationConfigured() bool {
	return c.Generation.APIKey != ""
}

// IsASRConfigured returns true if speech transcription is configured
func (c *Config) IsASRConfigured() bool {
	return c.ASR.URL != ""
}

func isValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server port must be between 1 and 65535")
	}

	if c.Generation.BaseURL == "" {
		errs = append(errs, "generation base URL is required")
	} else if !isValidURL(c.Generation.BaseURL) {
		errs = append(errs, "generation base URL must be a valid URL")
	}
	if c.Generation.Model == "" {
		errs = append(errs, "generation model is required")
	}
	if c.Generation.TimeoutSeconds < 1 {
		errs = append(errs, "generation timeout must be positive")
	}

	if c.ASR.URL != "" && !isValidURL(c.ASR.URL) {
		errs = append(errs, "ASR URL must be a valid URL")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	if path := os.Getenv("VOICEPAL_CONFIG"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}

	configPath := filepath.Join(homeDir, ".config", "voicepal", "config.json")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	return configPath
}
