package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Finora
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Clients     ClientsConfig  `toml:"clients"`
	Cache       CacheConfig    `toml:"cache"`
	Documents   DocumentConfig `toml:"documents"`
	Logging     LoggingConfig  `toml:"logging"`
	Auth        AuthConfig     `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the embedded database path.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	AlphaVantage AlphaVantageConfig `toml:"alphavantage"`
	Gemini       GeminiConfig       `toml:"gemini"`
	Search       SearchConfig       `toml:"search"`
}

// AlphaVantageConfig holds market-data provider configuration
type AlphaVantageConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *AlphaVantageConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GeminiConfig holds LLM client configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// SearchConfig holds web-search client configuration
type SearchConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *SearchConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// CacheConfig holds the freshness TTLs as duration strings.
type CacheConfig struct {
	CompanyData string `toml:"company_data"`
	Analysis    string `toml:"analysis"`
	Movers      string `toml:"movers"`
}

func parseTTL(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// CompanyTTL returns the company-data freshness TTL.
func (c *CacheConfig) CompanyTTL() time.Duration {
	return parseTTL(c.CompanyData, FreshnessCompanyData)
}

// AnalysisTTL returns the analysis freshness TTL.
func (c *CacheConfig) AnalysisTTL() time.Duration {
	return parseTTL(c.Analysis, FreshnessAnalysis)
}

// MoversTTL returns the market-movers freshness TTL.
func (c *CacheConfig) MoversTTL() time.Duration {
	return parseTTL(c.Movers, FreshnessMovers)
}

// DocumentConfig holds upload and pipeline configuration.
type DocumentConfig struct {
	UploadDir   string `toml:"upload_dir"`
	MaxFileSize int64  `toml:"max_file_size"`
	Workers     int    `toml:"workers"`
}

// GetWorkers returns the worker count, defaulting to 2.
func (c *DocumentConfig) GetWorkers() int {
	if c.Workers <= 0 {
		return 2
	}
	return c.Workers
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"`
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/finora",
		},
		Clients: ClientsConfig{
			AlphaVantage: AlphaVantageConfig{
				BaseURL:   "https://www.alphavantage.co/query",
				RateLimit: 5,
				Timeout:   "15s",
			},
			Gemini: GeminiConfig{
				Model:       "gemini-2.5-flash",
				Temperature: 0.7,
				MaxTokens:   2048,
			},
			Search: SearchConfig{
				BaseURL: "https://html.duckduckgo.com/html/",
				Timeout: "10s",
			},
		},
		Cache: CacheConfig{
			CompanyData: "24h",
			Analysis:    "168h",
			Movers:      "5m",
		},
		Documents: DocumentConfig{
			UploadDir:   "data/uploads",
			MaxFileSize: 25 * 1024 * 1024,
			Workers:     2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINORA_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FINORA_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FINORA_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FINORA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FINORA_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if v := os.Getenv("FINORA_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}

	if v := os.Getenv("FINORA_CACHE_COMPANY_TTL"); v != "" {
		config.Cache.CompanyData = v
	}
	if v := os.Getenv("FINORA_CACHE_ANALYSIS_TTL"); v != "" {
		config.Cache.Analysis = v
	}
	if v := os.Getenv("FINORA_CACHE_MOVERS_TTL"); v != "" {
		config.Cache.Movers = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment variables or the
// config fallback. Returns an error when neither is set.
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"alphavantage_api_key": {"ALPHA_VANTAGE_KEY", "FINORA_ALPHA_VANTAGE_KEY"},
		"gemini_api_key":       {"GEMINI_API_KEY", "FINORA_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}
