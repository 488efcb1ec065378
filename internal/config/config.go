package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the ndcsearch API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	GenAI    GenAIConfig    `yaml:"genai"`
	Search   SearchConfig   `yaml:"search"`
	Session  SessionConfig  `yaml:"session"`
	Feed     FeedConfig     `yaml:"feed"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AuthConfig holds API authentication settings. An empty key list disables
// authentication.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// GenAIConfig holds OpenAI-compatible provider settings. Set azure_endpoint
// for Azure OpenAI deployments; base_url overrides the default OpenAI host.
type GenAIConfig struct {
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	AzureEndpoint    string `yaml:"azure_endpoint"`
	EmbeddingModel   string `yaml:"embedding_model"`
	Dimensions       int    `yaml:"dimensions"`
	ChatModel        string `yaml:"chat_model"`
	EmbCacheTTLHours int    `yaml:"emb_cache_ttl_hours"`
}

// SearchConfig holds search and retrieval settings.
type SearchConfig struct {
	Limit         int `yaml:"limit"`           // passages fetched per search query
	RAGLimit      int `yaml:"rag_limit"`       // passages used as answer contexts
	CatalogTTLMin int `yaml:"catalog_ttl_min"` // corpus catalog cache lifetime
}

// SessionConfig holds conversation session settings.
type SessionConfig struct {
	TTLMin      int `yaml:"ttl_min"`
	SweepSecInt int `yaml:"sweep_interval_sec"`
}

// FeedConfig holds the registry news feed settings.
type FeedConfig struct {
	URL        string `yaml:"url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// streaming answers hold the connection open
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.GenAI.EmbeddingModel == "" {
		c.GenAI.EmbeddingModel = "text-embedding-ada-002"
	}
	if c.GenAI.Dimensions <= 0 {
		c.GenAI.Dimensions = 1536
	}
	if c.GenAI.EmbCacheTTLHours <= 0 {
		c.GenAI.EmbCacheTTLHours = 24 * 7
	}
	if c.Search.Limit <= 0 {
		c.Search.Limit = 100
	}
	if c.Search.RAGLimit <= 0 {
		c.Search.RAGLimit = 30
	}
	if c.Search.CatalogTTLMin <= 0 {
		c.Search.CatalogTTLMin = 60
	}
	if c.Session.TTLMin <= 0 {
		c.Session.TTLMin = 120
	}
	if c.Session.SweepSecInt <= 0 {
		c.Session.SweepSecInt = 300
	}
	if c.Feed.TimeoutSec <= 0 {
		c.Feed.TimeoutSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.GenAI.APIKey == "" {
		return fmt.Errorf("genai.api_key is required")
	}
	if c.GenAI.ChatModel == "" {
		return fmt.Errorf("genai.chat_model is required")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
