package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the blogsearch configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	SQL       SQLConfig       `yaml:"sql"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"` // empty = any origin
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	CommandTimeout   int      `yaml:"command_timeout_sec"` // per round trip, 0 = client default
}

// SQLConfig holds the keyword-strategy database settings.
type SQLConfig struct {
	Driver string `yaml:"driver"` // postgres, sqlite (default: inferred from dsn)
	DSN    string `yaml:"dsn"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider         string      `yaml:"provider"`
	APIKey           string      `yaml:"api_key"`
	BaseURL          string      `yaml:"base_url"`
	Model            string      `yaml:"model"`
	Dimensions       int         `yaml:"dimensions"`
	QueryInstruction string      `yaml:"query_instruction"`
	TimeoutSec       int         `yaml:"timeout_sec"`
	Cache            CacheConfig `yaml:"cache"`
}

// CacheConfig holds the embedding cache settings.
type CacheConfig struct {
	Enabled *bool `yaml:"enabled"` // default true
	TTLSec  int   `yaml:"ttl_sec"` // 0 = no expiry
}

// SearchConfig selects the retrieval strategy.
type SearchConfig struct {
	Strategy      string `yaml:"strategy"` // local, delegated, keyword
	Limit         int    `yaml:"limit"`
	NumCandidates int    `yaml:"num_candidates"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
	HNSWM     int    `yaml:"hnsw_m"`
	HNSWEF    int    `yaml:"hnsw_ef_construction"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
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

// LoadDotEnv loads variables from the given .env files (default ".env") without overriding
// ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
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
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = DefaultEmbeddingModel
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = DefaultDimensions
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 30
	}
	if c.Embedding.Cache.Enabled == nil {
		enabled := true
		c.Embedding.Cache.Enabled = &enabled
	}
	if c.Search.Strategy == "" {
		c.Search.Strategy = "local"
	}
	c.Search.Strategy = strings.ToLower(strings.TrimSpace(c.Search.Strategy))
	if c.Search.Limit <= 0 {
		c.Search.Limit = DefaultResultLimit
	}
	if c.Search.NumCandidates <= 0 {
		c.Search.NumCandidates = DefaultNumCandidates
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = DefaultKeyPrefix
	}
	if c.Storage.HNSWM <= 0 {
		c.Storage.HNSWM = 16
	}
	if c.Storage.HNSWEF <= 0 {
		c.Storage.HNSWEF = 200
	}
	if c.SQL.Driver == "" && c.SQL.DSN != "" {
		if strings.HasPrefix(c.SQL.DSN, "postgres://") || strings.HasPrefix(c.SQL.DSN, "postgresql://") {
			c.SQL.Driver = "postgres"
		} else {
			c.SQL.Driver = "sqlite"
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Search.Strategy {
	case "local", "delegated":
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for search.strategy %q", c.Search.Strategy)
		}
	case "keyword":
		if c.SQL.DSN == "" {
			return errors.New("sql.dsn is required for search.strategy \"keyword\"")
		}
	default:
		return fmt.Errorf(
			"search.strategy must be \"local\", \"delegated\" or \"keyword\", got %q",
			c.Search.Strategy,
		)
	}

	switch c.SQL.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("sql.driver must be \"postgres\" or \"sqlite\", got %q", c.SQL.Driver)
	}

	if c.Embedding.Provider != "openai" {
		return fmt.Errorf("embedding.provider must be \"openai\", got %q", c.Embedding.Provider)
	}
	if c.Search.Limit > 100 {
		return fmt.Errorf("search.limit must be at most 100, got %d", c.Search.Limit)
	}
	return nil
}

// UsesRedis reports whether the configured strategy reads from Redis.
func (c *Config) UsesRedis() bool {
	return c.Search.Strategy == "local" || c.Search.Strategy == "delegated"
}

// CacheTTL returns the embedding cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Embedding.Cache.TTLSec) * time.Second
}

// CacheEnabled reports whether embeddings are cached in Redis.
func (c *Config) CacheEnabled() bool {
	return c.Embedding.Cache.Enabled != nil && *c.Embedding.Cache.Enabled
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
