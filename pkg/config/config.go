package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Database  DatabaseConfig  `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Poller    PollerConfig    `yaml:"poller" json:"poller" jsonschema:"description=Polling defaults applied to every watch"`
	Fetch     FetchConfig     `yaml:"fetch" json:"fetch" jsonschema:"description=Feed download settings"`
	Sentiment SentimentConfig `yaml:"sentiment" json:"sentiment" jsonschema:"description=Optional LLM sentiment tagging of new alerts"`
	Watches   []Watch         `yaml:"watches" json:"watches" jsonschema:"minItems=1,description=Tracked feeds, one keyword per feed"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL for generated RSS feeds"`
}

// DatabaseConfig holds alert store settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:alertscope.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// PollerConfig holds polling cycle settings
type PollerConfig struct {
	Interval   time.Duration `yaml:"interval" json:"interval" jsonschema:"default=1m,description=Default refresh interval"`
	MaxWorkers int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,minimum=1,description=Maximum concurrent alert writes per cycle"`
}

// FetchConfig holds feed download settings
type FetchConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP request timeout"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Alertscope/1.0,description=User agent for HTTP requests"`
	Attempts   int           `yaml:"attempts" json:"attempts" jsonschema:"default=3,minimum=1,description=Download attempts on transient failures"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=1s,description=Initial delay between attempts"`
	MaxSize    int64         `yaml:"max_size" json:"max_size" jsonschema:"default=10485760,description=Maximum feed body size in bytes"`
}

// SentimentConfig holds LLM configuration for sentiment tagging
type SentimentConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable sentiment tagging"`
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"description=Model name (e.g. gpt-4o-mini or llama3)"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.1,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=300,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for the LLM (optional)"`
	UseJSONMode  bool          `yaml:"use_json_mode" json:"use_json_mode" jsonschema:"default=false,description=Use JSON response format (not all models support this)"`
}

// Watch is a single tracked feed with its keyword
type Watch struct {
	URL         string        `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
	Keyword     string        `yaml:"keyword" json:"keyword" jsonschema:"required,description=Keyword alerts are stored under"`
	AutoRefresh *bool         `yaml:"auto_refresh" json:"auto_refresh" jsonschema:"default=true,description=Refresh periodically, otherwise fetch once on start"`
	Interval    time.Duration `yaml:"interval" json:"interval" jsonschema:"description=Refresh interval, poller.interval if not set"`
}

// IsAutoRefresh returns true unless auto refresh explicitly disabled
func (w Watch) IsAutoRefresh() bool {
	return w.AutoRefresh == nil || *w.AutoRefresh
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	// database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:alertscope.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// poller
	if c.Poller.Interval == 0 {
		c.Poller.Interval = time.Minute
	}
	if c.Poller.MaxWorkers == 0 {
		c.Poller.MaxWorkers = 5
	}

	// fetch
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "Alertscope/1.0"
	}
	if c.Fetch.Attempts == 0 {
		c.Fetch.Attempts = 3
	}
	if c.Fetch.RetryDelay == 0 {
		c.Fetch.RetryDelay = time.Second
	}
	if c.Fetch.MaxSize == 0 {
		c.Fetch.MaxSize = 10 * 1024 * 1024
	}

	// sentiment
	if c.Sentiment.Temperature == 0 {
		c.Sentiment.Temperature = 0.1
	}
	if c.Sentiment.MaxTokens == 0 {
		c.Sentiment.MaxTokens = 300
	}
	if c.Sentiment.Timeout == 0 {
		c.Sentiment.Timeout = 30 * time.Second
	}

	// watches
	for i := range c.Watches {
		c.Watches[i].URL = strings.TrimSpace(c.Watches[i].URL)
		c.Watches[i].Keyword = strings.TrimSpace(c.Watches[i].Keyword)
		if c.Watches[i].Interval == 0 {
			c.Watches[i].Interval = c.Poller.Interval
		}
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Poller.MaxWorkers < 1 {
		return fmt.Errorf("poller.max_workers must be at least 1")
	}
	if cfg.Fetch.Attempts < 1 {
		return fmt.Errorf("fetch.attempts must be at least 1")
	}
	if cfg.Fetch.MaxSize < 0 {
		return fmt.Errorf("fetch.max_size must be non-negative")
	}

	if cfg.Sentiment.Enabled {
		if cfg.Sentiment.Endpoint == "" {
			return fmt.Errorf("sentiment.endpoint is required when sentiment is enabled")
		}
		if cfg.Sentiment.Model == "" {
			return fmt.Errorf("sentiment.model is required when sentiment is enabled")
		}
		if cfg.Sentiment.Temperature < 0 || cfg.Sentiment.Temperature > 2 {
			return fmt.Errorf("sentiment.temperature must be between 0 and 2")
		}
	}

	if len(cfg.Watches) == 0 {
		return fmt.Errorf("at least one watch is required")
	}
	seen := make(map[string]int, len(cfg.Watches))
	for i, w := range cfg.Watches {
		if w.URL == "" {
			return fmt.Errorf("watches[%d].url is required", i)
		}
		if w.Keyword == "" {
			return fmt.Errorf("watches[%d].keyword is required", i)
		}
		if prev, ok := seen[w.Keyword]; ok {
			return fmt.Errorf("watches[%d].keyword %q duplicates watches[%d]", i, w.Keyword, prev)
		}
		seen[w.Keyword] = i
		if w.IsAutoRefresh() && w.Interval < time.Second {
			return fmt.Errorf("watches[%d].interval must be at least 1 second", i)
		}
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetSentimentConfig returns sentiment classifier configuration
func (c *Config) GetSentimentConfig() SentimentConfig {
	return c.Sentiment
}

// GetWatches returns configured watches
func (c *Config) GetWatches() []Watch {
	return c.Watches
}

// GetBaseURL returns base URL used in generated RSS feeds
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}
