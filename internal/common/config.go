// -----------------------------------------------------------------------
// Last Modified: Tuesday, 18th August 2026 9:12:41 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Meili       MeiliConfig     `toml:"meili"`
	Auth        AuthConfig      `toml:"auth"`
	Crawler     CrawlerConfig   `toml:"crawler"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Bootstrap   BootstrapConfig `toml:"bootstrap"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// MeiliConfig holds the connection settings for the search backend
type MeiliConfig struct {
	URL    string `toml:"url"`     // Meilisearch base URL
	APIKey string `toml:"api_key"` // Master or API key; empty for unsecured instances
	Index  string `toml:"index"`   // Index UID holding crawled documents
}

// AuthConfig holds the API authentication settings
type AuthConfig struct {
	BearerToken string `toml:"bearer_token"` // Shared token; empty leaves all endpoints open
}

// CrawlerConfig contains crawl behavior configuration
type CrawlerConfig struct {
	UserAgent       string        `toml:"user_agent"`        // User agent sent with every fetch
	DefaultMaxDepth int           `toml:"default_max_depth"` // Applied when a crawl request omits max_depth
	DefaultMaxPages int           `toml:"default_max_pages"` // Applied when a crawl request omits max_pages
	Concurrency     int           `toml:"concurrency"`       // Maximum simultaneous crawl tasks
	CrawlDelayMs    int           `toml:"crawl_delay_ms"`    // Polite delay between page fetches within a run
	FetchTimeout    time.Duration `toml:"fetch_timeout"`     // HTTP timeout for a single page fetch
	MaxBodySize     int           `toml:"max_body_size"`     // Maximum response body size in bytes
}

// SchedulerConfig contains the periodic re-crawl settings
type SchedulerConfig struct {
	Enabled         bool `toml:"enabled"`          // Run the periodic due-site scan
	IntervalMinutes int  `toml:"interval_minutes"` // Tick interval for the due-site scan
}

// BootstrapConfig points at an optional site seed file loaded at startup
type BootstrapConfig struct {
	SitesFile string `toml:"sites_file"` // YAML file of sites to ensure on startup; empty disables
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in scour.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/scour",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Meili: MeiliConfig{
			URL:    "http://localhost:7700",
			APIKey: "",
			Index:  "documents",
		},
		Auth: AuthConfig{
			BearerToken: "", // open by default (dev mode)
		},
		Crawler: CrawlerConfig{
			UserAgent:       "Scour/1.0 (+https://github.com/ternarybob/scour)",
			DefaultMaxDepth: 3,
			DefaultMaxPages: 100,
			Concurrency:     5,
			CrawlDelayMs:    500,
			FetchTimeout:    30 * time.Second,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
		},
		Scheduler: SchedulerConfig{
			Enabled:         true,
			IntervalMinutes: 5,
		},
		Bootstrap: BootstrapConfig{
			SitesFile: "",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env -> CLI. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: SCOUR_ENV, fallback: GO_ENV)
	if env := os.Getenv("SCOUR_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("SCOUR_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SCOUR_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("SCOUR_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("SCOUR_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("SCOUR_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Meilisearch configuration
	if url := os.Getenv("SCOUR_MEILI_URL"); url != "" {
		config.Meili.URL = url
	}
	if apiKey := os.Getenv("SCOUR_MEILI_API_KEY"); apiKey != "" {
		config.Meili.APIKey = apiKey
	}
	if index := os.Getenv("SCOUR_MEILI_INDEX"); index != "" {
		config.Meili.Index = index
	}

	// Auth configuration
	if token := os.Getenv("SCOUR_AUTH_TOKEN"); token != "" {
		config.Auth.BearerToken = token
	}

	// Crawler configuration
	if userAgent := os.Getenv("SCOUR_CRAWLER_USER_AGENT"); userAgent != "" {
		config.Crawler.UserAgent = userAgent
	}
	if maxDepth := os.Getenv("SCOUR_CRAWLER_MAX_DEPTH"); maxDepth != "" {
		if md, err := strconv.Atoi(maxDepth); err == nil && md >= 0 {
			config.Crawler.DefaultMaxDepth = md
		}
	}
	if maxPages := os.Getenv("SCOUR_CRAWLER_MAX_PAGES"); maxPages != "" {
		if mp, err := strconv.Atoi(maxPages); err == nil && mp >= 1 {
			config.Crawler.DefaultMaxPages = mp
		}
	}
	if concurrency := os.Getenv("SCOUR_CRAWLER_CONCURRENCY"); concurrency != "" {
		if c, err := strconv.Atoi(concurrency); err == nil && c >= 1 {
			config.Crawler.Concurrency = c
		}
	}
	if delay := os.Getenv("SCOUR_CRAWLER_DELAY_MS"); delay != "" {
		if d, err := strconv.Atoi(delay); err == nil && d >= 0 {
			config.Crawler.CrawlDelayMs = d
		}
	}
	if fetchTimeout := os.Getenv("SCOUR_CRAWLER_FETCH_TIMEOUT_SECONDS"); fetchTimeout != "" {
		if ft, err := strconv.Atoi(fetchTimeout); err == nil && ft >= 1 {
			config.Crawler.FetchTimeout = time.Duration(ft) * time.Second
		}
	}
	if maxBodySize := os.Getenv("SCOUR_CRAWLER_MAX_BODY_SIZE"); maxBodySize != "" {
		if mbs, err := strconv.Atoi(maxBodySize); err == nil {
			config.Crawler.MaxBodySize = mbs
		}
	}

	// Scheduler configuration
	if enabled := os.Getenv("SCOUR_SCHEDULER_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = e
		}
	}
	if interval := os.Getenv("SCOUR_SCHEDULER_INTERVAL_MINUTES"); interval != "" {
		if i, err := strconv.Atoi(interval); err == nil && i >= 1 {
			config.Scheduler.IntervalMinutes = i
		}
	}

	// Bootstrap configuration
	if sitesFile := os.Getenv("SCOUR_BOOTSTRAP_FILE"); sitesFile != "" {
		config.Bootstrap.SitesFile = sitesFile
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// CrawlDelay returns the configured inter-page delay as a duration
func (c *Config) CrawlDelay() time.Duration {
	if c.Crawler.CrawlDelayMs <= 0 {
		return 0
	}
	return time.Duration(c.Crawler.CrawlDelayMs) * time.Millisecond
}

// SchedulerInterval returns the due-site scan interval as a duration
func (c *Config) SchedulerInterval() time.Duration {
	if c.Scheduler.IntervalMinutes < 1 {
		return 5 * time.Minute
	}
	return time.Duration(c.Scheduler.IntervalMinutes) * time.Minute
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
