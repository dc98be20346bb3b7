package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Resolver ResolverConfig `yaml:"resolver" envconfig:"RESOLVER"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig names the resolver's data sources and artifacts
type PathsConfig struct {
	// UniverseFile is the default newline-delimited ticker list.
	UniverseFile string `yaml:"universe_file" envconfig:"UNIVERSE_FILE"`
	// BroadUniverseFile, when present, supersedes UniverseFile.
	BroadUniverseFile string `yaml:"broad_universe_file" envconfig:"BROAD_UNIVERSE_FILE"`
	// NameMapFile is the "- Display Name (TICKER)" document.
	NameMapFile string `yaml:"name_map_file" envconfig:"NAME_MAP_FILE"`
	// CacheFile is the rebuildable alias-cache artifact.
	CacheFile string `yaml:"cache_file" envconfig:"CACHE_FILE"`
}

// ResolverConfig contains matching tunables
type ResolverConfig struct {
	// MaxAliases caps aliases kept per ticker.
	MaxAliases int `yaml:"max_aliases" envconfig:"MAX_ALIASES"`
	// TokenFuzzyFloor is the minimum accepted single-token fuzzy score.
	TokenFuzzyFloor float64 `yaml:"token_fuzzy_floor" envconfig:"TOKEN_FUZZY_FLOOR"`
	// PhraseFuzzyThreshold is the acceptance score for multi-word windows.
	PhraseFuzzyThreshold float64 `yaml:"phrase_fuzzy_threshold" envconfig:"PHRASE_FUZZY_THRESHOLD"`
	// SuggestFloor is the minimum score for whole-query suggestions.
	SuggestFloor float64 `yaml:"suggest_floor" envconfig:"SUGGEST_FLOOR"`
}

// DefaultConfig returns the built-in defaults. Defaults live here rather than
// in envconfig default tags so the precedence chain holds: a config file
// overrides defaults, and only explicitly set environment variables override
// the file.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			UniverseFile:      "data/universe.txt",
			BroadUniverseFile: "data/universe_broad.txt",
			NameMapFile:       "data/company_names.md",
			CacheFile:         "data/alias_cache.json",
		},
		Resolver: ResolverConfig{
			MaxAliases:           40,
			TokenFuzzyFloor:      0.80,
			PhraseFuzzyThreshold: 0.82,
			SuggestFloor:         0.78,
		},
	}
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	return LoadFromFile(configFilePath())
}

// LoadFromFile loads configuration in precedence order: built-in defaults,
// then the given YAML file, then environment variables. A missing file is
// not an error; defaults apply.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	// Only explicitly set environment variables touch the config here; the
	// struct carries no envconfig defaults.
	if err := envconfig.Process("TICKERLENS", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Resolver.MaxAliases < 1 {
		return fmt.Errorf("invalid max aliases: %d", c.Resolver.MaxAliases)
	}
	for name, v := range map[string]float64{
		"token_fuzzy_floor":      c.Resolver.TokenFuzzyFloor,
		"phrase_fuzzy_threshold": c.Resolver.PhraseFuzzyThreshold,
		"suggest_floor":          c.Resolver.SuggestFloor,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("invalid %s: %f", name, v)
		}
	}
	return nil
}

// configFilePath returns the config file location, overridable via env.
func configFilePath() string {
	if path := os.Getenv("TICKERLENS_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}
