package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend identifiers accepted by storage.backend.
const (
	BackendMemory   = "memory"
	BackendCSV      = "csv"
	BackendGithub   = "github"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Matcher MatcherConfig `yaml:"matcher"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Storage StorageConfig `yaml:"storage"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// MatcherConfig tunes the fuzzy matching policy.
type MatcherConfig struct {
	Threshold   int    `yaml:"threshold"`
	Fallback    string `yaml:"fallback"`
	RecentLimit int    `yaml:"recentLimit"`
}

// CorpusConfig locates the question/answer source file.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig selects and parameterizes the interaction backend.
type StorageConfig struct {
	Backend  string         `yaml:"backend"`
	CSV      CSVConfig      `yaml:"csv"`
	Github   GithubConfig   `yaml:"github"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// CSVConfig is the local tabular-file backend.
type CSVConfig struct {
	Path string `yaml:"path"`
}

// GithubConfig is the remote-repository-hosted tabular-file backend.
type GithubConfig struct {
	APIBaseURL string `yaml:"apiBaseUrl"`
	Owner      string `yaml:"owner"`
	Repo       string `yaml:"repo"`
	Path       string `yaml:"path"`
	Branch     string `yaml:"branch"`
	Token      string `yaml:"token"`
}

// SQLiteConfig is the embedded relational backend.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("MATCH_THRESHOLD"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Matcher.Threshold = parsed
		}
	}
	if v := os.Getenv("MATCH_FALLBACK"); v != "" {
		cfg.Matcher.Fallback = v
	}
	if v := os.Getenv("MATCH_RECENT_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Matcher.RecentLimit = parsed
		}
	}
	if v := os.Getenv("CORPUS_PATH"); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("STORAGE_CSV_PATH"); v != "" {
		cfg.Storage.CSV.Path = v
	}
	if v := os.Getenv("STORAGE_GITHUB_API_URL"); v != "" {
		cfg.Storage.Github.APIBaseURL = v
	}
	if v := os.Getenv("STORAGE_GITHUB_OWNER"); v != "" {
		cfg.Storage.Github.Owner = v
	}
	if v := os.Getenv("STORAGE_GITHUB_REPO"); v != "" {
		cfg.Storage.Github.Repo = v
	}
	if v := os.Getenv("STORAGE_GITHUB_PATH"); v != "" {
		cfg.Storage.Github.Path = v
	}
	if v := os.Getenv("STORAGE_GITHUB_BRANCH"); v != "" {
		cfg.Storage.Github.Branch = v
	}
	if v := os.Getenv("STORAGE_GITHUB_TOKEN"); v != "" {
		cfg.Storage.Github.Token = v
	}
	if v := os.Getenv("STORAGE_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLite.Path = v
	}
	if v := os.Getenv("STORAGE_POSTGRES_DSN"); v != "" {
		cfg.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("STORAGE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("STORAGE_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Postgres.MinConns = int32(parsed)
		}
	}
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			AllowedOrigins: []string{
				"http://dotazy.wz.cz",
				"https://dotazy.wz.cz",
			},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Matcher: MatcherConfig{
			Threshold:   76,
			Fallback:    "Omlouvám se, ale na tuto otázku nemám odpověď.",
			RecentLimit: 20,
		},
		Corpus: CorpusConfig{
			Path: "Chatbot_zdroj.json",
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
			CSV: CSVConfig{
				Path: "data/interactions.csv",
			},
			Github: GithubConfig{
				Branch: "main",
				Path:   "interactions.csv",
			},
			SQLite: SQLiteConfig{
				Path: "data/interactions.db",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Matcher.Threshold < 0 || c.Matcher.Threshold > 100 {
		return errors.New("matcher.threshold must be within [0, 100]")
	}
	if strings.TrimSpace(c.Matcher.Fallback) == "" {
		return errors.New("matcher.fallback cannot be empty")
	}
	if c.Matcher.RecentLimit <= 0 {
		return errors.New("matcher.recentLimit must be positive")
	}
	if strings.TrimSpace(c.Corpus.Path) == "" {
		return errors.New("corpus.path cannot be empty")
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendCSV:
		if strings.TrimSpace(c.Storage.CSV.Path) == "" {
			return errors.New("storage.csv.path cannot be empty for the csv backend")
		}
	case BackendGithub:
		if strings.TrimSpace(c.Storage.Github.Owner) == "" || strings.TrimSpace(c.Storage.Github.Repo) == "" {
			return errors.New("storage.github.owner and storage.github.repo are required for the github backend")
		}
		if strings.TrimSpace(c.Storage.Github.Path) == "" {
			return errors.New("storage.github.path cannot be empty for the github backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.SQLite.Path) == "" {
			return errors.New("storage.sqlite.path cannot be empty for the sqlite backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Storage.Postgres.DSN) == "" {
			return errors.New("storage.postgres.dsn cannot be empty for the postgres backend")
		}
	default:
		return fmt.Errorf("storage.backend %q is not one of memory, csv, github, sqlite, postgres", c.Storage.Backend)
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
