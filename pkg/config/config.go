// Package config handles loading and managing deliberate configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/deliberate/deliberate/pkg/decision"
	"github.com/deliberate/deliberate/pkg/scoring"
)

// ArchiveFileName is the default file name of the local archive.
const ArchiveFileName = "deliberations_archive.json"

// Config is the top-level configuration for deliberate.
type Config struct {
	Archive   ArchiveConfig       `yaml:"archive"`
	Scoring   ScoringConfig       `yaml:"scoring"`
	Policy    decision.Policy     `yaml:"policy"`
	Server    ServerConfig        `yaml:"server"`
	Events    EventsConfig        `yaml:"events"`
	Logging   LoggingConfig       `yaml:"logging"`
	Templates []decision.Template `yaml:"templates"`
}

// ArchiveConfig selects and configures the archive backend.
type ArchiveConfig struct {
	Backend     string    `yaml:"backend"` // file, s3, gcs, postgres, sqlite, memory
	Path        string    `yaml:"path"`    // file backend; defaults to ArchivePath()
	S3          S3Config  `yaml:"s3"`
	GCS         GCSConfig `yaml:"gcs"`
	DatabaseURL string    `yaml:"database_url"`
	SQLitePath  string    `yaml:"sqlite_path"`
}

// S3Config configures the S3 archive backend. Endpoint and UsePathStyle
// allow S3-compatible stores such as MinIO.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Key             string `yaml:"key"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// GCSConfig configures the GCS archive backend.
type GCSConfig struct {
	Bucket string `yaml:"bucket"`
	Object string `yaml:"object"`
}

// ScoringConfig controls report classification.
type ScoringConfig struct {
	CloseMargin      float64 `yaml:"close_margin"`
	RecentWindowDays int     `yaml:"recent_window_days"`
}

// ServerConfig controls the HTTP service.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	APIKey      string `yaml:"api_key"` // required on mutating requests when set
}

// EventsConfig controls change-event publishing. An empty URL disables it.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			Backend: "file",
			S3:      S3Config{Key: ArchiveFileName, Region: "us-east-1"},
			GCS:     GCSConfig{Object: ArchiveFileName},
		},
		Scoring: ScoringConfig{
			CloseMargin:      5.0,
			RecentWindowDays: 7,
		},
		Policy: decision.DefaultPolicy(),
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a config file from the given path and applies DELIBERATE_*
// environment overrides. If the file does not exist, the defaults are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Archive.Backend {
	case "file", "memory", "sqlite":
	case "s3":
		if c.Archive.S3.Bucket == "" {
			return fmt.Errorf("archive.s3.bucket is required for the s3 backend")
		}
	case "gcs":
		if c.Archive.GCS.Bucket == "" {
			return fmt.Errorf("archive.gcs.bucket is required for the gcs backend")
		}
	case "postgres":
		if c.Archive.DatabaseURL == "" {
			return fmt.Errorf("archive.database_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown archive backend %q", c.Archive.Backend)
	}
	if c.Policy.MinContenders < 0 || (c.Policy.MaxContenders > 0 && c.Policy.MaxContenders < c.Policy.MinContenders) {
		return fmt.Errorf("policy contender limits are inconsistent: min %d, max %d", c.Policy.MinContenders, c.Policy.MaxContenders)
	}
	if c.Policy.MinAppraisal > c.Policy.MaxAppraisal {
		return fmt.Errorf("policy appraisal range is empty: [%v, %v]", c.Policy.MinAppraisal, c.Policy.MaxAppraisal)
	}
	for i, t := range c.Templates {
		if err := c.validateTemplate(t); err != nil {
			return fmt.Errorf("templates[%d]: %w", i, err)
		}
	}
	return nil
}

// validateTemplate rejects templates that would instantiate a deliberation
// the policy forbids.
func (c *Config) validateTemplate(t decision.Template) error {
	if strings.TrimSpace(t.Key) == "" {
		return fmt.Errorf("key is required")
	}
	if n := len(t.Criteria); n < c.Policy.MinCriteria {
		return fmt.Errorf("%s: need at least %d criteria, got %d", t.Key, c.Policy.MinCriteria, n)
	}
	n := len(t.Contenders)
	if n < c.Policy.MinContenders {
		return fmt.Errorf("%s: need at least %d contenders, got %d", t.Key, c.Policy.MinContenders, n)
	}
	if c.Policy.MaxContenders > 0 && n > c.Policy.MaxContenders {
		return fmt.Errorf("%s: at most %d contenders allowed, got %d", t.Key, c.Policy.MaxContenders, n)
	}
	return nil
}

// ScoringOptions converts the scoring section to report options.
func (c *Config) ScoringOptions() scoring.Options {
	return scoring.Options{
		CloseMargin:  c.Scoring.CloseMargin,
		RecentWindow: time.Duration(c.Scoring.RecentWindowDays) * 24 * time.Hour,
	}
}

// ArchiveFile returns the file backend path, falling back to ArchivePath().
func (c *Config) ArchiveFile() string {
	if c.Archive.Path != "" {
		return c.Archive.Path
	}
	return ArchivePath()
}

// SQLiteFile returns the sqlite backend path, defaulting into DataDir().
func (c *Config) SQLiteFile() string {
	if c.Archive.SQLitePath != "" {
		return c.Archive.SQLitePath
	}
	return filepath.Join(DataDir(), "deliberations.db")
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DELIBERATE_ARCHIVE_BACKEND"); v != "" {
		cfg.Archive.Backend = v
	}
	if v := os.Getenv("DELIBERATE_ARCHIVE_PATH"); v != "" {
		cfg.Archive.Path = v
	}
	if v := os.Getenv("DELIBERATE_DATABASE_URL"); v != "" {
		cfg.Archive.DatabaseURL = v
	}
	if v := os.Getenv("DELIBERATE_SQLITE_PATH"); v != "" {
		cfg.Archive.SQLitePath = v
	}
	if v := os.Getenv("DELIBERATE_S3_BUCKET"); v != "" {
		cfg.Archive.S3.Bucket = v
	}
	if v := os.Getenv("DELIBERATE_S3_ENDPOINT"); v != "" {
		cfg.Archive.S3.Endpoint = v
	}
	if v := os.Getenv("DELIBERATE_S3_REGION"); v != "" {
		cfg.Archive.S3.Region = v
	}
	if v := os.Getenv("DELIBERATE_GCS_BUCKET"); v != "" {
		cfg.Archive.GCS.Bucket = v
	}
	if v := os.Getenv("DELIBERATE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("DELIBERATE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("DELIBERATE_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("DELIBERATE_NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("DELIBERATE_CLOSE_MARGIN"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.CloseMargin = f
		}
	}
	if v := os.Getenv("DELIBERATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DELIBERATE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// FindConfigFile looks for .deliberate/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".deliberate", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// DataDir returns the per-user data directory, ~/.deliberate.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	return filepath.Join(home, ".deliberate")
}

// ArchivePath returns the default location of the local archive file.
func ArchivePath() string {
	return filepath.Join(DataDir(), ArchiveFileName)
}
