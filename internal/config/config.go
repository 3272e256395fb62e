package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Table backends.
const (
	TableBackendREST     = "rest"
	TableBackendPostgres = "postgres"
)

type Config struct {
	// Supabase project
	SupabaseURL        string `envconfig:"SUPABASE_URL"`
	SupabaseServiceKey string `envconfig:"SUPABASE_SERVICE_KEY"`
	ProductsTable      string `envconfig:"SUPABASE_PRODUCTS_TABLE" default:"products"`
	ImagesBucket       string `envconfig:"SUPABASE_IMAGES_BUCKET" default:"product_images"`

	// Stamped on every product; empty leaves currency null.
	DefaultCurrency string `envconfig:"DEFAULT_CURRENCY"`

	// Checkpoint
	CheckpointPath     string `envconfig:"CHECKPOINT_PATH" default:"checkpoints/last_page.json"`
	CheckpointRedisURL string `envconfig:"CHECKPOINT_REDIS_URL"`
	CheckpointKey      string `envconfig:"CHECKPOINT_KEY" default:"catalogsync:last_page"`

	// Table store
	TableBackend string `envconfig:"TABLE_BACKEND" default:"rest"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`

	// Document decoding: fitz or text
	PDFBackend string `envconfig:"PDF_BACKEND" default:"fitz"`

	// HTTP
	StorageCacheControl int           `envconfig:"STORAGE_CACHE_CONTROL" default:"3600"`
	HTTPTimeout         time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`
	MetricsAddr         string        `envconfig:"METRICS_ADDR"`
	StatusToken         string        `envconfig:"STATUS_TOKEN"`
}

// Load reads envPath (or ./.env when envPath is empty and the file exists)
// into the process environment, then builds a Config from it. Variables
// already set in the environment win over the file.
func Load(envPath string) (Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", envPath, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.trim()
	return cfg, nil
}

func (c *Config) trim() {
	c.SupabaseURL = strings.TrimSpace(c.SupabaseURL)
	c.SupabaseServiceKey = strings.TrimSpace(c.SupabaseServiceKey)
	c.ProductsTable = strings.TrimSpace(c.ProductsTable)
	c.ImagesBucket = strings.TrimSpace(c.ImagesBucket)
	c.CheckpointPath = strings.TrimSpace(c.CheckpointPath)
	c.TableBackend = strings.ToLower(strings.TrimSpace(c.TableBackend))
	c.PDFBackend = strings.ToLower(strings.TrimSpace(c.PDFBackend))
}

func (c Config) Validate() error {
	if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
		return fmt.Errorf("%w: SUPABASE_URL and SUPABASE_SERVICE_KEY must be set in the environment or .env file", ErrInvalidConfig)
	}
	if c.ProductsTable == "" {
		return fmt.Errorf("%w: SUPABASE_PRODUCTS_TABLE cannot be empty", ErrInvalidConfig)
	}
	if c.ImagesBucket == "" {
		return fmt.Errorf("%w: SUPABASE_IMAGES_BUCKET cannot be empty", ErrInvalidConfig)
	}
	if c.CheckpointRedisURL == "" && c.CheckpointPath == "" {
		return fmt.Errorf("%w: CHECKPOINT_PATH cannot be empty", ErrInvalidConfig)
	}
	switch c.TableBackend {
	case TableBackendREST:
	case TableBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required when TABLE_BACKEND=postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown TABLE_BACKEND %q", ErrInvalidConfig, c.TableBackend)
	}
	switch c.PDFBackend {
	case "fitz", "text":
	default:
		return fmt.Errorf("%w: unknown PDF_BACKEND %q", ErrInvalidConfig, c.PDFBackend)
	}
	if c.StorageCacheControl < 0 {
		return fmt.Errorf("%w: STORAGE_CACHE_CONTROL cannot be negative", ErrInvalidConfig)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("%w: HTTP_TIMEOUT cannot be negative", ErrInvalidConfig)
	}
	return nil
}
