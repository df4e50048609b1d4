// Package config loads runtime settings: built-in defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottopantry/internal/freshness"
	"github.com/hammamikhairi/ottopantry/internal/storage"
)

// Config is the full application configuration.
type Config struct {
	Addr string `yaml:"addr"`

	Log       LogConfig       `yaml:"log"`
	Store     StoreConfig     `yaml:"store"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Photos    PhotoConfig     `yaml:"photos"`
	Freshness FreshnessConfig `yaml:"freshness"`
	Pantry    PantryConfig    `yaml:"pantry"`

	CORSOrigins []string `yaml:"cors_origins"`
}

// LogConfig selects verbosity and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`  // off | normal | verbose
	Format string `yaml:"format"` // console | json
	File   string `yaml:"file"`   // empty or "stderr" for the console
}

// StoreConfig selects the key/value backend.
type StoreConfig struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	DatabaseURL string `yaml:"database_url"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
}

// Backend converts to the storage package's selector.
func (s StoreConfig) Backend() storage.Backend {
	return storage.Backend{
		Driver:      s.Driver,
		SQLitePath:  s.SQLitePath,
		DatabaseURL: s.DatabaseURL,
		RedisAddr:   s.RedisAddr,
		RedisPrefix: s.RedisPrefix,
	}
}

// GeminiConfig configures the model client.
type GeminiConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PhotoConfig configures the optional S3 photo archive. Empty bucket disables it.
type PhotoConfig struct {
	Bucket        string `yaml:"bucket"`
	Endpoint      string `yaml:"endpoint"`
	Region        string `yaml:"region"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// Enabled reports whether an archive bucket is configured.
func (p PhotoConfig) Enabled() bool { return p.Bucket != "" }

// S3 converts to the storage package's archive settings.
func (p PhotoConfig) S3() storage.S3Config {
	return storage.S3Config{
		Bucket:        p.Bucket,
		Endpoint:      p.Endpoint,
		Region:        p.Region,
		AccessKey:     p.AccessKey,
		SecretKey:     p.SecretKey,
		PublicBaseURL: p.PublicBaseURL,
	}
}

// FreshnessConfig holds the two independent rule sets.
type FreshnessConfig struct {
	Spoilage  freshness.Thresholds      `yaml:"spoilage"`
	Inventory freshness.InventoryFilter `yaml:"inventory"`
}

// PantryConfig holds behavioural knobs.
type PantryConfig struct {
	RecipesPerRequest int           `yaml:"recipes_per_request"`
	MaxImageBytes     int64         `yaml:"max_image_bytes"`
	SpoilageInterval  time.Duration `yaml:"spoilage_interval"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr: ":8080",
		Log:  LogConfig{Level: "normal", Format: "console"},
		Store: StoreConfig{
			Driver:      storage.DriverSQLite,
			SQLitePath:  "ottopantry.db",
			RedisPrefix: "ottopantry:",
		},
		Gemini: GeminiConfig{
			Model:   "gemini-1.5-flash",
			BaseURL: "https://generativelanguage.googleapis.com",
			Timeout: 60 * time.Second,
		},
		Photos: PhotoConfig{Region: "auto"},
		Freshness: FreshnessConfig{
			Spoilage:  freshness.DefaultThresholds(),
			Inventory: freshness.DefaultInventoryFilter(),
		},
		Pantry: PantryConfig{
			RecipesPerRequest: 2,
			MaxImageBytes:     5 << 20,
			SpoilageInterval:  time.Hour,
		},
		CORSOrigins: []string{"*"},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply. A missing file at an explicit path
// is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case storage.DriverMemory:
	case storage.DriverSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for the sqlite driver"))
		}
	case storage.DriverPostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case storage.DriverRedis:
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}

	if err := c.Freshness.Spoilage.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Freshness.Inventory.ExpiringDays < 0 {
		errs = append(errs, errors.New("freshness.inventory.expiring_days must not be negative"))
	}
	if c.Pantry.RecipesPerRequest < 1 || c.Pantry.RecipesPerRequest > 5 {
		errs = append(errs, fmt.Errorf("recipes_per_request must be 1-5, got %d", c.Pantry.RecipesPerRequest))
	}
	if c.Pantry.MaxImageBytes <= 0 {
		errs = append(errs, errors.New("max_image_bytes must be positive"))
	}
	if c.Pantry.SpoilageInterval <= 0 {
		errs = append(errs, errors.New("spoilage_interval must be positive"))
	}
	if c.Gemini.Timeout <= 0 {
		errs = append(errs, errors.New("gemini.timeout must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func applyEnv(c *Config) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	var errs []error
	integer := func(key string, dst *int) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("ADDR", &c.Addr)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_FILE", &c.Log.File)

	str("STORE_DRIVER", &c.Store.Driver)
	str("SQLITE_PATH", &c.Store.SQLitePath)
	str("DATABASE_URL", &c.Store.DatabaseURL)
	str("REDIS_ADDR", &c.Store.RedisAddr)
	str("REDIS_PREFIX", &c.Store.RedisPrefix)

	str("GEMINI_API_KEY", &c.Gemini.APIKey)
	str("GEMINI_MODEL", &c.Gemini.Model)
	str("GEMINI_BASE_URL", &c.Gemini.BaseURL)
	duration("GEMINI_TIMEOUT", &c.Gemini.Timeout)

	str("PHOTO_BUCKET", &c.Photos.Bucket)
	str("PHOTO_ENDPOINT", &c.Photos.Endpoint)
	str("PHOTO_REGION", &c.Photos.Region)
	str("PHOTO_ACCESS_KEY", &c.Photos.AccessKey)
	str("PHOTO_SECRET_KEY", &c.Photos.SecretKey)
	str("PHOTO_PUBLIC_BASE_URL", &c.Photos.PublicBaseURL)

	integer("FRESHNESS_CRITICAL_DAYS", &c.Freshness.Spoilage.CriticalDays)
	integer("FRESHNESS_WARNING_DAYS", &c.Freshness.Spoilage.WarningDays)
	integer("FRESHNESS_FRESH_DAYS", &c.Freshness.Spoilage.FreshDays)
	integer("FRESHNESS_EXPIRING_DAYS", &c.Freshness.Inventory.ExpiringDays)

	integer("RECIPES_PER_REQUEST", &c.Pantry.RecipesPerRequest)
	duration("SPOILAGE_INTERVAL", &c.Pantry.SpoilageInterval)
	if v := strings.TrimSpace(os.Getenv("MAX_IMAGE_BYTES")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_IMAGE_BYTES: %w", err))
		} else {
			c.Pantry.MaxImageBytes = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSOrigins = origins
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}
