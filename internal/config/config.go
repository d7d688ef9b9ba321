package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPageSize    = 6
	DefaultMaxPageSize = 100
	DefaultListenAddr  = ":8080"
	DefaultBrandName   = "Foodgram"
)

// Config represents the application configuration.
type Config struct {
	Env            string      `json:"env"`
	DatabaseURL    string      `json:"DATABASE_URL"`
	JWTSecret      string      `json:"jwt_secret"`
	ListenAddr     string      `json:"listen_addr"`
	PageSize       int         `json:"page_size"`
	MaxPageSize    int         `json:"max_page_size"`
	BrandName      string      `json:"brand_name"`
	AllowedOrigins []string    `json:"allowed_origins"`
	Images         ImageConfig `json:"images"`
}

// ImageConfig selects where uploaded recipe images are written.
type ImageConfig struct {
	Driver    string `json:"driver"` // "local" or "s3"
	MediaDir  string `json:"media_dir"`
	MediaURL  string `json:"media_url"`
	S3Bucket  string `json:"s3_bucket"`
	S3Region  string `json:"s3_region"`
	PublicURL string `json:"public_url"`
}

// Load reads the JSON file at path (if present), applies .env and process
// environment overrides, fills defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// .env is optional outside local development.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Env = getEnv("ENV", c.Env)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.ListenAddr = getEnv("LISTEN_ADDR", c.ListenAddr)
	c.BrandName = getEnv("BRAND_NAME", c.BrandName)

	if v, ok := os.LookupEnv("PAGE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PAGE_SIZE %q: %w", v, err)
		}
		c.PageSize = n
	}
	if v, ok := os.LookupEnv("MAX_PAGE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_PAGE_SIZE %q: %w", v, err)
		}
		c.MaxPageSize = n
	}
	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = splitList(v)
	}

	c.Images.Driver = getEnv("IMAGE_STORE", c.Images.Driver)
	c.Images.MediaDir = getEnv("MEDIA_DIR", c.Images.MediaDir)
	c.Images.MediaURL = getEnv("MEDIA_URL", c.Images.MediaURL)
	c.Images.S3Bucket = getEnv("S3_BUCKET", c.Images.S3Bucket)
	c.Images.S3Region = getEnv("S3_REGION", c.Images.S3Region)
	c.Images.PublicURL = getEnv("S3_PUBLIC_URL", c.Images.PublicURL)
	return nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MaxPageSize == 0 {
		c.MaxPageSize = DefaultMaxPageSize
	}
	if c.BrandName == "" {
		c.BrandName = DefaultBrandName
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Images.Driver == "" {
		c.Images.Driver = "local"
	}
	if c.Images.MediaDir == "" {
		c.Images.MediaDir = "media"
	}
	if c.Images.MediaURL == "" {
		c.Images.MediaURL = "/media"
	}
}

// Validate reports the first missing or malformed setting.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("config: page size must be positive, got %d", c.PageSize)
	}
	if c.MaxPageSize < c.PageSize {
		return fmt.Errorf("config: max page size %d is below page size %d", c.MaxPageSize, c.PageSize)
	}
	switch c.Images.Driver {
	case "local":
	case "s3":
		if c.Images.S3Bucket == "" {
			return errors.New("config: S3_BUCKET is required for the s3 image store")
		}
	default:
		return fmt.Errorf("config: unknown image store %q", c.Images.Driver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
