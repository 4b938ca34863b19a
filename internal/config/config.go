package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	minS3PartSize = 5 << 20
	maxPresignTTL = 7 * 24 * time.Hour
)

// Config holds the environment driven configuration for the media gateway.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"media-gateway"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"MEDIA_API_PORT" envDefault:"8285"`
	LogLevel        string        `env:"MEDIA_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database (required by the server, no defaults)
	DBPostgresqlWriteDSN string `env:"DB_POSTGRESQL_WRITE_DSN"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Storage Backend Selection
	StorageBackend string `env:"MEDIA_STORAGE_BACKEND" envDefault:"s3"` // Options: "s3", "minio", "local", "memory"

	// Local Storage Configuration
	LocalStoragePath    string `env:"MEDIA_LOCAL_STORAGE_PATH"`     // Path to store files (e.g., "/var/media" or "./media-data")
	LocalStorageBaseURL string `env:"MEDIA_LOCAL_STORAGE_BASE_URL"` // Base URL of the files route (e.g., "http://localhost:8285/v1/files")
	URLSigningSecret    string `env:"MEDIA_URL_SIGNING_SECRET"`     // HS256 secret for local/memory signed URLs

	// S3 Storage Configuration (shared by the minio backend)
	S3Endpoint       string `env:"MEDIA_S3_ENDPOINT" envDefault:"https://s3.menlo.ai"`
	S3PublicEndpoint string `env:"MEDIA_S3_PUBLIC_ENDPOINT"`
	S3Region         string `env:"MEDIA_S3_REGION" envDefault:"us-west-2"`
	S3Bucket         string `env:"MEDIA_S3_BUCKET" envDefault:"media"`
	S3AccessKeyID    string `env:"MEDIA_S3_ACCESS_KEY_ID"`     // AWS standard naming
	S3SecretKey      string `env:"MEDIA_S3_SECRET_ACCESS_KEY"` // AWS standard naming
	S3UsePathStyle   bool   `env:"MEDIA_S3_USE_PATH_STYLE" envDefault:"true"`

	// MinIO Configuration
	MinioEndpoint string `env:"MEDIA_MINIO_ENDPOINT"` // host:port, no scheme
	MinioUseSSL   bool   `env:"MEDIA_MINIO_USE_SSL" envDefault:"false"`

	// Upload Configuration
	MaxMediaBytes        int64         `env:"MEDIA_MAX_BYTES" envDefault:"52428800"`
	ChunkSize            int64         `env:"MEDIA_CHUNK_SIZE" envDefault:"5242880"`
	AlwaysMultipartTypes []string      `env:"MEDIA_ALWAYS_MULTIPART_TYPES" envSeparator:","`
	AllowedFolders       []string      `env:"MEDIA_ALLOWED_FOLDERS" envSeparator:"," envDefault:"feed,general"`
	DefaultFolder        string        `env:"MEDIA_DEFAULT_FOLDER" envDefault:"general"`
	TempDir              string        `env:"MEDIA_TEMP_DIR"`
	AbortTimeout         time.Duration `env:"MEDIA_ABORT_TIMEOUT" envDefault:"30s"`
	BulkMaxFiles         int           `env:"MEDIA_BULK_MAX_FILES" envDefault:"20"`
	BulkConcurrency      int           `env:"MEDIA_BULK_CONCURRENCY" envDefault:"4"`

	// Signed URLs
	SignedURLTTL    time.Duration `env:"MEDIA_SIGNED_URL_TTL" envDefault:"2h"`
	SignedURLMaxTTL time.Duration `env:"MEDIA_SIGNED_URL_MAX_TTL" envDefault:"168h"`
	ProxyDownload   bool          `env:"MEDIA_PROXY_DOWNLOAD" envDefault:"true"`

	// Thumbnails
	ThumbnailsEnabled  bool `env:"MEDIA_THUMBNAILS_ENABLED" envDefault:"true"`
	ThumbnailMaxSize   int  `env:"MEDIA_THUMBNAIL_MAX_SIZE" envDefault:"200"`
	ThumbnailQuality   int  `env:"MEDIA_THUMBNAIL_QUALITY" envDefault:"80"`
	ThumbnailMaxPixels int  `env:"MEDIA_THUMBNAIL_MAX_PIXELS" envDefault:"50000000"`

	// Authentication
	AuthEnabled  bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer   string `env:"AUTH_ISSUER"`
	AuthAudience string `env:"AUTH_AUDIENCE"`
	AuthJWKSURL  string `env:"AUTH_JWKS_URL"`
}

// Load parses environment variables into Config for the HTTP server.
func Load() (*Config, error) {
	cfg, err := LoadStorage()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DBPostgresqlWriteDSN) == "" {
		return nil, fmt.Errorf("DB_POSTGRESQL_WRITE_DSN is required")
	}
	return cfg, nil
}

// LoadStorage parses the configuration without requiring a database, for
// tools that only talk to the storage backend.
func LoadStorage() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.S3Bucket = strings.TrimSpace(c.S3Bucket)
	c.S3AccessKeyID = strings.TrimSpace(c.S3AccessKeyID)
	c.S3SecretKey = strings.TrimSpace(c.S3SecretKey)
	c.S3Endpoint = strings.TrimSpace(c.S3Endpoint)
	c.S3PublicEndpoint = strings.TrimSpace(c.S3PublicEndpoint)
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	if c.StorageBackend == "" {
		c.StorageBackend = "s3"
	}

	if c.MaxMediaBytes <= 0 {
		c.MaxMediaBytes = 50 << 20
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = minS3PartSize
	}
	if c.ChunkSize < minS3PartSize && (c.IsS3Storage() || c.IsMinioStorage()) {
		return fmt.Errorf("MEDIA_CHUNK_SIZE must be at least %d bytes for the %s backend", minS3PartSize, c.StorageBackend)
	}
	if c.SignedURLMaxTTL <= 0 || c.SignedURLMaxTTL > maxPresignTTL {
		c.SignedURLMaxTTL = maxPresignTTL
	}
	if c.SignedURLTTL <= 0 || c.SignedURLTTL > c.SignedURLMaxTTL {
		return fmt.Errorf("MEDIA_SIGNED_URL_TTL must be between 1s and %s", c.SignedURLMaxTTL)
	}
	if c.BulkMaxFiles <= 0 {
		c.BulkMaxFiles = 20
	}
	if c.BulkConcurrency <= 0 {
		c.BulkConcurrency = 1
	}
	for i := range c.AllowedFolders {
		c.AllowedFolders[i] = strings.Trim(strings.TrimSpace(c.AllowedFolders[i]), "/")
	}
	for i := range c.AlwaysMultipartTypes {
		c.AlwaysMultipartTypes[i] = strings.ToLower(strings.TrimSpace(c.AlwaysMultipartTypes[i]))
	}

	switch c.StorageBackend {
	case "s3", "minio", "local", "memory":
	default:
		return fmt.Errorf("unknown MEDIA_STORAGE_BACKEND %q", c.StorageBackend)
	}
	if (c.IsLocalStorage() || c.IsMemoryStorage()) && strings.TrimSpace(c.URLSigningSecret) == "" {
		return fmt.Errorf("MEDIA_URL_SIGNING_SECRET is required for the %s backend", c.StorageBackend)
	}

	if c.AuthEnabled {
		if strings.TrimSpace(c.AuthIssuer) == "" {
			return fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(c.AuthJWKSURL) == "" {
			return fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return nil
}

// GetDatabaseWriteDSN returns the write database connection string.
func (c *Config) GetDatabaseWriteDSN() string {
	return c.DBPostgresqlWriteDSN
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// FilesBaseURL returns the base URL of the signed files route for local and memory backends.
func (c *Config) FilesBaseURL() string {
	if base := strings.TrimSpace(c.LocalStorageBaseURL); base != "" {
		return strings.TrimSuffix(base, "/")
	}
	return fmt.Sprintf("http://localhost:%d/v1/files", c.HTTPPort)
}

// IsLocalStorage returns true if local storage backend is configured.
func (c *Config) IsLocalStorage() bool {
	return c.StorageBackend == "local"
}

// IsMemoryStorage returns true if the in-memory backend is configured.
func (c *Config) IsMemoryStorage() bool {
	return c.StorageBackend == "memory"
}

// IsMinioStorage returns true if the minio backend is configured.
func (c *Config) IsMinioStorage() bool {
	return c.StorageBackend == "minio"
}

// IsS3Storage returns true if S3 storage backend is configured.
func (c *Config) IsS3Storage() bool {
	return c.StorageBackend == "" || c.StorageBackend == "s3"
}

// UsesSignedFileRoute reports whether downloads go through the gateway's /v1/files route.
func (c *Config) UsesSignedFileRoute() bool {
	return c.IsLocalStorage() || c.IsMemoryStorage()
}
