package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/gallery/internal/auth"
	"github.com/JaimeStill/gallery/internal/media"
	"github.com/JaimeStill/gallery/pkg/cache"
	"github.com/JaimeStill/gallery/pkg/database"
	"github.com/JaimeStill/gallery/pkg/mongodb"
	"github.com/JaimeStill/gallery/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvGalleryEnv     = "GALLERY_ENV"
	EnvGalleryVersion = "GALLERY_VERSION"
)

// DatabaseEnv names the GALLERY_DB_* variables shared by the server and cmd/migrate.
var DatabaseEnv = &database.Env{
	URL:             "GALLERY_DATABASE_URL",
	Host:            "GALLERY_DB_HOST",
	Port:            "GALLERY_DB_PORT",
	Name:            "GALLERY_DB_NAME",
	User:            "GALLERY_DB_USER",
	Password:        "GALLERY_DB_PASSWORD",
	SSLMode:         "GALLERY_DB_SSL_MODE",
	MaxOpenConns:    "GALLERY_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "GALLERY_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "GALLERY_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "GALLERY_DB_CONN_TIMEOUT",
}

var mongoEnv = &mongodb.Env{
	URI:         "GALLERY_MONGO_URI",
	Database:    "GALLERY_MONGO_DATABASE",
	ConnTimeout: "GALLERY_MONGO_CONN_TIMEOUT",
}

var cacheEnv = &cache.Env{
	Addr:     "GALLERY_CACHE_ADDR",
	Password: "GALLERY_CACHE_PASSWORD",
	DB:       "GALLERY_CACHE_DB",
	TTL:      "GALLERY_CACHE_TTL",
	Prefix:   "GALLERY_CACHE_PREFIX",
}

var storageEnv = &storage.Env{
	ContainerName:    "GALLERY_STORAGE_CONTAINER_NAME",
	ConnectionString: "GALLERY_STORAGE_CONNECTION_STRING",
	AccountURL:       "GALLERY_STORAGE_ACCOUNT_URL",
}

var mediaEnv = &media.Env{
	Provider:            "GALLERY_MEDIA_PROVIDER",
	MaxUploadSize:       "GALLERY_MEDIA_MAX_UPLOAD_SIZE",
	PublicBaseURL:       "GALLERY_MEDIA_PUBLIC_BASE_URL",
	CloudinaryCloudName: "GALLERY_CLOUDINARY_CLOUD_NAME",
	CloudinaryAPIKey:    "GALLERY_CLOUDINARY_API_KEY",
	CloudinaryAPISecret: "GALLERY_CLOUDINARY_API_SECRET",
	CloudinaryFolder:    "GALLERY_CLOUDINARY_FOLDER",
}

var authEnv = &auth.Env{
	Username:      "GALLERY_ADMIN_USERNAME",
	Password:      "GALLERY_ADMIN_PASSWORD",
	Token:         "GALLERY_AUTH_TOKEN",
	ProtectWrites: "GALLERY_AUTH_PROTECT_WRITES",
	LoginRate:     "GALLERY_AUTH_LOGIN_RATE",
	LoginBurst:    "GALLERY_AUTH_LOGIN_BURST",
}

// Config is the root configuration for the gallery service.
type Config struct {
	Server   ServerConfig    `toml:"server"`
	Store    StoreConfig     `toml:"store"`
	Database database.Config `toml:"database"`
	Mongo    mongodb.Config  `toml:"mongo"`
	Cache    cache.Config    `toml:"cache"`
	Storage  storage.Config  `toml:"storage"`
	Media    media.Config    `toml:"media"`
	Auth     auth.Config     `toml:"auth"`
	API      APIConfig       `toml:"api"`
	Logging  LoggingConfig   `toml:"logging"`
	Version  string          `toml:"version"`
}

// Env returns the GALLERY_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvGalleryEnv); env != "" {
		return env
	}
	return "local"
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with config files resolved relative to dir.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{}

	base := filepath.Join(dir, BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(dir); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Store.Merge(&overlay.Store)
	c.Database.Merge(&overlay.Database)
	c.Mongo.Merge(&overlay.Mongo)
	c.Cache.Merge(&overlay.Cache)
	c.Storage.Merge(&overlay.Storage)
	c.Media.Merge(&overlay.Media)
	c.Auth.Merge(&overlay.Auth)
	c.API.Merge(&overlay.API)
	c.Logging.Merge(&overlay.Logging)
}

// UsesBlobStorage reports whether the media relay stores images in blob storage.
func (c *Config) UsesBlobStorage() bool {
	return c.Media.Provider == media.ProviderBlob
}

// finalize runs every sub-config through its three phases. Configs for
// inactive backends are skipped so their required fields are not demanded.
func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Store.Finalize(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if err := c.Database.Finalize(DatabaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	case DriverMongo:
		if err := c.Mongo.Finalize(mongoEnv); err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
	}

	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Media.Finalize(mediaEnv); err != nil {
		return fmt.Errorf("media: %w", err)
	}
	if c.UsesBlobStorage() {
		if err := c.Storage.Finalize(storageEnv); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvGalleryVersion); v != "" {
		c.Version = v
	}
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvGalleryEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
