package media

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/gallery/pkg/formatting"
)

// Media host providers.
const (
	ProviderCloudinary = "cloudinary"
	ProviderBlob       = "blob"
)

// Config selects the media host and bounds accepted uploads.
type Config struct {
	Provider      string           `toml:"provider"`
	MaxUploadSize string           `toml:"max_upload_size"`
	PublicBaseURL string           `toml:"public_base_url"`
	Cloudinary    CloudinaryConfig `toml:"cloudinary"`
}

// CloudinaryConfig holds Cloudinary upload API credentials and circuit breaker settings.
type CloudinaryConfig struct {
	CloudName string        `toml:"cloud_name"`
	APIKey    string        `toml:"api_key"`
	APISecret string        `toml:"api_secret"`
	Folder    string        `toml:"folder"`
	BaseURL   string        `toml:"base_url"`
	Timeout   string        `toml:"timeout"`
	Breaker   BreakerConfig `toml:"breaker"`
}

// BreakerConfig tunes the circuit breaker guarding the external host.
type BreakerConfig struct {
	MaxRequests      uint32  `toml:"max_requests"`
	Interval         string  `toml:"interval"`
	Timeout          string  `toml:"timeout"`
	FailureThreshold float64 `toml:"failure_threshold"`
	MinRequests      uint32  `toml:"min_requests"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider            string
	MaxUploadSize       string
	PublicBaseURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

// MaxUploadSizeBytes returns MaxUploadSize as a byte count.
func (c *Config) MaxUploadSizeBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxUploadSize)
	return n
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *CloudinaryConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// IntervalDuration returns Interval as a time.Duration.
func (c *BreakerConfig) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *BreakerConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
// Cloudinary credentials are only required when it is the active provider.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.PublicBaseURL != "" {
		c.PublicBaseURL = overlay.PublicBaseURL
	}
	c.Cloudinary.Merge(&overlay.Cloudinary)
}

// Merge overwrites non-zero fields from overlay.
func (c *CloudinaryConfig) Merge(overlay *CloudinaryConfig) {
	if overlay.CloudName != "" {
		c.CloudName = overlay.CloudName
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.APISecret != "" {
		c.APISecret = overlay.APISecret
	}
	if overlay.Folder != "" {
		c.Folder = overlay.Folder
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Breaker.MaxRequests != 0 {
		c.Breaker.MaxRequests = overlay.Breaker.MaxRequests
	}
	if overlay.Breaker.Interval != "" {
		c.Breaker.Interval = overlay.Breaker.Interval
	}
	if overlay.Breaker.Timeout != "" {
		c.Breaker.Timeout = overlay.Breaker.Timeout
	}
	if overlay.Breaker.FailureThreshold != 0 {
		c.Breaker.FailureThreshold = overlay.Breaker.FailureThreshold
	}
	if overlay.Breaker.MinRequests != 0 {
		c.Breaker.MinRequests = overlay.Breaker.MinRequests
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderCloudinary
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}

	cl := &c.Cloudinary
	if cl.BaseURL == "" {
		cl.BaseURL = "https://api.cloudinary.com/v1_1"
	}
	if cl.Timeout == "" {
		cl.Timeout = "30s"
	}
	if cl.Breaker.MaxRequests == 0 {
		cl.Breaker.MaxRequests = 5
	}
	if cl.Breaker.Interval == "" {
		cl.Breaker.Interval = "30s"
	}
	if cl.Breaker.Timeout == "" {
		cl.Breaker.Timeout = "60s"
	}
	if cl.Breaker.FailureThreshold == 0 {
		cl.Breaker.FailureThreshold = 0.8
	}
	if cl.Breaker.MinRequests == 0 {
		cl.Breaker.MinRequests = 5
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	set(env.Provider, &c.Provider)
	set(env.MaxUploadSize, &c.MaxUploadSize)
	set(env.PublicBaseURL, &c.PublicBaseURL)
	set(env.CloudinaryCloudName, &c.Cloudinary.CloudName)
	set(env.CloudinaryAPIKey, &c.Cloudinary.APIKey)
	set(env.CloudinaryAPISecret, &c.Cloudinary.APISecret)
	set(env.CloudinaryFolder, &c.Cloudinary.Folder)
}

func (c *Config) validate() error {
	n, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}

	switch c.Provider {
	case ProviderBlob:
		return nil
	case ProviderCloudinary:
		return c.Cloudinary.validate()
	default:
		return fmt.Errorf("unknown provider %q (want %s or %s)", c.Provider, ProviderCloudinary, ProviderBlob)
	}
}

func (c *CloudinaryConfig) validate() error {
	if c.CloudName == "" {
		return fmt.Errorf("cloudinary: cloud_name required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("cloudinary: api_key required")
	}
	if c.APISecret == "" {
		return fmt.Errorf("cloudinary: api_secret required")
	}
	for name, v := range map[string]string{
		"timeout":          c.Timeout,
		"breaker.interval": c.Breaker.Interval,
		"breaker.timeout":  c.Breaker.Timeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("cloudinary: invalid %s: %w", name, err)
		}
	}
	if c.Breaker.FailureThreshold <= 0 || c.Breaker.FailureThreshold > 1 {
		return fmt.Errorf("cloudinary: breaker.failure_threshold must be in (0, 1]")
	}
	return nil
}
