package storage

import (
	"fmt"
	"os"
)

// Config holds Azure Blob Storage connection parameters.
// Either ConnectionString or AccountURL must be set; AccountURL authenticates
// with the default Azure credential chain.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
	AccountURL       string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "images"
	}
}

func (c *Config) loadEnv(env *Env) {
	for _, o := range []struct {
		field *string
		key   string
	}{
		{&c.ContainerName, env.ContainerName},
		{&c.ConnectionString, env.ConnectionString},
		{&c.AccountURL, env.AccountURL},
	} {
		if o.key == "" {
			continue
		}
		if v := os.Getenv(o.key); v != "" {
			*o.field = v
		}
	}
}

func (c *Config) validate() error {
	if err := validateContainerName(c.ContainerName); err != nil {
		return err
	}
	if c.ConnectionString == "" && c.AccountURL == "" {
		return fmt.Errorf("connection_string or account_url required")
	}
	return nil
}

// validateContainerName applies Azure's naming rules: 3 to 63 lowercase
// letters, digits, and single hyphens, starting and ending alphanumeric.
func validateContainerName(name string) error {
	if len(name) < 3 || len(name) > 63 {
		return fmt.Errorf("container_name %q must be 3 to 63 characters", name)
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '-' && i > 0 && i < len(name)-1 && name[i-1] != '-':
		default:
			return fmt.Errorf("container_name %q is not a valid blob container name", name)
		}
	}
	return nil
}
