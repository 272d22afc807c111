package config

import (
	"fmt"
	"os"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverFile     = "file"
)

// StoreConfig selects the prompt record backend.
type StoreConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *StoreConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *StoreConfig) Merge(overlay *StoreConfig) {
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}

func (c *StoreConfig) loadDefaults() {
	if c.Driver == "" {
		c.Driver = DriverPostgres
	}
	if c.Path == "" {
		c.Path = "data/prompts.json"
	}
}

func (c *StoreConfig) loadEnv() {
	if v := os.Getenv("GALLERY_STORE_DRIVER"); v != "" {
		c.Driver = v
	}
	if v := os.Getenv("GALLERY_STORE_PATH"); v != "" {
		c.Path = v
	}
}

func (c *StoreConfig) validate() error {
	switch c.Driver {
	case DriverPostgres, DriverMongo, DriverFile:
		return nil
	default:
		return fmt.Errorf("unknown driver %q (want %s, %s, or %s)", c.Driver, DriverPostgres, DriverMongo, DriverFile)
	}
}
