package openapi

import "os"

// Config holds the document metadata that operators may rebrand.
type Config struct {
	Title        string `toml:"title"`
	Description  string `toml:"description"`
	ContactName  string `toml:"contact_name"`
	ContactEmail string `toml:"contact_email"`
}

// ConfigEnv names the environment variables that override Config fields.
type ConfigEnv struct {
	Title        string
	Description  string
	ContactName  string
	ContactEmail string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Prompt Gallery API"
	}
	if c.Description == "" {
		c.Description = "Browse, search, and curate AI image-generation prompts."
	}

	if env != nil {
		overrideString(&c.Title, env.Title)
		overrideString(&c.Description, env.Description)
		overrideString(&c.ContactName, env.ContactName)
		overrideString(&c.ContactEmail, env.ContactEmail)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.Title, overlay.Title)
	mergeString(&c.Description, overlay.Description)
	mergeString(&c.ContactName, overlay.ContactName)
	mergeString(&c.ContactEmail, overlay.ContactEmail)
}

func overrideString(field *string, key string) {
	if key == "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}

func mergeString(field *string, v string) {
	if v != "" {
		*field = v
	}
}
