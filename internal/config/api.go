package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/gallery/pkg/middleware"
	"github.com/JaimeStill/gallery/pkg/openapi"
	"github.com/JaimeStill/gallery/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "GALLERY_CORS_ENABLED",
	Origins:          "GALLERY_CORS_ORIGINS",
	AllowedMethods:   "GALLERY_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "GALLERY_CORS_ALLOWED_HEADERS",
	AllowCredentials: "GALLERY_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "GALLERY_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "GALLERY_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "GALLERY_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:        "GALLERY_OPENAPI_TITLE",
	Description:  "GALLERY_OPENAPI_DESCRIPTION",
	ContactName:  "GALLERY_OPENAPI_CONTACT_NAME",
	ContactEmail: "GALLERY_OPENAPI_CONTACT_EMAIL",
}

// APIConfig holds API routing, CORS, pagination, and OpenAPI metadata settings.
type APIConfig struct {
	BasePath   string                `toml:"base_path"`
	CORS       middleware.CORSConfig `toml:"cors"`
	Pagination pagination.Config     `toml:"pagination"`
	OpenAPI    openapi.Config        `toml:"openapi"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("GALLERY_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("base_path must be a single-level path like /api: %q", c.BasePath)
	}
	return nil
}
