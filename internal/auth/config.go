package auth

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the admin credential pair, the static token issued on login,
// and access control settings.
type Config struct {
	Username      string  `toml:"username"`
	Password      string  `toml:"password"`
	Token         string  `toml:"token"`
	ProtectWrites bool    `toml:"protect_writes"`
	LoginRate     float64 `toml:"login_rate"`
	LoginBurst    int     `toml:"login_burst"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Username      string
	Password      string
	Token         string
	ProtectWrites string
	LoginRate     string
	LoginBurst    string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. ProtectWrites only applies when true.
func (c *Config) Merge(overlay *Config) {
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.ProtectWrites {
		c.ProtectWrites = true
	}
	if overlay.LoginRate != 0 {
		c.LoginRate = overlay.LoginRate
	}
	if overlay.LoginBurst != 0 {
		c.LoginBurst = overlay.LoginBurst
	}
}

func (c *Config) loadDefaults() {
	if c.Username == "" {
		c.Username = "admin"
	}
	if c.LoginRate == 0 {
		c.LoginRate = 1
	}
	if c.LoginBurst == 0 {
		c.LoginBurst = 5
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Username != "" {
		if v := os.Getenv(env.Username); v != "" {
			c.Username = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	if env.ProtectWrites != "" {
		if v := os.Getenv(env.ProtectWrites); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.ProtectWrites = b
			}
		}
	}
	if env.LoginRate != "" {
		if v := os.Getenv(env.LoginRate); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.LoginRate = f
			}
		}
	}
	if env.LoginBurst != "" {
		if v := os.Getenv(env.LoginBurst); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.LoginBurst = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Username == "" {
		return fmt.Errorf("username required")
	}
	if c.Password == "" {
		return fmt.Errorf("password required")
	}
	if c.Token == "" {
		return fmt.Errorf("token required")
	}
	if c.LoginRate <= 0 {
		return fmt.Errorf("login_rate must be positive")
	}
	if c.LoginBurst < 1 {
		return fmt.Errorf("login_burst must be at least 1")
	}
	return nil
}
