package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/mdshamim125/contest-hub-server/internal/authz"
)

type Config struct {
	Addr     string         `yaml:"addr"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Payments PaymentConfig  `yaml:"payments"`
	Audit    AuditConfig    `yaml:"audit"`
	CORS     CORSConfig     `yaml:"cors"`

	// Rules overrides the built-in authorization policy table.
	Rules []authz.Rule `yaml:"rules"`
}

type DatabaseConfig struct {
	// URI is the MongoDB connection string.
	URI string `yaml:"uri"`

	// Name is the database name. Defaults to "contest-hub".
	Name string `yaml:"name"`
}

type AuthConfig struct {
	// Secret signs session tokens. Required.
	Secret string `yaml:"secret"`

	// TokenTTL bounds session token lifetime. Defaults to 1h.
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// PaymentConfig holds configuration for the payment provider.
type PaymentConfig struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`    // e.g., "stripe", "stub"
	Config map[string]any `yaml:",inline"` // Capture remaining fields
}

// AuditConfig holds configuration for auditing.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Type    string `yaml:"type"` // e.g., "file", "memory"
}

type CORSConfig struct {
	// Origins lists the frontend origins allowed to call the API.
	Origins []string `yaml:"origins"`
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Database.URI == "" {
		return fmt.Errorf("database.uri is required")
	}
	if c.Database.Name == "" {
		c.Database.Name = "contest-hub"
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("auth.token_ttl must not be negative")
	}

	if c.Payments.Type == "" {
		c.Payments.Type = "stub"
	}
	if c.Payments.Name == "" {
		c.Payments.Name = c.Payments.Type
	}

	if c.Audit.Enabled {
		switch c.Audit.Type {
		case "memory":
		case "file":
			if c.Audit.Path == "" {
				return fmt.Errorf("audit.path is required for file auditing")
			}
		default:
			return fmt.Errorf("unknown audit type %q", c.Audit.Type)
		}
	}

	for idx := range c.Rules {
		if err := c.Rules[idx].Validate(); err != nil {
			return fmt.Errorf("validating rule at index %d: %w", idx, err)
		}
	}

	return nil
}
