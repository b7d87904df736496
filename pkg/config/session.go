package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SessionConfig is the YAML-persisted connection configuration for a
// device.Session: where to dial, how long to wait per exchange, and
// which PDO mapping file to load.
type SessionConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout,omitempty"`
	PDOMappingPath string        `yaml:"pdo_mapping_path,omitempty"`
	LoadParameters bool          `yaml:"load_parameters,omitempty"`
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults;
// Host/Port are still required before it can Dial.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout: 2 * time.Second,
	}
}

// Addr returns the host:port pair transport.Dial expects.
func (c *SessionConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadSessionConfig reads a SessionConfig from a YAML file at path.
func LoadSessionConfig(path string) (*SessionConfig, error) {
	cfg := DefaultSessionConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *SessionConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
