package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAML renders the effective configuration in the config file format.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	return data, nil
}
