package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProviderEntry configures one link of the fallback chain.
type ProviderEntry struct {
	Name           string `yaml:"name"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Providers describes the chain order and the Piped mirror pool. It lives
// in its own YAML file so the chain can be re-ordered without touching the
// server config.
type Providers struct {
	Chain               []ProviderEntry `yaml:"chain"`
	PipedInstances      []string        `yaml:"piped_instances"`
	HealthCheckInterval string          `yaml:"health_check_interval"`
}

// DefaultProviders is the built-in chain used when no providers file exists.
func DefaultProviders() *Providers {
	return &Providers{
		Chain: []ProviderEntry{
			{Name: "innertube", TimeoutSeconds: 15},
			{Name: "rapidapi", TimeoutSeconds: 10},
			{Name: "piped", TimeoutSeconds: 8},
		},
		PipedInstances: []string{
			"https://pipedapi.kavin.rocks",
			"https://pipedapi.adminforge.de",
			"https://api.piped.private.coffee",
		},
		HealthCheckInterval: "@every 5m",
	}
}

// LoadProviders reads the YAML providers file, falling back to the default
// chain when the file is absent.
func LoadProviders(path string) (*Providers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultProviders(), nil
		}
		return nil, err
	}
	var p Providers
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse providers file %s: %w", path, err)
	}
	if len(p.Chain) == 0 {
		p.Chain = DefaultProviders().Chain
	}
	if len(p.PipedInstances) == 0 {
		p.PipedInstances = DefaultProviders().PipedInstances
	}
	if p.HealthCheckInterval == "" {
		p.HealthCheckInterval = DefaultProviders().HealthCheckInterval
	}
	return &p, nil
}
