package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// RoutingConfig holds the routing and orchestration configuration.
type RoutingConfig struct {
	ClassifierAdapter string         `yaml:"classifier_adapter,omitempty"`
	ClassifierModel   string         `yaml:"classifier_model,omitempty"`
	Default           RouteTarget    `yaml:"default"`
	Endpoint          EndpointConfig `yaml:"endpoint,omitempty"`
	// Triggers adds keywords to the fallback classifier's built-in rules,
	// keyed by task type. Built-in keywords always apply.
	Triggers    map[string][]string `yaml:"triggers,omitempty"`
	Agents      map[string][]string `yaml:"agents,omitempty"`
	MaxSteps    int                 `yaml:"max_steps,omitempty"`
	CatalogPath string              `yaml:"catalog_path,omitempty"`
}

// RouteTarget specifies an adapter and model combination.
type RouteTarget struct {
	Adapter string `yaml:"adapter"`
	Model   string `yaml:"model"`
}

// EndpointConfig describes the self-hosted inference endpoint.
type EndpointConfig struct {
	URL                   string `yaml:"url,omitempty"`
	MaxRetries            int    `yaml:"max_retries,omitempty"`
	TimeoutSeconds        int    `yaml:"timeout_seconds,omitempty"`
	AutoFailover          bool   `yaml:"auto_failover,omitempty"`
	FallbackToCloud       bool   `yaml:"fallback_to_cloud,omitempty"`
	HealthIntervalSeconds int    `yaml:"health_interval_seconds,omitempty"`
	ProbeTimeoutSeconds   int    `yaml:"probe_timeout_seconds,omitempty"`
}

// LoadRoutingConfig reads routing configuration from a YAML file.
func LoadRoutingConfig(path string) (*RoutingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg RoutingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyRoutingDefaults(&cfg)
	return &cfg, nil
}

// DefaultRoutingConfig returns the default routing configuration.
func DefaultRoutingConfig() *RoutingConfig {
	cfg := &RoutingConfig{
		ClassifierAdapter: "anthropic",
		ClassifierModel:   "claude-sonnet-4-20250514",
		Default: RouteTarget{
			Adapter: "anthropic",
			Model:   "claude-sonnet-4-20250514",
		},
		Endpoint: EndpointConfig{
			URL:             "http://localhost:5000",
			AutoFailover:    true,
			FallbackToCloud: true,
		},
		Agents: map[string][]string{
			"planning":  {"claude-sonnet-4-20250514", "gpt-5.2-thinking"},
			"reasoning": {"deepseek-reasoner", "gpt-5.2-pro"},
			"coding":    {"deepseek-coder", "claude-sonnet-4-20250514"},
			"execution": {"gpt-5.2-instant", "claude-sonnet-4-20250514"},
		},
	}

	applyRoutingDefaults(cfg)
	return cfg
}

func applyRoutingDefaults(cfg *RoutingConfig) {
	if cfg == nil {
		return
	}
	if cfg.Endpoint.MaxRetries == 0 {
		cfg.Endpoint.MaxRetries = 3
	}
	if cfg.Endpoint.TimeoutSeconds == 0 {
		cfg.Endpoint.TimeoutSeconds = 30
	}
	if cfg.Endpoint.HealthIntervalSeconds == 0 {
		cfg.Endpoint.HealthIntervalSeconds = 30
	}
	if cfg.Endpoint.ProbeTimeoutSeconds == 0 {
		cfg.Endpoint.ProbeTimeoutSeconds = 5
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = 4
	}
}
