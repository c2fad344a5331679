package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRoutingConfig(t *testing.T) {
	cfg := DefaultRoutingConfig()

	if cfg.ClassifierAdapter != "anthropic" {
		t.Errorf("ClassifierAdapter = %s", cfg.ClassifierAdapter)
	}
	if cfg.Default.Adapter != "anthropic" || cfg.Default.Model == "" {
		t.Errorf("default target = %+v", cfg.Default)
	}
	if cfg.Endpoint.MaxRetries != 3 || cfg.Endpoint.TimeoutSeconds != 30 {
		t.Errorf("endpoint retry defaults = %+v", cfg.Endpoint)
	}
	if cfg.Endpoint.HealthIntervalSeconds != 30 || cfg.Endpoint.ProbeTimeoutSeconds != 5 {
		t.Errorf("endpoint health defaults = %+v", cfg.Endpoint)
	}
	if !cfg.Endpoint.AutoFailover || !cfg.Endpoint.FallbackToCloud {
		t.Error("failover should be on by default")
	}
	if cfg.MaxSteps != 4 {
		t.Errorf("MaxSteps = %d, want 4", cfg.MaxSteps)
	}
	for _, agent := range []string{"planning", "reasoning", "coding", "execution"} {
		if len(cfg.Agents[agent]) == 0 {
			t.Errorf("agent %s has no models", agent)
		}
	}
}

func TestLoadRoutingConfig(t *testing.T) {
	content := `classifier_adapter: deepseek
classifier_model: deepseek-chat
default:
  adapter: openai
  model: gpt-5.2-instant
endpoint:
  url: http://gpu-box:5000
  max_retries: 5
  auto_failover: true
agents:
  coding:
    - deepseek-coder
max_steps: 2
`
	path := filepath.Join(t.TempDir(), "routing.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write routing config: %v", err)
	}

	cfg, err := LoadRoutingConfig(path)
	if err != nil {
		t.Fatalf("LoadRoutingConfig: %v", err)
	}
	if cfg.ClassifierAdapter != "deepseek" || cfg.ClassifierModel != "deepseek-chat" {
		t.Errorf("classifier = %s/%s", cfg.ClassifierAdapter, cfg.ClassifierModel)
	}
	if cfg.Default.Adapter != "openai" || cfg.Default.Model != "gpt-5.2-instant" {
		t.Errorf("default = %+v", cfg.Default)
	}
	if cfg.Endpoint.URL != "http://gpu-box:5000" {
		t.Errorf("endpoint url = %s", cfg.Endpoint.URL)
	}
	if cfg.Endpoint.MaxRetries != 5 {
		t.Errorf("max retries = %d, file value must win over default", cfg.Endpoint.MaxRetries)
	}
	if cfg.Endpoint.TimeoutSeconds != 30 || cfg.Endpoint.ProbeTimeoutSeconds != 5 {
		t.Errorf("unset endpoint fields should default: %+v", cfg.Endpoint)
	}
	if cfg.MaxSteps != 2 {
		t.Errorf("MaxSteps = %d, want 2", cfg.MaxSteps)
	}
	if len(cfg.Agents) != 1 || cfg.Agents["coding"][0] != "deepseek-coder" {
		t.Errorf("agents = %+v", cfg.Agents)
	}
}

func TestLoadRoutingConfigMissingFile(t *testing.T) {
	if _, err := LoadRoutingConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRoutingConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routing.yaml")
	if err := os.WriteFile(path, []byte("default: [not: a: mapping"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadRoutingConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFallsBackToDefaultRouting(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AnthropicAPIKey != "sk-ant-env" {
		t.Errorf("AnthropicAPIKey = %q", cfg.AnthropicAPIKey)
	}
	// No routing.yaml in the config dir, so built-in defaults apply.
	if cfg.RoutingConfig.ClassifierAdapter != "anthropic" {
		t.Errorf("ClassifierAdapter = %s, want built-in default", cfg.RoutingConfig.ClassifierAdapter)
	}
}

func TestLoadWithRoutingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "routing.yaml")
	content := "classifier_adapter: deepseek\ndefault:\n  adapter: deepseek\n  model: deepseek-chat\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadWithRoutingFile(path)
	if err != nil {
		t.Fatalf("LoadWithRoutingFile: %v", err)
	}
	if cfg.RoutingConfig.ClassifierAdapter != "deepseek" {
		t.Errorf("ClassifierAdapter = %s, want value from file", cfg.RoutingConfig.ClassifierAdapter)
	}

	if _, err := LoadWithRoutingFile(""); err == nil {
		t.Fatal("expected error for empty routing path")
	}
	if _, err := LoadWithRoutingFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing routing file")
	}
}

func TestHasAdapter(t *testing.T) {
	cfg := &Config{AnthropicAPIKey: "sk-ant-test", DeepSeekAPIKey: "sk-ds-test"}

	cases := []struct {
		name string
		want bool
	}{
		{"anthropic", true},
		{"deepseek", true},
		{"openai", false},
		{"google", false},
		{"h100", false},
	}
	for _, tc := range cases {
		if got := cfg.HasAdapter(tc.name); got != tc.want {
			t.Errorf("HasAdapter(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("LEXROUTE_TEST_KEY", "from-env")
	if got := getEnvOrDefault("LEXROUTE_TEST_KEY", "fallback"); got != "from-env" {
		t.Errorf("got %q, want env value", got)
	}
	if got := getEnvOrDefault("LEXROUTE_UNSET_KEY", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestLoadFileConfig(t *testing.T) {
	content := `api_keys:
  anthropic: sk-ant-file
  deepseek: sk-ds-file
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := loadFileConfig(path)
	if cfg.APIKeys.Anthropic != "sk-ant-file" || cfg.APIKeys.DeepSeek != "sk-ds-file" {
		t.Errorf("keys = %+v", cfg.APIKeys)
	}
	if cfg.APIKeys.OpenAI != "" {
		t.Errorf("unset key = %q, want empty", cfg.APIKeys.OpenAI)
	}

	// Missing file yields an empty config, not an error.
	empty := loadFileConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if empty.APIKeys.Anthropic != "" {
		t.Error("missing file should yield empty config")
	}
}
