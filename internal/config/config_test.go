package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kontor.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
llm:
  base_url: http://localhost:8080/v1
  api_key: ${KONTOR_TEST_KEY}
  model: gpt-4-turbo
  temperature: 0.7
  max_tokens: 1000
  tool_call_mode: inline
  context_window: 6
host:
  command: /usr/local/bin/kontor
  args: ["serve"]
  env:
    LOG_LEVEL: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LLM.Model != "gpt-4-turbo" {
		t.Errorf("unexpected model %q", cfg.LLM.Model)
	}
	if cfg.LLM.ToolCallMode != "inline" {
		t.Errorf("unexpected mode %q", cfg.LLM.ToolCallMode)
	}
	if cfg.LLM.ContextWindow != 6 {
		t.Errorf("unexpected window %d", cfg.LLM.ContextWindow)
	}
	// Expansion happens at use time, not load time
	if cfg.LLM.APIKey != "${KONTOR_TEST_KEY}" {
		t.Errorf("expected raw placeholder, got %q", cfg.LLM.APIKey)
	}
	if cfg.Host.Command == "" || len(cfg.Host.Args) != 1 {
		t.Errorf("host config lost: %+v", cfg.Host)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "llm: [not a mapping")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected a parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"empty config", func(c *Config) {}, false},
		{"structured mode", func(c *Config) { c.LLM.ToolCallMode = "structured" }, false},
		{"inline mode", func(c *Config) { c.LLM.ToolCallMode = "inline" }, false},
		{"unknown mode", func(c *Config) { c.LLM.ToolCallMode = "telepathy" }, true},
		{"temperature too high", func(c *Config) { c.LLM.Temperature = 2.5 }, true},
		{"temperature negative", func(c *Config) { c.LLM.Temperature = -0.1 }, true},
		{"negative window", func(c *Config) { c.LLM.ContextWindow = -1 }, true},
		{"args without command", func(c *Config) { c.Host.Args = []string{"serve"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("KONTOR_TEST_TOKEN", "sk-123")

	tests := []struct {
		in   string
		want string
	}{
		{"${KONTOR_TEST_TOKEN}", "sk-123"},
		{"$KONTOR_TEST_TOKEN", "sk-123"},
		{"Bearer ${KONTOR_TEST_TOKEN}", "Bearer sk-123"},
		{"${KONTOR_TEST_UNSET_VAR}", ""},
		{"no placeholders", "no placeholders"},
	}

	for _, tt := range tests {
		if got := ExpandEnv(tt.in); got != tt.want {
			t.Errorf("ExpandEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandEnvMap(t *testing.T) {
	t.Setenv("KONTOR_TEST_TOKEN", "sk-123")

	got := ExpandEnvMap(map[string]string{
		"AUTH":  "Bearer ${KONTOR_TEST_TOKEN}",
		"PLAIN": "value",
	})
	if got["AUTH"] != "Bearer sk-123" || got["PLAIN"] != "value" {
		t.Errorf("unexpected map: %v", got)
	}

	if ExpandEnvMap(nil) != nil {
		t.Error("nil map should stay nil")
	}
}
